package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
)

const coursesBase = "/courses/"

func courseForm(title, action string, req dto.CourseRequest) formPage {
	return formPage{
		Title:  title,
		Action: action,
		Cancel: coursesBase,
		Submit: "Save",
		Fields: []field{
			{Name: "course_code", Label: "Code", Type: "text", Value: req.CourseCode},
			{Name: "course_name", Label: "Name", Type: "text", Value: req.CourseName},
			{Name: "description", Label: "Description", Type: "textarea", Value: req.Description},
			{Name: "credits", Label: "Credits", Type: "number", Value: strconv.Itoa(req.Credits)},
		},
	}
}

func courseRequest(c *models.Course) dto.CourseRequest {
	return dto.CourseRequest{
		CourseCode:  c.CourseCode,
		CourseName:  c.CourseName,
		Description: c.Description,
		Credits:     c.Credits,
	}
}

func (h *Handler) listCourses(ctx *gin.Context) {
	courses, err := h.courses.ListCourses(ctx.Request.Context(), nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	page := listPage{
		Title:     "Courses",
		CreateURL: coursesBase + "create/",
		Columns:   []string{"Code", "Name", "Credits"},
		Rows:      make([]listRow, 0, len(courses)),
	}
	for _, c := range courses {
		page.Rows = append(page.Rows, listRow{
			URL:   itemURL(coursesBase, c.ID),
			Cells: []string{c.CourseCode, c.CourseName, strconv.Itoa(c.Credits)},
		})
	}
	ctx.HTML(http.StatusOK, "list.html", page)
}

func (h *Handler) courseDetail(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	details, err := h.courses.GetCourseDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", detailPage{
		Title: details.CourseCode + " " + details.CourseName,
		Fields: []pair{
			{Label: "Description", Value: details.Description},
			{Label: "Credits", Value: strconv.Itoa(details.Credits)},
		},
		Sections: []section{
			{Title: "Instructors", Items: details.Instructors},
			{Title: "Batches", Items: details.Batches},
			{Title: "Enrolled students", Items: details.Students},
		},
		Links: []link{
			{URL: itemURL(coursesBase, id) + "update/", Label: "Edit"},
			{URL: itemURL(coursesBase, id) + "delete/", Label: "Delete"},
			{URL: coursesBase, Label: "Back to list"},
		},
	})
}

func (h *Handler) createCourseForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "form.html", courseForm("New course", coursesBase+"create/", dto.CourseRequest{}))
}

func (h *Handler) createCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	bindErr := ctx.ShouldBind(&req)
	page := courseForm("New course", coursesBase+"create/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.courses.CreateCourse(ctx.Request.Context(), &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, coursesBase)
}

func (h *Handler) updateCourseForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	course, err := h.courses.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", courseForm("Edit course", itemURL(coursesBase, id)+"update/", courseRequest(course)))
}

func (h *Handler) updateCourse(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req dto.CourseRequest
	bindErr := ctx.ShouldBind(&req)
	page := courseForm("Edit course", itemURL(coursesBase, id)+"update/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.courses.UpdateCourse(ctx.Request.Context(), id, &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, coursesBase)
}

func (h *Handler) confirmDeleteCourse(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	course, err := h.courses.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.confirmDelete(ctx, coursesBase, "Delete course",
		"Delete "+course.CourseCode+"? Its batches and their attendance records are deleted as well.", id)
}

func (h *Handler) deleteCourse(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	if err := h.courses.DeleteCourse(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, coursesBase)
}
