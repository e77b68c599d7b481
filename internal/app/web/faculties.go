package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
)

const facultiesBase = "/faculties/"

func facultyForm(title, action string, req dto.FacultyRequest) formPage {
	return formPage{
		Title:  title,
		Action: action,
		Cancel: facultiesBase,
		Submit: "Save",
		Fields: []field{
			{Name: "first_name", Label: "First name", Type: "text", Value: req.FirstName},
			{Name: "last_name", Label: "Last name", Type: "text", Value: req.LastName},
			{Name: "email", Label: "Email", Type: "email", Value: req.Email},
			{Name: "department", Label: "Department", Type: "text", Value: req.Department},
		},
	}
}

func facultyRequest(f *models.Faculty) dto.FacultyRequest {
	return dto.FacultyRequest{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Email:      f.Email,
		Department: f.Department,
	}
}

func (h *Handler) listFaculties(ctx *gin.Context) {
	faculties, err := h.faculties.ListFaculties(ctx.Request.Context(), nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	page := listPage{
		Title:     "Faculty",
		CreateURL: facultiesBase + "create/",
		Columns:   []string{"Name", "Email", "Department", "Hired"},
		Rows:      make([]listRow, 0, len(faculties)),
	}
	for _, f := range faculties {
		page.Rows = append(page.Rows, listRow{
			URL:   itemURL(facultiesBase, f.ID),
			Cells: []string{f.FullName(), f.Email, f.Department, f.HireDate.String()},
		})
	}
	ctx.HTML(http.StatusOK, "list.html", page)
}

func (h *Handler) facultyDetail(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	details, err := h.faculties.GetFacultyDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", detailPage{
		Title: details.FullName,
		Fields: []pair{
			{Label: "Email", Value: details.Email},
			{Label: "Department", Value: details.Department},
			{Label: "Hire date", Value: details.HireDate.String()},
		},
		Sections: []section{{Title: "Courses", Items: details.Courses}},
		Links: []link{
			{URL: itemURL(facultiesBase, id) + "update/", Label: "Edit"},
			{URL: itemURL(facultiesBase, id) + "delete/", Label: "Delete"},
			{URL: facultiesBase, Label: "Back to list"},
		},
	})
}

func (h *Handler) createFacultyForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "form.html", facultyForm("New faculty member", facultiesBase+"create/", dto.FacultyRequest{}))
}

func (h *Handler) createFaculty(ctx *gin.Context) {
	var req dto.FacultyRequest
	bindErr := ctx.ShouldBind(&req)
	page := facultyForm("New faculty member", facultiesBase+"create/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.faculties.CreateFaculty(ctx.Request.Context(), &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, facultiesBase)
}

func (h *Handler) updateFacultyForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	faculty, err := h.faculties.GetFaculty(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", facultyForm("Edit faculty member", itemURL(facultiesBase, id)+"update/", facultyRequest(faculty)))
}

func (h *Handler) updateFaculty(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req dto.FacultyRequest
	bindErr := ctx.ShouldBind(&req)
	page := facultyForm("Edit faculty member", itemURL(facultiesBase, id)+"update/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.faculties.UpdateFaculty(ctx.Request.Context(), id, &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, facultiesBase)
}

func (h *Handler) confirmDeleteFaculty(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	faculty, err := h.faculties.GetFaculty(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.confirmDelete(ctx, facultiesBase, "Delete faculty member",
		"Delete "+faculty.FullName()+"? Their course assignments are removed too.", id)
}

func (h *Handler) deleteFaculty(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	if err := h.faculties.DeleteFaculty(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, facultiesBase)
}
