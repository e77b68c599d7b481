package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
)

const studentsBase = "/students/"

func genderOptions(selected string) []option {
	opts := make([]option, 0, 3)
	for _, g := range []models.Gender{models.GenderMale, models.GenderFemale, models.GenderOther} {
		opts = append(opts, option{Value: string(g), Label: g.Label(), Selected: string(g) == selected})
	}
	return opts
}

func studentForm(title, action string, req dto.StudentRequest) formPage {
	return formPage{
		Title:  title,
		Action: action,
		Cancel: studentsBase,
		Submit: "Save",
		Fields: []field{
			{Name: "first_name", Label: "First name", Type: "text", Value: req.FirstName},
			{Name: "last_name", Label: "Last name", Type: "text", Value: req.LastName},
			{Name: "email", Label: "Email", Type: "email", Value: req.Email},
			{Name: "dob", Label: "Date of birth", Type: "date", Value: req.DateOfBirth},
			{Name: "gender", Label: "Gender", Type: "select", Options: genderOptions(req.Gender)},
		},
	}
}

func studentRequest(s *models.Student) dto.StudentRequest {
	return dto.StudentRequest{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth.String(),
		Gender:      string(s.Gender),
	}
}

func (h *Handler) listStudents(ctx *gin.Context) {
	students, err := h.students.ListStudents(ctx.Request.Context(), nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	page := listPage{
		Title:     "Students",
		CreateURL: studentsBase + "create/",
		Columns:   []string{"Name", "Email", "Gender", "Enrolled"},
		Rows:      make([]listRow, 0, len(students)),
	}
	for _, s := range students {
		page.Rows = append(page.Rows, listRow{
			URL:   itemURL(studentsBase, s.ID),
			Cells: []string{s.FullName(), s.Email, s.Gender.Label(), s.EnrollmentDate.String()},
		})
	}
	ctx.HTML(http.StatusOK, "list.html", page)
}

func (h *Handler) studentDetail(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	details, err := h.students.GetStudentDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	history := make([]string, 0, len(details.Attendance))
	for _, a := range details.Attendance {
		history = append(history, a.Date.String()+" "+a.Course+": "+models.StatusLabel(a.Status))
	}

	ctx.HTML(http.StatusOK, "detail.html", detailPage{
		Title: details.FullName,
		Fields: []pair{
			{Label: "Email", Value: details.Email},
			{Label: "Date of birth", Value: details.DateOfBirth.String()},
			{Label: "Gender", Value: details.Gender.Label()},
			{Label: "Enrollment date", Value: details.EnrollmentDate.String()},
		},
		Sections: []section{
			{Title: "Courses", Items: details.Courses},
			{Title: "Attendance", Items: history},
		},
		Links: []link{
			{URL: itemURL(studentsBase, id) + "update/", Label: "Edit"},
			{URL: itemURL(studentsBase, id) + "delete/", Label: "Delete"},
			{URL: studentsBase, Label: "Back to list"},
		},
	})
}

func (h *Handler) createStudentForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "form.html", studentForm("New student", studentsBase+"create/", dto.StudentRequest{}))
}

func (h *Handler) createStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	bindErr := ctx.ShouldBind(&req)
	page := studentForm("New student", studentsBase+"create/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.students.CreateStudent(ctx.Request.Context(), &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, studentsBase)
}

func (h *Handler) updateStudentForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	student, err := h.students.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", studentForm("Edit student", itemURL(studentsBase, id)+"update/", studentRequest(student)))
}

func (h *Handler) updateStudent(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	var req dto.StudentRequest
	bindErr := ctx.ShouldBind(&req)
	page := studentForm("Edit student", itemURL(studentsBase, id)+"update/", req)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.students.UpdateStudent(ctx.Request.Context(), id, &req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, studentsBase)
}

func (h *Handler) confirmDeleteStudent(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	student, err := h.students.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.confirmDelete(ctx, studentsBase, "Delete student",
		"Delete "+student.FullName()+" along with their attendance, enrollments and batch memberships?", id)
}

func (h *Handler) deleteStudent(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	if err := h.students.DeleteStudent(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, studentsBase)
}
