package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
)

const attendancesBase = "/attendances/"

func statusValue(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}

// attendanceForm loads the student and batch choices for req
func (h *Handler) attendanceForm(ctx *gin.Context, title, action string, req dto.AttendanceRequest) (formPage, error) {
	reqCtx := ctx.Request.Context()
	students, err := h.studentOptions(reqCtx, req.StudentID)
	if err != nil {
		return formPage{}, err
	}
	batches, err := h.batchOptions(reqCtx, req.BatchID)
	if err != nil {
		return formPage{}, err
	}
	return formPage{
		Title:  title,
		Action: action,
		Cancel: attendancesBase,
		Submit: "Save",
		Fields: []field{
			{Name: "student_id", Label: "Student", Type: "select", Options: students},
			{Name: "batch_id", Label: "Batch", Type: "select", Options: batches},
			{Name: "date", Label: "Date", Type: "date", Value: req.Date},
			{Name: "status", Label: "Status", Type: "select", Options: statusOptions(req.Status)},
		},
	}, nil
}

func (h *Handler) submitAttendance(ctx *gin.Context, title, action string, save func(*dto.AttendanceRequest) error) {
	var req dto.AttendanceRequest
	bindErr := ctx.ShouldBind(&req)

	page, err := h.attendanceForm(ctx, title, action, req)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if err := save(&req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, attendancesBase)
}

func (h *Handler) listAttendances(ctx *gin.Context) {
	records, err := h.attendances.ListAttendance(ctx.Request.Context(), nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	page := listPage{
		Title:     "Attendance",
		CreateURL: attendancesBase + "create/",
		Columns:   []string{"Date", "Student", "Course", "Batch", "Status"},
		Rows:      make([]listRow, 0, len(records)),
	}
	for _, r := range records {
		page.Rows = append(page.Rows, listRow{
			URL:   itemURL(attendancesBase, r.ID),
			Cells: []string{r.Date.String(), r.StudentName, r.CourseName, r.BatchName, models.StatusLabel(r.Status)},
		})
	}
	ctx.HTML(http.StatusOK, "list.html", page)
}

func (h *Handler) attendanceDetail(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	record, err := h.attendances.GetAttendanceDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", detailPage{
		Title: "Attendance #" + strconv.FormatInt(record.ID, 10),
		Fields: []pair{
			{Label: "Student", Value: record.StudentName},
			{Label: "Email", Value: record.StudentEmail},
			{Label: "Course", Value: record.CourseName},
			{Label: "Batch", Value: record.BatchName},
			{Label: "Date", Value: record.Date.String()},
			{Label: "Status", Value: models.StatusLabel(record.Status)},
		},
		Links: []link{
			{URL: itemURL(attendancesBase, id) + "update/", Label: "Edit"},
			{URL: itemURL(attendancesBase, id) + "delete/", Label: "Delete"},
			{URL: attendancesBase, Label: "Back to list"},
		},
	})
}

func (h *Handler) createAttendanceForm(ctx *gin.Context) {
	page, err := h.attendanceForm(ctx, "New attendance record", attendancesBase+"create/",
		dto.AttendanceRequest{Date: models.Today().String()})
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", page)
}

func (h *Handler) createAttendance(ctx *gin.Context) {
	h.submitAttendance(ctx, "New attendance record", attendancesBase+"create/", func(req *dto.AttendanceRequest) error {
		_, err := h.attendances.CreateAttendance(ctx.Request.Context(), req)
		return err
	})
}

func (h *Handler) updateAttendanceForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	a, err := h.attendances.GetAttendance(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	page, err := h.attendanceForm(ctx, "Edit attendance record", itemURL(attendancesBase, id)+"update/", dto.AttendanceRequest{
		StudentID: a.StudentID,
		BatchID:   a.BatchID,
		Date:      a.Date.String(),
		Status:    statusValue(a.Status),
	})
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", page)
}

func (h *Handler) updateAttendance(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	h.submitAttendance(ctx, "Edit attendance record", itemURL(attendancesBase, id)+"update/", func(req *dto.AttendanceRequest) error {
		_, err := h.attendances.UpdateAttendance(ctx.Request.Context(), id, req)
		return err
	})
}

func (h *Handler) confirmDeleteAttendance(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	record, err := h.attendances.GetAttendanceDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.confirmDelete(ctx, attendancesBase, "Delete attendance record",
		"Delete the "+record.Date.String()+" record for "+record.StudentName+"?", id)
}

func (h *Handler) deleteAttendance(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	if err := h.attendances.DeleteAttendance(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, attendancesBase)
}

func (h *Handler) markForm(ctx *gin.Context, req dto.MarkAttendanceRequest) (formPage, error) {
	reqCtx := ctx.Request.Context()
	students, err := h.studentOptions(reqCtx, req.StudentID)
	if err != nil {
		return formPage{}, err
	}
	courses, err := h.courseOptions(reqCtx, req.CourseID)
	if err != nil {
		return formPage{}, err
	}
	return formPage{
		Title:  "Mark attendance",
		Action: attendancesBase + "mark/",
		Cancel: attendancesBase,
		Submit: "Mark",
		Fields: []field{
			{Name: "student_id", Label: "Student", Type: "select", Options: students},
			{Name: "course_id", Label: "Course", Type: "select", Options: courses},
			{Name: "status", Label: "Status", Type: "select", Options: statusOptions(req.Status)},
		},
	}, nil
}

func (h *Handler) markAttendanceForm(ctx *gin.Context) {
	page, err := h.markForm(ctx, dto.MarkAttendanceRequest{Status: "present"})
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", page)
}

// markAttendance records today's status for a student in a course
func (h *Handler) markAttendance(ctx *gin.Context) {
	var req dto.MarkAttendanceRequest
	bindErr := ctx.ShouldBind(&req)

	page, err := h.markForm(ctx, req)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.attendances.MarkAttendance(ctx.Request.Context(), req.StudentID, req.CourseID, req.Status); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, attendancesBase)
}
