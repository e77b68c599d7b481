package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
)

const batchesBase = "/batches/"

func batchForm(title, action string, req dto.BatchRequest, courses []option) formPage {
	return formPage{
		Title:  title,
		Action: action,
		Cancel: batchesBase,
		Submit: "Save",
		Fields: []field{
			{Name: "batch_name", Label: "Name", Type: "text", Value: req.BatchName},
			{Name: "course_id", Label: "Course", Type: "select", Options: courses},
			{Name: "start_date", Label: "Start date", Type: "date", Value: req.StartDate},
			{Name: "end_date", Label: "End date", Type: "date", Value: req.EndDate},
		},
	}
}

func batchRequest(b *models.Batch) dto.BatchRequest {
	return dto.BatchRequest{
		BatchName: b.BatchName,
		CourseID:  b.CourseID,
		StartDate: b.StartDate.String(),
		EndDate:   b.EndDate.String(),
	}
}

// renderBatchForm loads the course choices and renders the batch form
func (h *Handler) renderBatchForm(ctx *gin.Context, title, action string, req dto.BatchRequest) {
	courses, err := h.courseOptions(ctx.Request.Context(), req.CourseID)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", batchForm(title, action, req, courses))
}

// submitBatch binds the posted batch and passes it to save, re-rendering the form on failure
func (h *Handler) submitBatch(ctx *gin.Context, title, action string, save func(*dto.BatchRequest) error) {
	var req dto.BatchRequest
	bindErr := ctx.ShouldBind(&req)

	courses, err := h.courseOptions(ctx.Request.Context(), req.CourseID)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	page := batchForm(title, action, req, courses)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if err := save(&req); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, batchesBase)
}

func (h *Handler) listBatches(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	batches, err := h.batches.ListBatches(reqCtx, nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	courses, err := h.courses.ListCourses(reqCtx, nil)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	courseNames := make(map[int64]string, len(courses))
	for _, c := range courses {
		courseNames[c.ID] = c.CourseName
	}

	page := listPage{
		Title:     "Batches",
		CreateURL: batchesBase + "create/",
		Columns:   []string{"Name", "Course", "Start", "End"},
		Rows:      make([]listRow, 0, len(batches)),
	}
	for _, b := range batches {
		page.Rows = append(page.Rows, listRow{
			URL:   itemURL(batchesBase, b.ID),
			Cells: []string{b.BatchName, courseNames[b.CourseID], b.StartDate.String(), b.EndDate.String()},
		})
	}
	ctx.HTML(http.StatusOK, "list.html", page)
}

func (h *Handler) batchDetail(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	details, err := h.batches.GetBatchDetails(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, "detail.html", detailPage{
		Title: details.BatchName,
		Fields: []pair{
			{Label: "Course", Value: details.CourseName},
			{Label: "Start date", Value: details.StartDate.String()},
			{Label: "End date", Value: details.EndDate.String()},
		},
		Sections: []section{{Title: "Students", Items: details.Students}},
		Links: []link{
			{URL: itemURL(batchesBase, id) + "students/", Label: "Add students"},
			{URL: itemURL(batchesBase, id) + "update/", Label: "Edit"},
			{URL: itemURL(batchesBase, id) + "delete/", Label: "Delete"},
			{URL: batchesBase, Label: "Back to list"},
		},
	})
}

func (h *Handler) createBatchForm(ctx *gin.Context) {
	h.renderBatchForm(ctx, "New batch", batchesBase+"create/", dto.BatchRequest{})
}

func (h *Handler) createBatch(ctx *gin.Context) {
	h.submitBatch(ctx, "New batch", batchesBase+"create/", func(req *dto.BatchRequest) error {
		_, err := h.batches.CreateBatch(ctx.Request.Context(), req)
		return err
	})
}

func (h *Handler) updateBatchForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	batch, err := h.batches.GetBatch(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.renderBatchForm(ctx, "Edit batch", itemURL(batchesBase, id)+"update/", batchRequest(batch))
}

func (h *Handler) updateBatch(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	h.submitBatch(ctx, "Edit batch", itemURL(batchesBase, id)+"update/", func(req *dto.BatchRequest) error {
		_, err := h.batches.UpdateBatch(ctx.Request.Context(), id, req)
		return err
	})
}

func (h *Handler) confirmDeleteBatch(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	batch, err := h.batches.GetBatch(ctx.Request.Context(), id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	h.confirmDelete(ctx, batchesBase, "Delete batch",
		"Delete batch "+batch.BatchName+" and its attendance records?", id)
}

func (h *Handler) deleteBatch(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	if err := h.batches.DeleteBatch(ctx.Request.Context(), id); err != nil {
		h.renderError(ctx, err)
		return
	}
	h.redirect(ctx, batchesBase)
}

func rosterForm(batch *models.Batch, students []option) formPage {
	return formPage{
		Title:  "Add students to " + batch.BatchName,
		Action: itemURL(batchesBase, batch.ID) + "students/",
		Cancel: itemURL(batchesBase, batch.ID),
		Submit: "Add",
		Fields: []field{
			{Name: "student_ids", Label: "Students", Type: "checkboxes", Options: students},
		},
	}
}

func (h *Handler) batchStudentsForm(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	reqCtx := ctx.Request.Context()
	batch, err := h.batches.GetBatch(reqCtx, id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	rostered, err := h.batches.RosterStudentIDs(reqCtx, id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	students, err := h.studentOptions(reqCtx, rostered...)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "form.html", rosterForm(batch, students))
}

func (h *Handler) addBatchStudents(ctx *gin.Context) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	reqCtx := ctx.Request.Context()
	batch, err := h.batches.GetBatch(reqCtx, id)
	if err != nil {
		h.renderError(ctx, err)
		return
	}

	var req dto.AddStudentsRequest
	bindErr := ctx.ShouldBind(&req)
	students, err := h.studentOptions(reqCtx, req.StudentIDs...)
	if err != nil {
		h.renderError(ctx, err)
		return
	}
	page := rosterForm(batch, students)
	if bindErr != nil {
		h.rejectBinding(ctx, page, bindErr)
		return
	}

	if _, err := h.batches.AddStudentsToBatch(reqCtx, id, req.StudentIDs); err != nil {
		h.rejectForm(ctx, page, err)
		return
	}
	h.redirect(ctx, itemURL(batchesBase, id))
}
