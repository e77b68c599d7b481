package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
)

// BatchController handles batch and roster endpoints
type BatchController struct {
	batchService services.BatchService
}

// NewBatchController creates a new BatchController
func NewBatchController(batchService services.BatchService) *BatchController {
	return &BatchController{batchService: batchService}
}

// ListBatches lists batches
// @Summary List batches
// @Tags batches
// @Produce json
// @Param course_id query int false "Course"
// @Success 200 {object} dto.APIResponse{data=[]models.Batch}
// @Router /batches [get]
func (c *BatchController) ListBatches(ctx *gin.Context) {
	var query dto.BatchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	batches, err := c.batchService.ListBatches(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, batches, "")
}

// GetBatch retrieves a batch with its course name and roster
// @Summary Get batch details
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=dto.BatchDetails}
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id} [get]
func (c *BatchController) GetBatch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	details, err := c.batchService.GetBatchDetails(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, details, "")
}

// CreateBatch creates a batch
// @Summary Create a batch
// @Tags batches
// @Accept json
// @Produce json
// @Param request body dto.BatchRequest true "Batch"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or start after end"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /batches [post]
func (c *BatchController) CreateBatch(ctx *gin.Context) {
	var req dto.BatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	batch, err := c.batchService.CreateBatch(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusCreated, "Batch created", batch.ID)
}

// UpdateBatch updates a batch
// @Summary Update a batch
// @Tags batches
// @Accept json
// @Produce json
// @Param id path int true "Batch ID"
// @Param request body dto.BatchRequest true "Batch"
// @Success 200 {object} dto.APIResponse{data=models.Batch}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id} [put]
func (c *BatchController) UpdateBatch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.BatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	batch, err := c.batchService.UpdateBatch(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, batch, "Batch updated")
}

// DeleteBatch deletes a batch with its attendance and roster
// @Summary Delete a batch
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id} [delete]
func (c *BatchController) DeleteBatch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.batchService.DeleteBatch(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Batch deleted", id)
}

// AddStudents adds students to a batch roster
// @Summary Add students to a batch
// @Description Ids that match no student are skipped and returned in skipped_ids
// @Tags batches
// @Accept json
// @Produce json
// @Param id path int true "Batch ID"
// @Param request body dto.AddStudentsRequest true "Students"
// @Success 200 {object} dto.APIResponse{data=dto.AddStudentsResult}
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id}/students [post]
func (c *BatchController) AddStudents(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AddStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.batchService.AddStudentsToBatch(ctx.Request.Context(), batchID, req.StudentIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "Students added to batch")
}

// RemoveStudent removes a student from a batch roster
// @Summary Remove a student from a batch
// @Tags batches
// @Produce json
// @Param id path int true "Batch ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id}/students/{studentId} [delete]
func (c *BatchController) RemoveStudent(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.batchService.RemoveStudentFromBatch(ctx.Request.Context(), batchID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Student removed from batch", studentID)
}

// ImportRoster adds the students listed in an uploaded xlsx workbook
// @Summary Import a batch roster
// @Description First sheet, header row skipped, student emails in column A
// @Tags batches
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Batch ID"
// @Param file formData file true "Roster workbook (.xlsx)"
// @Success 200 {object} dto.APIResponse{data=dto.RosterImportResult}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /batches/{id}/students/import [post]
func (c *BatchController) ImportRoster(ctx *gin.Context) {
	batchID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.batchService.ImportBatchRoster(ctx.Request.Context(), batchID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, result, "Roster imported")
}
