package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
	}
}

// ListFaculties retrieves all faculty members
// @Summary List faculty members
// @Tags faculties
// @Produce json
// @Param department query string false "Department"
// @Param course_id query int false "Teaching course"
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty}
// @Failure 500 {object} dto.ErrorResponse
// @Router /faculties [get]
func (c *FacultyController) ListFaculties(ctx *gin.Context) {
	var query dto.FacultyQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	faculties, err := c.facultyService.ListFaculties(ctx.Request.Context(), query.Filter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, faculties, "")
}

// GetFaculty retrieves a faculty member with the courses they teach
// @Summary Get faculty details
// @Tags faculties
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.FacultyDetails}
// @Failure 400 {object} dto.ErrorResponse "Invalid faculty ID format"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [get]
func (c *FacultyController) GetFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	details, err := c.facultyService.GetFacultyDetails(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, details, "")
}

// CreateFaculty handles faculty creation
// @Summary Create a new faculty member
// @Tags faculties
// @Accept json
// @Produce json
// @Param request body dto.FacultyRequest true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Faculty created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or email already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculties [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.FacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	faculty, err := c.facultyService.CreateFaculty(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusCreated, "Faculty created", faculty.ID)
}

// UpdateFaculty updates an existing faculty member
// @Summary Update a faculty member
// @Tags faculties
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Param request body dto.FacultyRequest true "Updated faculty information"
// @Success 200 {object} dto.APIResponse{data=models.Faculty} "Faculty updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.FacultyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	faculty, err := c.facultyService.UpdateFaculty(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, faculty, "Faculty updated")
}

// DeleteFaculty deletes a faculty member
// @Summary Delete a faculty member
// @Description Deletes a faculty member and their teaching assignments
// @Tags faculties
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Faculty deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculties/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.facultyService.DeleteFaculty(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Faculty deleted", id)
}
