package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/services"
	"github.com/yigit/collegerecords/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceController handles attendance endpoints
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// ListAttendance lists attendance records
// @Summary List attendance
// @Tags attendances
// @Produce json
// @Param student_id query int false "Student"
// @Param batch_id query int false "Batch"
// @Param course_id query int false "Course"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "present or absent"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord}
// @Failure 400 {object} dto.ErrorResponse
// @Router /attendances [get]
func (c *AttendanceController) ListAttendance(ctx *gin.Context) {
	var query dto.AttendanceQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	filter, err := query.Filter()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	records, err := c.attendanceService.ListAttendance(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, records, "")
}

// GetAttendance retrieves an attendance record with student, batch and course names
// @Summary Get attendance details
// @Tags attendances
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} dto.APIResponse{data=models.AttendanceRecord}
// @Failure 404 {object} dto.ErrorResponse
// @Router /attendances/{id} [get]
func (c *AttendanceController) GetAttendance(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	record, err := c.attendanceService.GetAttendanceDetails(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, record, "")
}

// CreateAttendance records attendance for a batch on a date
// @Summary Create an attendance record
// @Tags attendances
// @Accept json
// @Produce json
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Student or batch not found"
// @Router /attendances [post]
func (c *AttendanceController) CreateAttendance(ctx *gin.Context) {
	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	attendance, err := c.attendanceService.CreateAttendance(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusCreated, "Attendance created", attendance.ID)
}

// UpdateAttendance updates an attendance record
// @Summary Update an attendance record
// @Tags attendances
// @Accept json
// @Produce json
// @Param id path int true "Attendance ID"
// @Param request body dto.AttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=models.Attendance}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attendances/{id} [put]
func (c *AttendanceController) UpdateAttendance(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	attendance, err := c.attendanceService.UpdateAttendance(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, attendance, "Attendance updated")
}

// DeleteAttendance deletes an attendance record
// @Summary Delete an attendance record
// @Tags attendances
// @Produce json
// @Param id path int true "Attendance ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /attendances/{id} [delete]
func (c *AttendanceController) DeleteAttendance(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.attendanceService.DeleteAttendance(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	acknowledge(ctx, http.StatusOK, "Attendance deleted", id)
}

// MarkAttendance marks a student present or absent in a course
// @Summary Mark attendance
// @Description Updates the student's attendance row for the course, or creates one dated today
// @Tags attendances
// @Accept json
// @Produce json
// @Param request body dto.MarkAttendanceRequest true "Mark"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Attendance updated"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Attendance marked"
// @Failure 400 {object} dto.ErrorResponse "Invalid status or course without batch"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Router /attendances/mark [post]
func (c *AttendanceController) MarkAttendance(ctx *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.attendanceService.MarkAttendance(ctx.Request.Context(), req.StudentID, req.CourseID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	acknowledge(ctx, status, result.Message(), result.ID)
}

// ExportAttendance downloads the matching attendance records as a workbook
// @Summary Export attendance
// @Tags attendances
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param student_id query int false "Student"
// @Param batch_id query int false "Batch"
// @Param course_id query int false "Course"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param status query string false "present or absent"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /attendances/export [get]
func (c *AttendanceController) ExportAttendance(ctx *gin.Context) {
	var query dto.AttendanceQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	filter, err := query.Filter()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := c.attendanceService.ExportAttendance(ctx.Request.Context(), filter, &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
