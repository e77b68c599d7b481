package dto

import (
	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
)

// AttendanceRequest carries the editable attendance fields. Status accepts
// present, absent, true, false, 1 or 0.
type AttendanceRequest struct {
	StudentID int64  `json:"student_id" form:"student_id" binding:"required,gt=0" example:"1"`
	BatchID   int64  `json:"batch_id" form:"batch_id" binding:"required,gt=0" example:"1"`
	Date      string `json:"date" form:"date" binding:"required,datetime=2006-01-02" example:"2024-01-15"`
	Status    string `json:"status" form:"status" binding:"required" example:"present"`
}

// MarkAttendanceRequest records a student's status for a course
type MarkAttendanceRequest struct {
	StudentID int64  `json:"student_id" form:"student_id" binding:"required,gt=0" example:"1"`
	CourseID  int64  `json:"course_id" form:"course_id" binding:"required,gt=0" example:"1"`
	Status    string `json:"status" form:"status" binding:"required" example:"present"`
}

// MarkAttendanceResult is the outcome of marking attendance
type MarkAttendanceResult struct {
	ID      int64 `json:"id"`
	Created bool  `json:"created"`
}

// Message is the acknowledgement shown for the mark
func (r MarkAttendanceResult) Message() string {
	if r.Created {
		return "Attendance marked"
	}
	return "Attendance updated"
}

// AttendanceQuery holds the optional list filters of GET /attendances
type AttendanceQuery struct {
	StudentID int64  `form:"student_id"`
	BatchID   int64  `form:"batch_id"`
	CourseID  int64  `form:"course_id"`
	Date      string `form:"date"`
	Status    string `form:"status"`
}

// Filter converts the query into a repository filter, rejecting a malformed date or status
func (q AttendanceQuery) Filter() (*models.AttendanceFilter, error) {
	filter := &models.AttendanceFilter{
		StudentID: q.StudentID,
		BatchID:   q.BatchID,
		CourseID:  q.CourseID,
	}
	if q.Date != "" {
		date, err := models.ParseDate(q.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("date", "date must be formatted YYYY-MM-DD")
		}
		filter.Date = date
	}
	if q.Status != "" {
		status, err := models.ParseAttendanceStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	return filter, nil
}
