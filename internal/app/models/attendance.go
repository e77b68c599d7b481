package models

import (
	"strings"

	"github.com/yigit/collegerecords/internal/pkg/apperrors"
)

// Attendance records whether a student was present for a batch on a date
type Attendance struct {
	ID        int64 `db:"id" json:"id"`
	StudentID int64 `db:"student_id" json:"student_id"`
	BatchID   int64 `db:"batch_id" json:"batch_id"`
	Date      Date  `db:"date" json:"date"`
	// Status is true when the student was present
	Status bool `db:"status" json:"status"`
}

// AttendanceRecord is an attendance row joined with the names it refers to
type AttendanceRecord struct {
	ID           int64  `db:"id" json:"id"`
	StudentID    int64  `db:"student_id" json:"student_id"`
	StudentName  string `db:"student_name" json:"student"`
	StudentEmail string `db:"student_email" json:"student_email"`
	BatchID      int64  `db:"batch_id" json:"batch_id"`
	BatchName    string `db:"batch_name" json:"batch"`
	CourseID     int64  `db:"course_id" json:"course_id"`
	CourseName   string `db:"course_name" json:"course"`
	Date         Date   `db:"date" json:"date"`
	Status       bool   `db:"status" json:"status"`
}

// AttendanceFilter narrows an attendance listing. Status filters only when non-nil.
type AttendanceFilter struct {
	StudentID int64
	BatchID   int64
	CourseID  int64
	Date      Date
	Status    *bool
}

// ParseAttendanceStatus reads a submitted status. It accepts present/absent,
// true/false and 1/0 in any letter case.
func ParseAttendanceStatus(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "true", "1":
		return true, nil
	case "absent", "false", "0":
		return false, nil
	}
	return false, apperrors.ErrInvalidAttendanceStatus
}

// StatusLabel renders a stored status for display
func StatusLabel(present bool) string {
	if present {
		return "Present"
	}
	return "Absent"
}
