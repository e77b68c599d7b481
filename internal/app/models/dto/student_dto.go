package dto

import "github.com/yigit/collegerecords/internal/app/models"

// StudentRequest carries the editable student fields from a JSON body or an HTML form
type StudentRequest struct {
	FirstName   string `json:"first_name" form:"first_name" binding:"required,max=50" example:"Ada"`
	LastName    string `json:"last_name" form:"last_name" binding:"required,max=50" example:"Lovelace"`
	Email       string `json:"email" form:"email" binding:"required,email,max=254" example:"ada@example.com"`
	DateOfBirth string `json:"dob" form:"dob" binding:"required,datetime=2006-01-02" example:"2000-12-10"`
	Gender      string `json:"gender" form:"gender" binding:"required,oneof=M F O" example:"F"`
}

// StudentQuery holds the optional list filters of GET /students
type StudentQuery struct {
	Gender   string `form:"gender"`
	Email    string `form:"email"`
	Name     string `form:"name"`
	CourseID int64  `form:"course_id"`
	BatchID  int64  `form:"batch_id"`
}

// Filter converts the query into a repository filter
func (q StudentQuery) Filter() *models.StudentFilter {
	return &models.StudentFilter{
		Gender:   models.Gender(q.Gender),
		Email:    q.Email,
		Name:     q.Name,
		CourseID: q.CourseID,
		BatchID:  q.BatchID,
	}
}

// AttendanceHistoryItem is one line of a student's attendance history
type AttendanceHistoryItem struct {
	ID     int64       `json:"id"`
	Course string      `json:"course"`
	Batch  string      `json:"batch"`
	Status bool        `json:"status"`
	Date   models.Date `json:"date" swaggertype:"string" example:"2024-01-15"`
}

// StudentDetails is a student with the courses they take and their attendance history
type StudentDetails struct {
	models.Student
	FullName   string                  `json:"full_name"`
	Courses    []string                `json:"courses"`
	Attendance []AttendanceHistoryItem `json:"attendance"`
}
