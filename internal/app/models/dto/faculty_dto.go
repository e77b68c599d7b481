package dto

import "github.com/yigit/collegerecords/internal/app/models"

// FacultyRequest carries the editable faculty fields
type FacultyRequest struct {
	FirstName  string `json:"first_name" form:"first_name" binding:"required,max=50" example:"Alan"`
	LastName   string `json:"last_name" form:"last_name" binding:"required,max=50" example:"Turing"`
	Email      string `json:"email" form:"email" binding:"required,email,max=254" example:"alan@example.com"`
	Department string `json:"department" form:"department" binding:"required,max=100" example:"Computer Science"`
}

// FacultyQuery holds the optional list filters of GET /faculties
type FacultyQuery struct {
	Department string `form:"department"`
	CourseID   int64  `form:"course_id"`
}

// Filter converts the query into a repository filter
func (q FacultyQuery) Filter() *models.FacultyFilter {
	return &models.FacultyFilter{Department: q.Department, CourseID: q.CourseID}
}

// FacultyDetails is a faculty member with the names of the courses they teach
type FacultyDetails struct {
	models.Faculty
	FullName string   `json:"full_name"`
	Courses  []string `json:"courses"`
}

// InstructorRequest names the faculty member to assign to a course
type InstructorRequest struct {
	FacultyID int64 `json:"faculty_id" form:"faculty_id" binding:"required,gt=0" example:"1"`
}
