package dto

import "github.com/yigit/collegerecords/internal/app/models"

// CourseRequest carries the editable course fields
type CourseRequest struct {
	CourseCode  string `json:"course_code" form:"course_code" binding:"required,max=10" example:"CS101"`
	CourseName  string `json:"course_name" form:"course_name" binding:"required,max=100" example:"Intro to Programming"`
	Description string `json:"description" form:"description" example:"Basics of programming"`
	Credits     int    `json:"credits" form:"credits" binding:"min=0" example:"3"`
}

// CourseQuery holds the optional list filters of GET /courses
type CourseQuery struct {
	Code string `form:"code"`
	Name string `form:"name"`
}

// Filter converts the query into a repository filter
func (q CourseQuery) Filter() *models.CourseFilter {
	return &models.CourseFilter{Code: q.Code, Name: q.Name}
}

// CourseDetails is a course with its enrolled students, batches and instructors
type CourseDetails struct {
	models.Course
	Students    []string `json:"students"`
	Batches     []string `json:"batches"`
	Instructors []string `json:"instructors"`
}

// EnrollmentRequest names the student to enroll in a course
type EnrollmentRequest struct {
	StudentID int64 `json:"student_id" form:"student_id" binding:"required,gt=0" example:"1"`
}
