package models

// Course is a unit of study identified by its code
type Course struct {
	ID          int64  `db:"id" json:"id"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	Description string `db:"description" json:"description"`
	Credits     int    `db:"credits" json:"credits"`
}

// CourseFilter narrows a course listing
type CourseFilter struct {
	Code string
	Name string
}
