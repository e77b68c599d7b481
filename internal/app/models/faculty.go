package models

// Faculty represents a teaching staff member
type Faculty struct {
	ID         int64  `db:"id" json:"id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Email      string `db:"email" json:"email"`
	Department string `db:"department" json:"department"`
	HireDate   Date   `db:"hire_date" json:"hire_date"`
}

// FullName joins first and last name
func (f *Faculty) FullName() string {
	return f.FirstName + " " + f.LastName
}

// FacultyFilter narrows a faculty listing
type FacultyFilter struct {
	Department string
	CourseID   int64
}
