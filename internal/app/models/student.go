package models

// Student is an enrolled learner
type Student struct {
	ID             int64  `db:"id" json:"id"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	Email          string `db:"email" json:"email"`
	DateOfBirth    Date   `db:"date_of_birth" json:"dob"`
	Gender         Gender `db:"gender" json:"gender"`
	EnrollmentDate Date   `db:"enrollment_date" json:"enrollment_date"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter narrows a student listing. Zero values are ignored.
type StudentFilter struct {
	Gender   Gender
	Email    string
	Name     string
	CourseID int64
	BatchID  int64
}
