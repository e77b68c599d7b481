package models

// Batch is a cohort of students following one course over a date range
type Batch struct {
	ID        int64  `db:"id" json:"id"`
	BatchName string `db:"batch_name" json:"batch_name"`
	CourseID  int64  `db:"course_id" json:"course_id"`
	StartDate Date   `db:"start_date" json:"start_date"`
	EndDate   Date   `db:"end_date" json:"end_date"`
}

// BatchFilter narrows a batch listing
type BatchFilter struct {
	CourseID int64
}
