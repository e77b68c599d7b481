package dto

import "github.com/yigit/collegerecords/internal/app/models"

// BatchRequest carries the editable batch fields
type BatchRequest struct {
	BatchName string `json:"batch_name" form:"batch_name" binding:"required,max=50" example:"B1"`
	CourseID  int64  `json:"course_id" form:"course_id" binding:"required,gt=0" example:"1"`
	StartDate string `json:"start_date" form:"start_date" binding:"required,datetime=2006-01-02" example:"2024-01-01"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required,datetime=2006-01-02" example:"2024-06-01"`
}

// BatchQuery holds the optional list filters of GET /batches
type BatchQuery struct {
	CourseID int64 `form:"course_id"`
}

// Filter converts the query into a repository filter
func (q BatchQuery) Filter() *models.BatchFilter {
	return &models.BatchFilter{CourseID: q.CourseID}
}

// BatchDetails is a batch with its course name and roster
type BatchDetails struct {
	models.Batch
	CourseName string   `json:"course_name"`
	Students   []string `json:"students"`
}

// AddStudentsRequest lists the students to put on a batch roster
type AddStudentsRequest struct {
	StudentIDs []int64 `json:"student_ids" form:"student_ids" binding:"required,min=1" example:"1,2"`
}

// AddStudentsResult reports how a roster addition went. Ids that match no
// student are skipped rather than failing the request.
type AddStudentsResult struct {
	Added      int64   `json:"added"`
	SkippedIDs []int64 `json:"skipped_ids"`
}

// RosterImportResult reports a spreadsheet roster import
type RosterImportResult struct {
	AddStudentsResult
	UnknownEmails []string `json:"unknown_emails"`
}
