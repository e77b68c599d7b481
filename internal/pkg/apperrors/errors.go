package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student Errors
var (
	ErrStudentNotFound      = NewCustomError(ErrResourceNotFound, "student not found")
	ErrStudentEmailExists   = NewCustomError(ErrResourceAlreadyExists, "a student with this email already exists")
	ErrInvalidStudentGender = NewCustomError(ErrValidationFailed, "gender must be one of M, F, O")
)

// Faculty Errors
var (
	ErrFacultyNotFound    = NewCustomError(ErrResourceNotFound, "faculty not found")
	ErrFacultyEmailExists = NewCustomError(ErrResourceAlreadyExists, "a faculty member with this email already exists")
)

// Course Errors
var (
	ErrCourseNotFound   = NewCustomError(ErrResourceNotFound, "course not found")
	ErrCourseCodeExists = NewCustomError(ErrResourceAlreadyExists, "a course with this code already exists")
	ErrCourseHasNoBatch = NewCustomError(ErrValidationFailed, "course has no batch to record attendance in")
)

// Batch Errors
var (
	ErrBatchNotFound    = NewCustomError(ErrResourceNotFound, "batch not found")
	ErrBatchDateOrder   = NewCustomError(ErrValidationFailed, "start_date must not be after end_date")
	ErrRosterFileFormat = NewCustomError(ErrValidationFailed, "roster file must be an xlsx workbook with emails in column A")
)

// Attendance Errors
var (
	ErrAttendanceNotFound      = NewCustomError(ErrResourceNotFound, "attendance record not found")
	ErrInvalidAttendanceStatus = NewCustomError(ErrValidationFailed, "status must be present, absent, true, false, 1 or 0")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a rejected field with a message
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// Field returns the offending field recorded in Details, if any.
func (e *CustomError) Field() string {
	if e.Details == nil {
		return ""
	}
	field, _ := e.Details["field"].(string)
	return field
}

// Message extracts the user-facing message from err, falling back to err.Error().
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
