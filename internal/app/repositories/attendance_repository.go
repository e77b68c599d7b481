package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db      *db.Database
	cascade *cascader
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(database *db.Database, cascade *cascader) *AttendanceRepository {
	return &AttendanceRepository{db: database, cascade: cascade}
}

// recordQuery selects attendance rows joined with the student, batch and course they refer to
func (r *AttendanceRepository) recordQuery() squirrel.SelectBuilder {
	return r.db.Builder().Select(
		"a.id", "a.student_id", fullNameExpr("s")+" AS student_name", "s.email AS student_email",
		"a.batch_id", "b.batch_name", "b.course_id", "c.course_name", "a.date", "a.status",
	).
		From("attendances a").
		Join("students s ON s.id = a.student_id").
		Join("batches b ON b.id = a.batch_id").
		Join("courses c ON c.id = b.course_id")
}

// Create creates a new attendance row
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	stmt := r.db.Builder().Insert("attendances").
		Columns("student_id", "batch_id", "date", "status").
		Values(attendance.StudentID, attendance.BatchID, attendance.Date, attendance.Status)

	id, err := insertReturningID(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", attendance.StudentID).
			Int64("batchID", attendance.BatchID).
			Msg("Error executing create attendance query")
		return fmt.Errorf("error creating attendance: %w", err)
	}

	attendance.ID = id
	return nil
}

// GetByID retrieves an attendance row by ID
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*models.Attendance, error) {
	stmt := r.db.Builder().Select("id", "student_id", "batch_id", "date", "status").
		From("attendances").
		Where(squirrel.Eq{"id": id})

	attendance := &models.Attendance{}
	if err := getOne(ctx, r.db.Conn(ctx), attendance, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		logger.Error().Err(err).Int64("attendanceID", id).Msg("Error scanning attendance row")
		return nil, fmt.Errorf("error getting attendance by ID: %w", err)
	}

	return attendance, nil
}

// GetRecord retrieves an attendance row with its student, batch and course names
func (r *AttendanceRepository) GetRecord(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	stmt := r.recordQuery().Where(squirrel.Eq{"a.id": id})

	record := &models.AttendanceRecord{}
	if err := getOne(ctx, r.db.Conn(ctx), record, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("error getting attendance record: %w", err)
	}

	return record, nil
}

// List retrieves attendance records matching filter, oldest first
func (r *AttendanceRepository) List(ctx context.Context, filter *models.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	stmt := r.recordQuery().OrderBy("a.date ASC", "a.id ASC")

	if filter != nil {
		if filter.StudentID > 0 {
			stmt = stmt.Where(squirrel.Eq{"a.student_id": filter.StudentID})
		}
		if filter.BatchID > 0 {
			stmt = stmt.Where(squirrel.Eq{"a.batch_id": filter.BatchID})
		}
		if filter.CourseID > 0 {
			stmt = stmt.Where(squirrel.Eq{"b.course_id": filter.CourseID})
		}
		if !filter.Date.IsZero() {
			stmt = stmt.Where(squirrel.Eq{"a.date": filter.Date})
		}
		if filter.Status != nil {
			stmt = stmt.Where(squirrel.Eq{"a.status": *filter.Status})
		}
	}

	records := []*models.AttendanceRecord{}
	if err := selectAll(ctx, r.db.Conn(ctx), &records, stmt); err != nil {
		logger.Error().Err(err).Msg("Error executing list attendance query")
		return nil, fmt.Errorf("error querying attendance: %w", err)
	}

	return records, nil
}

// Update updates an attendance row
func (r *AttendanceRepository) Update(ctx context.Context, attendance *models.Attendance) error {
	stmt := r.db.Builder().Update("attendances").
		SetMap(map[string]interface{}{
			"student_id": attendance.StudentID,
			"batch_id":   attendance.BatchID,
			"date":       attendance.Date,
			"status":     attendance.Status,
		}).
		Where(squirrel.Eq{"id": attendance.ID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		logger.Error().Err(err).Int64("attendanceID", attendance.ID).Msg("Error executing update attendance query")
		return fmt.Errorf("error updating attendance: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	return nil
}

// UpdateStatus overwrites only the status of an attendance row
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id int64, status bool) error {
	stmt := r.db.Builder().Update("attendances").
		Set("status", status).
		Where(squirrel.Eq{"id": id})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		return fmt.Errorf("error updating attendance status: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	return nil
}

// Delete removes an attendance row
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.cascade.delete(ctx, "attendances", id, apperrors.ErrAttendanceNotFound)
	return err
}

// FindByStudentAndCourse returns the most recent attendance row of a student in any batch of a course
func (r *AttendanceRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Attendance, error) {
	stmt := r.db.Builder().Select("a.id", "a.student_id", "a.batch_id", "a.date", "a.status").
		From("attendances a").
		Join("batches b ON b.id = a.batch_id").
		Where(squirrel.Eq{"a.student_id": studentID, "b.course_id": courseID}).
		OrderBy("a.date DESC", "a.id DESC").
		Limit(1)

	attendance := &models.Attendance{}
	if err := getOne(ctx, r.db.Conn(ctx), attendance, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("error finding attendance for student in course: %w", err)
	}

	return attendance, nil
}
