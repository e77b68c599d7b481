package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/dberrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

var studentColumns = []string{
	"s.id", "s.first_name", "s.last_name", "s.email", "s.date_of_birth", "s.gender", "s.enrollment_date",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db      *db.Database
	cascade *cascader
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.Database, cascade *cascader) *StudentRepository {
	return &StudentRepository{db: database, cascade: cascade}
}

// Create inserts a student and sets its ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	stmt := r.db.Builder().Insert("students").
		Columns("first_name", "last_name", "email", "date_of_birth", "gender", "enrollment_date").
		Values(student.FirstName, student.LastName, student.Email, student.DateOfBirth, student.Gender, student.EnrollmentDate)

	id, err := insertReturningID(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentEmailExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	student.ID = id
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	stmt := r.db.Builder().Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.id": id})

	student := &models.Student{}
	if err := getOne(ctx, r.db.Conn(ctx), student, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// List retrieves the students matching filter; a nil filter returns every student
func (r *StudentRepository) List(ctx context.Context, filter *models.StudentFilter) ([]*models.Student, error) {
	stmt := r.db.Builder().Select(studentColumns...).
		From("students s").
		OrderBy("s.last_name ASC", "s.first_name ASC", "s.id ASC")

	if filter != nil {
		if filter.Gender != "" {
			stmt = stmt.Where(squirrel.Eq{"s.gender": filter.Gender})
		}
		if filter.Email != "" {
			stmt = stmt.Where(squirrel.Eq{"s.email": filter.Email})
		}
		if name := strings.ToLower(strings.TrimSpace(filter.Name)); name != "" {
			pattern := "%" + name + "%"
			stmt = stmt.Where(squirrel.Or{
				squirrel.Expr("LOWER(s.first_name) LIKE ?", pattern),
				squirrel.Expr("LOWER(s.last_name) LIKE ?", pattern),
			})
		}
		if filter.CourseID > 0 {
			stmt = stmt.Where("EXISTS (SELECT 1 FROM course_enrollments ce WHERE ce.student_id = s.id AND ce.course_id = ?)", filter.CourseID)
		}
		if filter.BatchID > 0 {
			stmt = stmt.Where("EXISTS (SELECT 1 FROM batch_students bs WHERE bs.student_id = s.id AND bs.batch_id = ?)", filter.BatchID)
		}
	}

	students := []*models.Student{}
	if err := selectAll(ctx, r.db.Conn(ctx), &students, stmt); err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}

	return students, nil
}

// Update overwrites every mutable field of a student. EnrollmentDate is never changed.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	stmt := r.db.Builder().Update("students").
		SetMap(map[string]interface{}{
			"first_name":    student.FirstName,
			"last_name":     student.LastName,
			"email":         student.Email,
			"date_of_birth": student.DateOfBirth,
			"gender":        student.Gender,
		}).
		Where(squirrel.Eq{"id": student.ID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentEmailExists
		}
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student together with its attendance, enrollments and roster entries
func (r *StudentRepository) Delete(ctx context.Context, id int64) (CascadeResult, error) {
	return r.cascade.delete(ctx, "students", id, apperrors.ErrStudentNotFound)
}

// ExistingIDs returns the subset of ids that belong to a student, in ascending order
func (r *StudentRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing := []int64{}
	if len(ids) == 0 {
		return existing, nil
	}

	stmt := r.db.Builder().Select("id").From("students").Where(squirrel.Eq{"id": ids}).OrderBy("id")
	if err := selectAll(ctx, r.db.Conn(ctx), &existing, stmt); err != nil {
		return nil, fmt.Errorf("error checking student ids: %w", err)
	}
	return existing, nil
}

// IDsByEmail resolves emails (case-insensitively) to student IDs. Unknown emails are absent from the map.
func (r *StudentRepository) IDsByEmail(ctx context.Context, emails []string) (map[string]int64, error) {
	result := make(map[string]int64, len(emails))
	if len(emails) == 0 {
		return result, nil
	}

	lowered := make([]string, 0, len(emails))
	for _, email := range emails {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(email)))
	}

	var rows []struct {
		ID    int64  `db:"id"`
		Email string `db:"email"`
	}
	stmt := r.db.Builder().Select("id", "LOWER(email) AS email").From("students").Where(squirrel.Eq{"LOWER(email)": lowered})
	if err := selectAll(ctx, r.db.Conn(ctx), &rows, stmt); err != nil {
		return nil, fmt.Errorf("error resolving student emails: %w", err)
	}

	for _, row := range rows {
		result[row.Email] = row.ID
	}
	return result, nil
}

// FullNamesByCourse lists the full names of students enrolled in a course
func (r *StudentRepository) FullNamesByCourse(ctx context.Context, courseID int64) ([]string, error) {
	stmt := r.db.Builder().Select(fullNameExpr("s")).
		From("students s").
		Join("course_enrollments ce ON ce.student_id = s.id").
		Where(squirrel.Eq{"ce.course_id": courseID}).
		OrderBy("s.last_name ASC", "s.first_name ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	return names, nil
}

// FullNamesByBatch lists the full names of students on a batch roster
func (r *StudentRepository) FullNamesByBatch(ctx context.Context, batchID int64) ([]string, error) {
	stmt := r.db.Builder().Select(fullNameExpr("s")).
		From("students s").
		Join("batch_students bs ON bs.student_id = s.id").
		Where(squirrel.Eq{"bs.batch_id": batchID}).
		OrderBy("s.last_name ASC", "s.first_name ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing batch students: %w", err)
	}
	return names, nil
}
