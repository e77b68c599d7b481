package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/dberrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// FacultyRepository handles faculty database operations
type FacultyRepository struct {
	db      *db.Database
	cascade *cascader
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(database *db.Database, cascade *cascader) *FacultyRepository {
	return &FacultyRepository{db: database, cascade: cascade}
}

// Create creates a new faculty member
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	stmt := r.db.Builder().Insert("faculties").
		Columns("first_name", "last_name", "email", "department", "hire_date").
		Values(faculty.FirstName, faculty.LastName, faculty.Email, faculty.Department, faculty.HireDate)

	id, err := insertReturningID(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrFacultyEmailExists
		}
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return fmt.Errorf("error creating faculty: %w", err)
	}

	faculty.ID = id
	return nil
}

// GetByID retrieves a faculty member by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	stmt := r.db.Builder().Select("id", "first_name", "last_name", "email", "department", "hire_date").
		From("faculties").
		Where(squirrel.Eq{"id": id})

	faculty := &models.Faculty{}
	if err := getOne(ctx, r.db.Conn(ctx), faculty, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Int64("facultyID", id).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty by ID: %w", err)
	}

	return faculty, nil
}

// List retrieves faculty members matching filter
func (r *FacultyRepository) List(ctx context.Context, filter *models.FacultyFilter) ([]*models.Faculty, error) {
	stmt := r.db.Builder().Select("f.id", "f.first_name", "f.last_name", "f.email", "f.department", "f.hire_date").
		From("faculties f").
		OrderBy("f.last_name ASC", "f.first_name ASC", "f.id ASC")

	if filter != nil {
		if filter.Department != "" {
			stmt = stmt.Where(squirrel.Eq{"f.department": filter.Department})
		}
		if filter.CourseID > 0 {
			stmt = stmt.Where("EXISTS (SELECT 1 FROM course_instructors ci WHERE ci.faculty_id = f.id AND ci.course_id = ?)", filter.CourseID)
		}
	}

	faculties := []*models.Faculty{}
	if err := selectAll(ctx, r.db.Conn(ctx), &faculties, stmt); err != nil {
		logger.Error().Err(err).Msg("Error executing list faculties query")
		return nil, fmt.Errorf("error querying faculties: %w", err)
	}

	return faculties, nil
}

// Update updates a faculty member
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	stmt := r.db.Builder().Update("faculties").
		SetMap(map[string]interface{}{
			"first_name": faculty.FirstName,
			"last_name":  faculty.LastName,
			"email":      faculty.Email,
			"department": faculty.Department,
		}).
		Where(squirrel.Eq{"id": faculty.ID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrFacultyEmailExists
		}
		logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrFacultyNotFound
	}

	return nil
}

// Delete removes a faculty member and its course assignments
func (r *FacultyRepository) Delete(ctx context.Context, id int64) (CascadeResult, error) {
	return r.cascade.delete(ctx, "faculties", id, apperrors.ErrFacultyNotFound)
}

// FullNamesByCourse lists the instructors assigned to a course
func (r *FacultyRepository) FullNamesByCourse(ctx context.Context, courseID int64) ([]string, error) {
	stmt := r.db.Builder().Select(fullNameExpr("f")).
		From("faculties f").
		Join("course_instructors ci ON ci.faculty_id = f.id").
		Where(squirrel.Eq{"ci.course_id": courseID}).
		OrderBy("f.last_name ASC", "f.first_name ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing course instructors: %w", err)
	}
	return names, nil
}
