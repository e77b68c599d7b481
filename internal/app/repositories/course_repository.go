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

// CourseRepository handles course database operations
type CourseRepository struct {
	db      *db.Database
	cascade *cascader
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database, cascade *cascader) *CourseRepository {
	return &CourseRepository{db: database, cascade: cascade}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	stmt := r.db.Builder().Insert("courses").
		Columns("course_code", "course_name", "description", "credits").
		Values(course.CourseCode, course.CourseName, course.Description, course.Credits)

	id, err := insertReturningID(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseCodeExists
		}
		logger.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	course.ID = id
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	stmt := r.db.Builder().Select("id", "course_code", "course_name", "description", "credits").
		From("courses").
		Where(squirrel.Eq{"id": id})

	course := &models.Course{}
	if err := getOne(ctx, r.db.Conn(ctx), course, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetByCode retrieves a course by its unique code
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	stmt := r.db.Builder().Select("id", "course_code", "course_name", "description", "credits").
		From("courses").
		Where(squirrel.Eq{"course_code": code})

	course := &models.Course{}
	if err := getOne(ctx, r.db.Conn(ctx), course, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course by code: %w", err)
	}

	return course, nil
}

// List retrieves courses matching filter
func (r *CourseRepository) List(ctx context.Context, filter *models.CourseFilter) ([]*models.Course, error) {
	stmt := r.db.Builder().Select("id", "course_code", "course_name", "description", "credits").
		From("courses").
		OrderBy("course_code ASC")

	if filter != nil {
		if filter.Code != "" {
			stmt = stmt.Where(squirrel.Eq{"course_code": filter.Code})
		}
		if name := strings.ToLower(strings.TrimSpace(filter.Name)); name != "" {
			stmt = stmt.Where(squirrel.Expr("LOWER(course_name) LIKE ?", "%"+name+"%"))
		}
	}

	courses := []*models.Course{}
	if err := selectAll(ctx, r.db.Conn(ctx), &courses, stmt); err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}

	return courses, nil
}

// Update updates a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	stmt := r.db.Builder().Update("courses").
		SetMap(map[string]interface{}{
			"course_code": course.CourseCode,
			"course_name": course.CourseName,
			"description": course.Description,
			"credits":     course.Credits,
		}).
		Where(squirrel.Eq{"id": course.ID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseCodeExists
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course with its batches, their attendance and every enrollment or assignment
func (r *CourseRepository) Delete(ctx context.Context, id int64) (CascadeResult, error) {
	return r.cascade.delete(ctx, "courses", id, apperrors.ErrCourseNotFound)
}

// Enroll adds a student to a course. Enrolling twice is a no-op.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID int64) error {
	stmt := r.db.Builder().Insert("course_enrollments").
		Columns("course_id", "student_id").
		Values(courseID, studentID).
		Suffix("ON CONFLICT DO NOTHING")

	if _, err := execAffected(ctx, r.db.Conn(ctx), stmt); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("studentID", studentID).Msg("Error enrolling student")
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}

// Unenroll removes a student from a course and reports whether an enrollment existed
func (r *CourseRepository) Unenroll(ctx context.Context, courseID, studentID int64) (bool, error) {
	stmt := r.db.Builder().Delete("course_enrollments").
		Where(squirrel.Eq{"course_id": courseID, "student_id": studentID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		return false, fmt.Errorf("error unenrolling student: %w", err)
	}
	return affected > 0, nil
}

// AssignInstructor makes a faculty member teach a course. Assigning twice is a no-op.
func (r *CourseRepository) AssignInstructor(ctx context.Context, courseID, facultyID int64) error {
	stmt := r.db.Builder().Insert("course_instructors").
		Columns("course_id", "faculty_id").
		Values(courseID, facultyID).
		Suffix("ON CONFLICT DO NOTHING")

	if _, err := execAffected(ctx, r.db.Conn(ctx), stmt); err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Int64("facultyID", facultyID).Msg("Error assigning instructor")
		return fmt.Errorf("error assigning instructor: %w", err)
	}
	return nil
}

// UnassignInstructor removes a teaching assignment and reports whether it existed
func (r *CourseRepository) UnassignInstructor(ctx context.Context, courseID, facultyID int64) (bool, error) {
	stmt := r.db.Builder().Delete("course_instructors").
		Where(squirrel.Eq{"course_id": courseID, "faculty_id": facultyID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		return false, fmt.Errorf("error unassigning instructor: %w", err)
	}
	return affected > 0, nil
}

// NamesByStudent lists the names of the courses a student is enrolled in
func (r *CourseRepository) NamesByStudent(ctx context.Context, studentID int64) ([]string, error) {
	stmt := r.db.Builder().Select("c.course_name").
		From("courses c").
		Join("course_enrollments ce ON ce.course_id = c.id").
		Where(squirrel.Eq{"ce.student_id": studentID}).
		OrderBy("c.course_name ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing student courses: %w", err)
	}
	return names, nil
}

// NamesByFaculty lists the names of the courses a faculty member teaches
func (r *CourseRepository) NamesByFaculty(ctx context.Context, facultyID int64) ([]string, error) {
	stmt := r.db.Builder().Select("c.course_name").
		From("courses c").
		Join("course_instructors ci ON ci.course_id = c.id").
		Where(squirrel.Eq{"ci.faculty_id": facultyID}).
		OrderBy("c.course_name ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing faculty courses: %w", err)
	}
	return names, nil
}
