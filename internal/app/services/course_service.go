package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
	"github.com/yigit/collegerecords/internal/pkg/validation"
)

// CourseService defines the interface for course, enrollment and teaching operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetCourseDetails(ctx context.Context, id int64) (*dto.CourseDetails, error)
	ListCourses(ctx context.Context, filter *models.CourseFilter) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	EnrollStudent(ctx context.Context, courseID, studentID int64) error
	UnenrollStudent(ctx context.Context, courseID, studentID int64) error
	AssignInstructor(ctx context.Context, courseID, facultyID int64) error
	UnassignInstructor(ctx context.Context, courseID, facultyID int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo  *repositories.CourseRepository
	studentRepo *repositories.StudentRepository
	facultyRepo *repositories.FacultyRepository
	batchRepo   *repositories.BatchRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
	facultyRepo *repositories.FacultyRepository,
	batchRepo *repositories.BatchRepository,
) CourseService {
	return &courseServiceImpl{
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
		facultyRepo: facultyRepo,
		batchRepo:   batchRepo,
	}
}

func courseFromRequest(req *dto.CourseRequest) (*models.Course, error) {
	var (
		course = &models.Course{}
		err    error
	)

	if course.CourseCode, err = requireText("course_code", req.CourseCode, validation.CourseCodeMaxLength); err != nil {
		return nil, err
	}
	if !validation.CompiledPatterns.CourseCode.MatchString(course.CourseCode) {
		return nil, apperrors.NewValidationError("course_code", "course_code may only contain letters, digits and dashes")
	}
	if course.CourseName, err = requireText("course_name", req.CourseName, validation.CourseNameMaxLength); err != nil {
		return nil, err
	}
	if !validation.NewNumericValidation(req.Credits).WithMin(0).Validate() {
		return nil, apperrors.NewValidationError("credits", "credits must not be negative")
	}

	course.Description = strings.TrimSpace(req.Description)
	course.Credits = req.Credits
	return course, nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CourseRequest) (*models.Course, error) {
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Info().Int64("courseID", course.ID).Str("courseCode", course.CourseCode).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// GetCourseDetails retrieves a course with enrolled students, batch names and instructors
func (s *courseServiceImpl) GetCourseDetails(ctx context.Context, id int64) (*dto.CourseDetails, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	students, err := s.studentRepo.FullNamesByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course students: %w", err)
	}
	batches, err := s.batchRepo.NamesByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course batches: %w", err)
	}
	instructors, err := s.facultyRepo.FullNamesByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course instructors: %w", err)
	}

	return &dto.CourseDetails{
		Course:      *course,
		Students:    students,
		Batches:     batches,
		Instructors: instructors,
	}, nil
}

// ListCourses retrieves courses matching filter
func (s *courseServiceImpl) ListCourses(ctx context.Context, filter *models.CourseFilter) ([]*models.Course, error) {
	return s.courseRepo.List(ctx, filter)
}

// UpdateCourse replaces the fields of a course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, req *dto.CourseRequest) (*models.Course, error) {
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	course.ID = id

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse deletes a course, its batches and their attendance
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	removed, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Info().Int64("courseID", id).Interface("removed", removed).Msg("Course deleted")
	return nil
}

// EnrollStudent enrolls a student in a course
func (s *courseServiceImpl) EnrollStudent(ctx context.Context, courseID, studentID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return err
	}
	return s.courseRepo.Enroll(ctx, courseID, studentID)
}

// UnenrollStudent removes a student from a course
func (s *courseServiceImpl) UnenrollStudent(ctx context.Context, courseID, studentID int64) error {
	removed, err := s.courseRepo.Unenroll(ctx, courseID, studentID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewResourceNotFoundError("student is not enrolled in this course")
	}
	return nil
}

// AssignInstructor makes a faculty member teach a course
func (s *courseServiceImpl) AssignInstructor(ctx context.Context, courseID, facultyID int64) error {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return err
	}
	if _, err := s.facultyRepo.GetByID(ctx, facultyID); err != nil {
		return err
	}
	return s.courseRepo.AssignInstructor(ctx, courseID, facultyID)
}

// UnassignInstructor removes a teaching assignment
func (s *courseServiceImpl) UnassignInstructor(ctx context.Context, courseID, facultyID int64) error {
	removed, err := s.courseRepo.UnassignInstructor(ctx, courseID, facultyID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewResourceNotFoundError("faculty member does not teach this course")
	}
	return nil
}
