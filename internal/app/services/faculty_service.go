package services

import (
	"context"
	"fmt"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/pkg/logger"
	"github.com/yigit/collegerecords/internal/pkg/validation"
)

// FacultyService defines the interface for faculty-related operations
type FacultyService interface {
	CreateFaculty(ctx context.Context, req *dto.FacultyRequest) (*models.Faculty, error)
	GetFaculty(ctx context.Context, id int64) (*models.Faculty, error)
	GetFacultyDetails(ctx context.Context, id int64) (*dto.FacultyDetails, error)
	ListFaculties(ctx context.Context, filter *models.FacultyFilter) ([]*models.Faculty, error)
	UpdateFaculty(ctx context.Context, id int64, req *dto.FacultyRequest) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id int64) error
}

// facultyServiceImpl implements the FacultyService interface
type facultyServiceImpl struct {
	facultyRepo *repositories.FacultyRepository
	courseRepo  *repositories.CourseRepository
}

// NewFacultyService creates a new faculty service instance
func NewFacultyService(facultyRepo *repositories.FacultyRepository, courseRepo *repositories.CourseRepository) FacultyService {
	return &facultyServiceImpl{
		facultyRepo: facultyRepo,
		courseRepo:  courseRepo,
	}
}

// facultyFromRequest validates faculty data before database operations
func facultyFromRequest(req *dto.FacultyRequest) (*models.Faculty, error) {
	var (
		faculty = &models.Faculty{}
		err     error
	)

	if faculty.FirstName, err = requireText("first_name", req.FirstName, validation.NameMaxLength); err != nil {
		return nil, err
	}
	if faculty.LastName, err = requireText("last_name", req.LastName, validation.NameMaxLength); err != nil {
		return nil, err
	}
	if faculty.Email, err = requireEmail("email", req.Email); err != nil {
		return nil, err
	}
	if faculty.Department, err = requireText("department", req.Department, validation.DepartmentMaxLength); err != nil {
		return nil, err
	}

	return faculty, nil
}

// CreateFaculty creates a new faculty member hired today
func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, req *dto.FacultyRequest) (*models.Faculty, error) {
	faculty, err := facultyFromRequest(req)
	if err != nil {
		return nil, err
	}
	faculty.HireDate = models.Today()

	if err := s.facultyRepo.Create(ctx, faculty); err != nil {
		return nil, err
	}

	logger.Info().Int64("facultyID", faculty.ID).Msg("Faculty created")
	return faculty, nil
}

// GetFaculty retrieves a faculty member by ID
func (s *facultyServiceImpl) GetFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	return s.facultyRepo.GetByID(ctx, id)
}

// GetFacultyDetails retrieves a faculty member with the courses they teach
func (s *facultyServiceImpl) GetFacultyDetails(ctx context.Context, id int64) (*dto.FacultyDetails, error) {
	faculty, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseRepo.NamesByFaculty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving faculty courses: %w", err)
	}

	return &dto.FacultyDetails{
		Faculty:  *faculty,
		FullName: faculty.FullName(),
		Courses:  courses,
	}, nil
}

// ListFaculties retrieves faculty members matching filter
func (s *facultyServiceImpl) ListFaculties(ctx context.Context, filter *models.FacultyFilter) ([]*models.Faculty, error) {
	return s.facultyRepo.List(ctx, filter)
}

// UpdateFaculty replaces the editable fields of a faculty member
func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id int64, req *dto.FacultyRequest) (*models.Faculty, error) {
	existing, err := s.facultyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	faculty, err := facultyFromRequest(req)
	if err != nil {
		return nil, err
	}
	faculty.ID = id
	faculty.HireDate = existing.HireDate

	if err := s.facultyRepo.Update(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// DeleteFaculty deletes a faculty member and their course assignments
func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id int64) error {
	removed, err := s.facultyRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Info().Int64("facultyID", id).Interface("removed", removed).Msg("Faculty deleted")
	return nil
}
