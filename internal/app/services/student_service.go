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

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentDetails(ctx context.Context, id int64) (*dto.StudentDetails, error)
	ListStudents(ctx context.Context, filter *models.StudentFilter) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo    *repositories.StudentRepository
	courseRepo     *repositories.CourseRepository
	attendanceRepo *repositories.AttendanceRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	courseRepo *repositories.CourseRepository,
	attendanceRepo *repositories.AttendanceRepository,
) StudentService {
	return &studentServiceImpl{
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		attendanceRepo: attendanceRepo,
	}
}

// studentFromRequest validates req and copies it into a student
func studentFromRequest(req *dto.StudentRequest) (*models.Student, error) {
	var (
		student = &models.Student{}
		err     error
	)

	if student.FirstName, err = requireText("first_name", req.FirstName, validation.NameMaxLength); err != nil {
		return nil, err
	}
	if student.LastName, err = requireText("last_name", req.LastName, validation.NameMaxLength); err != nil {
		return nil, err
	}
	if student.Email, err = requireEmail("email", req.Email); err != nil {
		return nil, err
	}
	if student.DateOfBirth, err = requireDate("dob", req.DateOfBirth); err != nil {
		return nil, err
	}
	if student.Gender, err = parseGender(req.Gender); err != nil {
		return nil, err
	}

	return student, nil
}

// CreateStudent creates a new student enrolled today
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	student.EnrollmentDate = models.Today()

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	logger.Info().Int64("studentID", student.ID).Str("email", student.Email).Msg("Student created")
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetStudentDetails retrieves a student with enrolled course names and attendance history by date
func (s *studentServiceImpl) GetStudentDetails(ctx context.Context, id int64) (*dto.StudentDetails, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseRepo.NamesByStudent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student courses: %w", err)
	}

	records, err := s.attendanceRepo.List(ctx, &models.AttendanceFilter{StudentID: id})
	if err != nil {
		return nil, fmt.Errorf("error retrieving student attendance: %w", err)
	}

	history := make([]dto.AttendanceHistoryItem, 0, len(records))
	for _, record := range records {
		history = append(history, dto.AttendanceHistoryItem{
			ID:     record.ID,
			Course: record.CourseName,
			Batch:  record.BatchName,
			Status: record.Status,
			Date:   record.Date,
		})
	}

	return &dto.StudentDetails{
		Student:    *student,
		FullName:   student.FullName(),
		Courses:    courses,
		Attendance: history,
	}, nil
}

// ListStudents retrieves the students matching filter
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter *models.StudentFilter) ([]*models.Student, error) {
	if filter != nil && filter.Gender != "" {
		gender, err := parseGender(string(filter.Gender))
		if err != nil {
			return nil, err
		}
		normalized := *filter
		normalized.Gender = gender
		filter = &normalized
	}
	return s.studentRepo.List(ctx, filter)
}

// UpdateStudent replaces the editable fields of a student
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error) {
	existing, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = id
	student.EnrollmentDate = existing.EnrollmentDate

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent deletes a student together with its attendance and memberships
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	removed, err := s.studentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Info().Int64("studentID", id).Interface("removed", removed).Msg("Student deleted")
	return nil
}
