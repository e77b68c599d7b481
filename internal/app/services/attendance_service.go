package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// AttendanceService defines the interface for attendance operations
type AttendanceService interface {
	CreateAttendance(ctx context.Context, req *dto.AttendanceRequest) (*models.Attendance, error)
	GetAttendance(ctx context.Context, id int64) (*models.Attendance, error)
	GetAttendanceDetails(ctx context.Context, id int64) (*models.AttendanceRecord, error)
	ListAttendance(ctx context.Context, filter *models.AttendanceFilter) ([]*models.AttendanceRecord, error)
	UpdateAttendance(ctx context.Context, id int64, req *dto.AttendanceRequest) (*models.Attendance, error)
	DeleteAttendance(ctx context.Context, id int64) error
	MarkAttendance(ctx context.Context, studentID, courseID int64, status string) (*dto.MarkAttendanceResult, error)
	ExportAttendance(ctx context.Context, filter *models.AttendanceFilter, w io.Writer) error
}

// attendanceServiceImpl implements the AttendanceService interface
type attendanceServiceImpl struct {
	db             *db.Database
	attendanceRepo *repositories.AttendanceRepository
	studentRepo    *repositories.StudentRepository
	courseRepo     *repositories.CourseRepository
	batchRepo      *repositories.BatchRepository
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(
	database *db.Database,
	attendanceRepo *repositories.AttendanceRepository,
	studentRepo *repositories.StudentRepository,
	courseRepo *repositories.CourseRepository,
	batchRepo *repositories.BatchRepository,
) AttendanceService {
	return &attendanceServiceImpl{
		db:             database,
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		batchRepo:      batchRepo,
	}
}

// attendanceFromRequest validates attendance data and checks the student and batch exist
func (s *attendanceServiceImpl) attendanceFromRequest(ctx context.Context, req *dto.AttendanceRequest) (*models.Attendance, error) {
	attendance := &models.Attendance{StudentID: req.StudentID, BatchID: req.BatchID}

	if err := requireID("student_id", req.StudentID); err != nil {
		return nil, err
	}
	if err := requireID("batch_id", req.BatchID); err != nil {
		return nil, err
	}

	var err error
	if attendance.Date, err = requireDate("date", req.Date); err != nil {
		return nil, err
	}
	if attendance.Status, err = models.ParseAttendanceStatus(req.Status); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.batchRepo.GetByID(ctx, req.BatchID); err != nil {
		return nil, err
	}

	return attendance, nil
}

// CreateAttendance records a student's status for a batch on a date
func (s *attendanceServiceImpl) CreateAttendance(ctx context.Context, req *dto.AttendanceRequest) (*models.Attendance, error) {
	attendance, err := s.attendanceFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

// GetAttendance retrieves an attendance row by ID
func (s *attendanceServiceImpl) GetAttendance(ctx context.Context, id int64) (*models.Attendance, error) {
	return s.attendanceRepo.GetByID(ctx, id)
}

// GetAttendanceDetails retrieves an attendance row with the student, batch and course names
func (s *attendanceServiceImpl) GetAttendanceDetails(ctx context.Context, id int64) (*models.AttendanceRecord, error) {
	return s.attendanceRepo.GetRecord(ctx, id)
}

// ListAttendance retrieves attendance records matching filter
func (s *attendanceServiceImpl) ListAttendance(ctx context.Context, filter *models.AttendanceFilter) ([]*models.AttendanceRecord, error) {
	return s.attendanceRepo.List(ctx, filter)
}

// UpdateAttendance replaces the fields of an attendance row
func (s *attendanceServiceImpl) UpdateAttendance(ctx context.Context, id int64, req *dto.AttendanceRequest) (*models.Attendance, error) {
	if _, err := s.attendanceRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	attendance, err := s.attendanceFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	attendance.ID = id

	if err := s.attendanceRepo.Update(ctx, attendance); err != nil {
		return nil, err
	}
	return attendance, nil
}

// DeleteAttendance deletes an attendance row
func (s *attendanceServiceImpl) DeleteAttendance(ctx context.Context, id int64) error {
	return s.attendanceRepo.Delete(ctx, id)
}

// MarkAttendance upserts the attendance of a student in a course. An existing
// row in any batch of the course only has its status overwritten. Otherwise a
// row dated today is created in the latest course batch the student is
// rostered in, or in the course's latest batch when they are on no roster.
func (s *attendanceServiceImpl) MarkAttendance(ctx context.Context, studentID, courseID int64, status string) (*dto.MarkAttendanceResult, error) {
	present, err := models.ParseAttendanceStatus(status)
	if err != nil {
		return nil, err
	}

	result := &dto.MarkAttendanceResult{}
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
			return err
		}
		if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
			return err
		}

		existing, err := s.attendanceRepo.FindByStudentAndCourse(ctx, studentID, courseID)
		switch {
		case err == nil:
			result.ID = existing.ID
			return s.attendanceRepo.UpdateStatus(ctx, existing.ID, present)
		case !errors.Is(err, apperrors.ErrAttendanceNotFound):
			return err
		}

		batch, err := s.resolveBatch(ctx, studentID, courseID)
		if err != nil {
			return err
		}

		attendance := &models.Attendance{
			StudentID: studentID,
			BatchID:   batch.ID,
			Date:      models.Today(),
			Status:    present,
		}
		if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
			return err
		}
		result.ID = attendance.ID
		result.Created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Int64("attendanceID", result.ID).
		Bool("present", present).
		Msg(result.Message())
	return result, nil
}

// resolveBatch picks the batch a new attendance row of the student belongs to
func (s *attendanceServiceImpl) resolveBatch(ctx context.Context, studentID, courseID int64) (*models.Batch, error) {
	batch, err := s.batchRepo.FindForStudentInCourse(ctx, studentID, courseID)
	if err == nil {
		return batch, nil
	}
	if !errors.Is(err, apperrors.ErrBatchNotFound) {
		return nil, err
	}

	batch, err = s.batchRepo.LatestForCourse(ctx, courseID)
	if errors.Is(err, apperrors.ErrBatchNotFound) {
		return nil, apperrors.ErrCourseHasNoBatch
	}
	return batch, err
}

// ExportAttendance writes the records matching filter to w as an xlsx workbook
func (s *attendanceServiceImpl) ExportAttendance(ctx context.Context, filter *models.AttendanceFilter, w io.Writer) error {
	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return err
	}
	if err := writeAttendanceWorkbook(records, w); err != nil {
		return fmt.Errorf("error writing attendance workbook: %w", err)
	}
	return nil
}
