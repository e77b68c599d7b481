package services

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/app/models/dto"
	"github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/logger"
	"github.com/yigit/collegerecords/internal/pkg/validation"
)

// BatchService defines the interface for batch and roster operations
type BatchService interface {
	CreateBatch(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error)
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)
	GetBatchDetails(ctx context.Context, id int64) (*dto.BatchDetails, error)
	ListBatches(ctx context.Context, filter *models.BatchFilter) ([]*models.Batch, error)
	UpdateBatch(ctx context.Context, id int64, req *dto.BatchRequest) (*models.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error
	AddStudentsToBatch(ctx context.Context, batchID int64, studentIDs []int64) (*dto.AddStudentsResult, error)
	RemoveStudentFromBatch(ctx context.Context, batchID, studentID int64) error
	RosterStudentIDs(ctx context.Context, batchID int64) ([]int64, error)
	ImportBatchRoster(ctx context.Context, batchID int64, workbook io.Reader) (*dto.RosterImportResult, error)
}

// batchServiceImpl implements the BatchService interface
type batchServiceImpl struct {
	db          *db.Database
	batchRepo   *repositories.BatchRepository
	courseRepo  *repositories.CourseRepository
	studentRepo *repositories.StudentRepository
}

// NewBatchService creates a new batch service instance
func NewBatchService(
	database *db.Database,
	batchRepo *repositories.BatchRepository,
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
) BatchService {
	return &batchServiceImpl{
		db:          database,
		batchRepo:   batchRepo,
		courseRepo:  courseRepo,
		studentRepo: studentRepo,
	}
}

// batchFromRequest validates batch data and checks the course exists
func (s *batchServiceImpl) batchFromRequest(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error) {
	var (
		batch = &models.Batch{CourseID: req.CourseID}
		err   error
	)

	if batch.BatchName, err = requireText("batch_name", req.BatchName, validation.BatchNameMaxLength); err != nil {
		return nil, err
	}
	if err = requireID("course_id", req.CourseID); err != nil {
		return nil, err
	}
	if batch.StartDate, err = requireDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if batch.EndDate, err = requireDate("end_date", req.EndDate); err != nil {
		return nil, err
	}
	if batch.StartDate.After(batch.EndDate) {
		return nil, apperrors.ErrBatchDateOrder
	}

	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	return batch, nil
}

// CreateBatch creates a batch for an existing course
func (s *batchServiceImpl) CreateBatch(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error) {
	batch, err := s.batchFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}

	logger.Info().Int64("batchID", batch.ID).Int64("courseID", batch.CourseID).Msg("Batch created")
	return batch, nil
}

// GetBatch retrieves a batch by ID
func (s *batchServiceImpl) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// GetBatchDetails retrieves a batch with its course name and rostered students
func (s *batchServiceImpl) GetBatchDetails(ctx context.Context, id int64) (*dto.BatchDetails, error) {
	batch, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, batch.CourseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving batch course: %w", err)
	}

	students, err := s.studentRepo.FullNamesByBatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving batch roster: %w", err)
	}

	return &dto.BatchDetails{
		Batch:      *batch,
		CourseName: course.CourseName,
		Students:   students,
	}, nil
}

// ListBatches retrieves batches matching filter
func (s *batchServiceImpl) ListBatches(ctx context.Context, filter *models.BatchFilter) ([]*models.Batch, error) {
	return s.batchRepo.List(ctx, filter)
}

// UpdateBatch replaces the fields of a batch
func (s *batchServiceImpl) UpdateBatch(ctx context.Context, id int64, req *dto.BatchRequest) (*models.Batch, error) {
	if _, err := s.batchRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	batch, err := s.batchFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	batch.ID = id

	if err := s.batchRepo.Update(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// DeleteBatch deletes a batch, its attendance rows and its roster
func (s *batchServiceImpl) DeleteBatch(ctx context.Context, id int64) error {
	removed, err := s.batchRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	logger.Info().Int64("batchID", id).Interface("removed", removed).Msg("Batch deleted")
	return nil
}

// AddStudentsToBatch adds students to the roster as a set union. Ids that
// match no student are skipped and reported back.
func (s *batchServiceImpl) AddStudentsToBatch(ctx context.Context, batchID int64, studentIDs []int64) (*dto.AddStudentsResult, error) {
	result := &dto.AddStudentsResult{SkippedIDs: []int64{}}

	err := s.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
			return err
		}

		requested := uniqueIDs(studentIDs)
		existing, err := s.studentRepo.ExistingIDs(ctx, requested)
		if err != nil {
			return err
		}

		known := make(map[int64]struct{}, len(existing))
		for _, id := range existing {
			known[id] = struct{}{}
		}
		for _, id := range requested {
			if _, ok := known[id]; !ok {
				result.SkippedIDs = append(result.SkippedIDs, id)
			}
		}

		result.Added, err = s.batchRepo.AddStudents(ctx, batchID, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(result.SkippedIDs) > 0 {
		logger.Warn().Int64("batchID", batchID).Interface("skippedIDs", result.SkippedIDs).Msg("Unknown students skipped while adding to batch")
	}
	return result, nil
}

// RemoveStudentFromBatch takes a student off a batch roster
func (s *batchServiceImpl) RemoveStudentFromBatch(ctx context.Context, batchID, studentID int64) error {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return err
	}

	removed, err := s.batchRepo.RemoveStudent(ctx, batchID, studentID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NewResourceNotFoundError("student is not on this batch roster")
	}
	return nil
}

// RosterStudentIDs lists the ids of the students on a batch roster
func (s *batchServiceImpl) RosterStudentIDs(ctx context.Context, batchID int64) ([]int64, error) {
	if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
		return nil, err
	}
	return s.batchRepo.RosterIDs(ctx, batchID)
}

// ImportBatchRoster adds the students listed by email in column A of the
// first sheet of an xlsx workbook. The first row is a header.
func (s *batchServiceImpl) ImportBatchRoster(ctx context.Context, batchID int64, workbook io.Reader) (*dto.RosterImportResult, error) {
	emails, err := readRosterEmails(workbook)
	if err != nil {
		return nil, err
	}

	result := &dto.RosterImportResult{UnknownEmails: []string{}}
	err = s.db.WithTransaction(ctx, func(ctx context.Context) error {
		byEmail, err := s.studentRepo.IDsByEmail(ctx, emails)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(byEmail))
		for _, email := range emails {
			if id, ok := byEmail[email]; ok {
				ids = append(ids, id)
			} else {
				result.UnknownEmails = append(result.UnknownEmails, email)
			}
		}

		added, err := s.AddStudentsToBatch(ctx, batchID, ids)
		if err != nil {
			return err
		}
		result.AddStudentsResult = *added
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("batchID", batchID).Int64("added", result.Added).Int("unknownEmails", len(result.UnknownEmails)).Msg("Batch roster imported")
	return result, nil
}

// uniqueIDs drops duplicates and returns the ids in ascending order
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
