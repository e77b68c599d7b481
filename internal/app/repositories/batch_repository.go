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

var batchColumns = []string{"b.id", "b.batch_name", "b.course_id", "b.start_date", "b.end_date"}

// BatchRepository handles batch and roster database operations
type BatchRepository struct {
	db      *db.Database
	cascade *cascader
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(database *db.Database, cascade *cascader) *BatchRepository {
	return &BatchRepository{db: database, cascade: cascade}
}

// Create creates a new batch
func (r *BatchRepository) Create(ctx context.Context, batch *models.Batch) error {
	stmt := r.db.Builder().Insert("batches").
		Columns("batch_name", "course_id", "start_date", "end_date").
		Values(batch.BatchName, batch.CourseID, batch.StartDate, batch.EndDate)

	id, err := insertReturningID(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", batch.CourseID).Msg("Error executing create batch query")
		return fmt.Errorf("error creating batch: %w", err)
	}

	batch.ID = id
	return nil
}

// GetByID retrieves a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id int64) (*models.Batch, error) {
	stmt := r.db.Builder().Select(batchColumns...).
		From("batches b").
		Where(squirrel.Eq{"b.id": id})

	batch := &models.Batch{}
	if err := getOne(ctx, r.db.Conn(ctx), batch, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrBatchNotFound
		}
		logger.Error().Err(err).Int64("batchID", id).Msg("Error scanning batch row")
		return nil, fmt.Errorf("error getting batch by ID: %w", err)
	}

	return batch, nil
}

// List retrieves batches matching filter
func (r *BatchRepository) List(ctx context.Context, filter *models.BatchFilter) ([]*models.Batch, error) {
	stmt := r.db.Builder().Select(batchColumns...).
		From("batches b").
		OrderBy("b.start_date DESC", "b.id ASC")

	if filter != nil && filter.CourseID > 0 {
		stmt = stmt.Where(squirrel.Eq{"b.course_id": filter.CourseID})
	}

	batches := []*models.Batch{}
	if err := selectAll(ctx, r.db.Conn(ctx), &batches, stmt); err != nil {
		logger.Error().Err(err).Msg("Error executing list batches query")
		return nil, fmt.Errorf("error querying batches: %w", err)
	}

	return batches, nil
}

// Update updates a batch
func (r *BatchRepository) Update(ctx context.Context, batch *models.Batch) error {
	stmt := r.db.Builder().Update("batches").
		SetMap(map[string]interface{}{
			"batch_name": batch.BatchName,
			"course_id":  batch.CourseID,
			"start_date": batch.StartDate,
			"end_date":   batch.EndDate,
		}).
		Where(squirrel.Eq{"id": batch.ID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		logger.Error().Err(err).Int64("batchID", batch.ID).Msg("Error executing update batch query")
		return fmt.Errorf("error updating batch: %w", err)
	}

	if affected == 0 {
		return apperrors.ErrBatchNotFound
	}

	return nil
}

// Delete removes a batch, its attendance rows and its roster
func (r *BatchRepository) Delete(ctx context.Context, id int64) (CascadeResult, error) {
	return r.cascade.delete(ctx, "batches", id, apperrors.ErrBatchNotFound)
}

// AddStudents puts studentIDs on the batch roster, ignoring students already on it.
// It returns the number of roster rows actually inserted.
func (r *BatchRepository) AddStudents(ctx context.Context, batchID int64, studentIDs []int64) (int64, error) {
	if len(studentIDs) == 0 {
		return 0, nil
	}

	stmt := r.db.Builder().Insert("batch_students").Columns("batch_id", "student_id")
	for _, studentID := range studentIDs {
		stmt = stmt.Values(batchID, studentID)
	}
	stmt = stmt.Suffix("ON CONFLICT DO NOTHING")

	added, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		logger.Error().Err(err).Int64("batchID", batchID).Msg("Error adding students to batch")
		return 0, fmt.Errorf("error adding students to batch: %w", err)
	}
	return added, nil
}

// RemoveStudent takes a student off the roster and reports whether they were on it
func (r *BatchRepository) RemoveStudent(ctx context.Context, batchID, studentID int64) (bool, error) {
	stmt := r.db.Builder().Delete("batch_students").
		Where(squirrel.Eq{"batch_id": batchID, "student_id": studentID})

	affected, err := execAffected(ctx, r.db.Conn(ctx), stmt)
	if err != nil {
		return false, fmt.Errorf("error removing student from batch: %w", err)
	}
	return affected > 0, nil
}

// RosterIDs lists the ids of the students on a batch roster
func (r *BatchRepository) RosterIDs(ctx context.Context, batchID int64) ([]int64, error) {
	stmt := r.db.Builder().Select("student_id").
		From("batch_students").
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("student_id")

	ids := []int64{}
	if err := selectAll(ctx, r.db.Conn(ctx), &ids, stmt); err != nil {
		return nil, fmt.Errorf("error listing batch roster: %w", err)
	}
	return ids, nil
}

// NamesByCourse lists the names of a course's batches
func (r *BatchRepository) NamesByCourse(ctx context.Context, courseID int64) ([]string, error) {
	stmt := r.db.Builder().Select("batch_name").
		From("batches").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("start_date ASC", "id ASC")

	names := []string{}
	if err := selectAll(ctx, r.db.Conn(ctx), &names, stmt); err != nil {
		return nil, fmt.Errorf("error listing course batches: %w", err)
	}
	return names, nil
}

// FindForStudentInCourse returns the most recently started batch of the course that has
// the student on its roster
func (r *BatchRepository) FindForStudentInCourse(ctx context.Context, studentID, courseID int64) (*models.Batch, error) {
	stmt := r.db.Builder().Select(batchColumns...).
		From("batches b").
		Join("batch_students bs ON bs.batch_id = b.id").
		Where(squirrel.Eq{"b.course_id": courseID, "bs.student_id": studentID}).
		OrderBy("b.start_date DESC", "b.id DESC").
		Limit(1)

	batch := &models.Batch{}
	if err := getOne(ctx, r.db.Conn(ctx), batch, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error finding student batch: %w", err)
	}
	return batch, nil
}

// LatestForCourse returns the most recently started batch of the course
func (r *BatchRepository) LatestForCourse(ctx context.Context, courseID int64) (*models.Batch, error) {
	stmt := r.db.Builder().Select(batchColumns...).
		From("batches b").
		Where(squirrel.Eq{"b.course_id": courseID}).
		OrderBy("b.start_date DESC", "b.id DESC").
		Limit(1)

	batch := &models.Batch{}
	if err := getOne(ctx, r.db.Conn(ctx), batch, stmt); err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrBatchNotFound
		}
		return nil, fmt.Errorf("error finding latest course batch: %w", err)
	}
	return batch, nil
}
