package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/collegerecords/internal/app/models"
	appRepos "github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
)

// DemoCourseCode identifies the seeded course. Its presence means the demo data exists.
const DemoCourseCode = "CS101"

// CreateDefaultData inserts a demo course with one batch, an instructor and an
// enrolled student unless the demo course already exists.
func CreateDefaultData(ctx context.Context, database *db.Database, lgr zerolog.Logger) error {
	repos := appRepos.NewRepositories(database)

	lgr.Info().Msg("Checking/Creating default data (course, batch, faculty, student)...")

	_, err := repos.CourseRepository.GetByCode(ctx, DemoCourseCode)
	if err == nil {
		lgr.Info().Str("courseCode", DemoCourseCode).Msg("Default data already present")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("failed to look up demo course: %w", err)
	}

	err = database.WithTransaction(ctx, func(ctx context.Context) error {
		course := &appModels.Course{
			CourseCode:  DemoCourseCode,
			CourseName:  "Intro to Programming",
			Description: "Basics of programming",
			Credits:     3,
		}
		if err := repos.CourseRepository.Create(ctx, course); err != nil {
			return err
		}

		today := appModels.Today()
		batch := &appModels.Batch{
			BatchName: "B1",
			CourseID:  course.ID,
			StartDate: today,
			EndDate:   appModels.NewDate(today.AddDate(0, 6, 0)),
		}
		if err := repos.BatchRepository.Create(ctx, batch); err != nil {
			return err
		}

		faculty := &appModels.Faculty{
			FirstName:  "Alan",
			LastName:   "Turing",
			Email:      "alan.turing@example.com",
			Department: "Computer Science",
			HireDate:   today,
		}
		if err := repos.FacultyRepository.Create(ctx, faculty); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return err
		} else if err == nil {
			if err := repos.CourseRepository.AssignInstructor(ctx, course.ID, faculty.ID); err != nil {
				return err
			}
		}

		student := &appModels.Student{
			FirstName:      "Ada",
			LastName:       "Lovelace",
			Email:          "ada.lovelace@example.com",
			DateOfBirth:    appModels.NewDate(today.AddDate(-20, 0, 0)),
			Gender:         appModels.GenderFemale,
			EnrollmentDate: today,
		}
		if err := repos.StudentRepository.Create(ctx, student); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return err
		} else if err == nil {
			if err := repos.CourseRepository.Enroll(ctx, course.ID, student.ID); err != nil {
				return err
			}
			if _, err := repos.BatchRepository.AddStudents(ctx, batch.ID, []int64{student.ID}); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		// Created concurrently by another instance
		lgr.Info().Msg("Default data created elsewhere, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create default data: %w", err)
	}

	lgr.Info().Str("courseCode", DemoCourseCode).Msg("Default data created")
	return nil
}
