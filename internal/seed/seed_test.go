package seed

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"

	appRepos "github.com/yigit/collegerecords/internal/app/repositories"
	"github.com/yigit/collegerecords/internal/testutil"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	database := testutil.NewDatabase(t)
	ctx := context.Background()
	lgr := zerolog.New(io.Discard)

	for i := 0; i < 2; i++ {
		if err := CreateDefaultData(ctx, database, lgr); err != nil {
			t.Fatalf("run %d: CreateDefaultData() error = %v", i+1, err)
		}
	}

	repos := appRepos.NewRepositories(database)
	courses, err := repos.CourseRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("List courses: %v", err)
	}
	if len(courses) != 1 || courses[0].CourseCode != DemoCourseCode {
		t.Fatalf("courses = %+v, want only %s", courses, DemoCourseCode)
	}

	batches, err := repos.BatchRepository.List(ctx, nil)
	if err != nil {
		t.Fatalf("List batches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(batches))
	}

	roster, err := repos.BatchRepository.RosterIDs(ctx, batches[0].ID)
	if err != nil {
		t.Fatalf("RosterIDs: %v", err)
	}
	if len(roster) != 1 {
		t.Errorf("roster = %v, want the demo student", roster)
	}
}
