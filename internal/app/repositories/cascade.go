package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/collegerecords/internal/db"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// dependent is a foreign key pointing at an owning table.
type dependent struct {
	table  string
	column string
	// link tables are pure join rows: no id column, nothing depends on them
	link bool
}

// ownership is the foreign-key graph walked on delete, parent table -> dependents.
// The schema declares these keys without ON DELETE CASCADE.
var ownership = map[string][]dependent{
	"courses": {
		{table: "batches", column: "course_id"},
		{table: "course_enrollments", column: "course_id", link: true},
		{table: "course_instructors", column: "course_id", link: true},
	},
	"batches": {
		{table: "attendances", column: "batch_id"},
		{table: "batch_students", column: "batch_id", link: true},
	},
	"students": {
		{table: "attendances", column: "student_id"},
		{table: "course_enrollments", column: "student_id", link: true},
		{table: "batch_students", column: "student_id", link: true},
	},
	"faculties": {
		{table: "course_instructors", column: "faculty_id", link: true},
	},
	"attendances": nil,
}

// deleteStep removes the rows of table whose column is one of ids.
type deleteStep struct {
	table  string
	column string
	ids    []int64
}

// CascadeResult counts deleted rows per table.
type CascadeResult map[string]int64

type cascader struct {
	db *db.Database
}

func newCascader(database *db.Database) *cascader {
	return &cascader{db: database}
}

// plan collects the delete steps for rows ids of table and, transitively, every
// row that depends on them. Dependents are ordered before their owners.
func (c *cascader) plan(ctx context.Context, conn db.Queryer, table string, ids []int64) ([]deleteStep, error) {
	deps, ok := ownership[table]
	if !ok {
		return nil, fmt.Errorf("no ownership entry for table %q", table)
	}

	var steps []deleteStep
	for _, dep := range deps {
		if dep.link {
			steps = append(steps, deleteStep{table: dep.table, column: dep.column, ids: ids})
			continue
		}

		var childIDs []int64
		stmt := c.db.Builder().Select("id").From(dep.table).Where(squirrel.Eq{dep.column: ids}).OrderBy("id")
		if err := selectAll(ctx, conn, &childIDs, stmt); err != nil {
			return nil, fmt.Errorf("error collecting %s dependents of %s: %w", dep.table, table, err)
		}
		if len(childIDs) == 0 {
			continue
		}

		childSteps, err := c.plan(ctx, conn, dep.table, childIDs)
		if err != nil {
			return nil, err
		}
		steps = append(steps, childSteps...)
	}

	return append(steps, deleteStep{table: table, column: "id", ids: ids}), nil
}

// delete removes the row id of table with everything it owns in one transaction.
// notFound is returned, and nothing is removed, when the row does not exist.
func (c *cascader) delete(ctx context.Context, table string, id int64, notFound error) (CascadeResult, error) {
	result := CascadeResult{}

	err := c.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := c.db.Conn(ctx)

		steps, err := c.plan(ctx, conn, table, []int64{id})
		if err != nil {
			return err
		}

		for _, step := range steps {
			stmt := c.db.Builder().Delete(step.table).Where(squirrel.Eq{step.column: step.ids})
			affected, err := execAffected(ctx, conn, stmt)
			if err != nil {
				return fmt.Errorf("error deleting from %s: %w", step.table, err)
			}
			result[step.table] += affected
		}

		if result[table] == 0 {
			return notFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("table", table).Int64("id", id).Interface("removed", result).Msg("Cascade delete completed")
	return result, nil
}
