package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/collegerecords/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	FacultyRepository    *FacultyRepository
	CourseRepository     *CourseRepository
	BatchRepository      *BatchRepository
	AttendanceRepository *AttendanceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	cascade := newCascader(database)
	return &Repositories{
		StudentRepository:    NewStudentRepository(database, cascade),
		FacultyRepository:    NewFacultyRepository(database, cascade),
		CourseRepository:     NewCourseRepository(database, cascade),
		BatchRepository:      NewBatchRepository(database, cascade),
		AttendanceRepository: NewAttendanceRepository(database, cascade),
	}
}

// getOne runs stmt and scans the single resulting row into dest.
func getOne(ctx context.Context, conn db.Queryer, dest interface{}, stmt squirrel.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return sqlx.GetContext(ctx, conn, dest, query, args...)
}

// selectAll runs stmt and scans every row into dest, which must be a slice pointer.
func selectAll(ctx context.Context, conn db.Queryer, dest interface{}, stmt squirrel.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	return sqlx.SelectContext(ctx, conn, dest, query, args...)
}

// execAffected runs stmt and returns the number of affected rows.
func execAffected(ctx context.Context, conn db.Queryer, stmt squirrel.Sqlizer) (int64, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// insertReturningID runs an insert and returns the generated primary key.
func insertReturningID(ctx context.Context, conn db.Queryer, stmt squirrel.InsertBuilder) (int64, error) {
	query, args, err := stmt.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}
	var id int64
	if err := conn.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// isNoRows reports whether err signals an empty single-row result.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// fullNameExpr concatenates first and last name; valid in both Postgres and SQLite.
func fullNameExpr(alias string) string {
	return alias + ".first_name || ' ' || " + alias + ".last_name"
}
