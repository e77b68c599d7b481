package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/yigit/collegerecords/internal/config"
	"github.com/yigit/collegerecords/internal/pkg/logger"
)

// Dialect identifies the SQL flavour spoken by the underlying store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// driverNames maps a dialect to its registered database/sql driver.
var driverNames = map[Dialect]string{
	DialectPostgres: "pgx",
	DialectSQLite:   "sqlite",
}

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
}

// Database wraps the sqlx handle together with its dialect.
type Database struct {
	*sqlx.DB
	Dialect Dialect
}

// NewDatabase opens and pings a store for the configured driver.
func NewDatabase(cfg *config.Config) (*Database, error) {
	var (
		dialect Dialect
		dsn     string
	)
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialect, dsn = DialectSQLite, cfg.GetSQLiteConnectionString()
	default:
		dialect, dsn = DialectPostgres, cfg.GetPostgresConnectionString()
	}

	database, err := Open(dialect, dsn)
	if err != nil {
		return nil, err
	}

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	database.SetConnMaxLifetime(maxLifetime)
	database.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	database.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if dialect == DialectSQLite {
		// SQLite allows a single writer; serialise through one connection.
		database.SetMaxOpenConns(1)
	}

	return database, nil
}

// Open connects to dsn using the driver registered for dialect.
func Open(dialect Dialect, dsn string) (*Database, error) {
	driver, ok := driverNames[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &Database{DB: conn, Dialect: dialect}, nil
}

// Builder returns a squirrel statement builder using the dialect's placeholders.
func (d *Database) Builder() squirrel.StatementBuilderType {
	if d.Dialect == DialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or the pool when there is none.
func (d *Database) Conn(ctx context.Context) Queryer {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return d.DB
}

// TransactionFn is a function that executes within a transaction. Repository calls
// made with the ctx it receives run inside that transaction.
type TransactionFn func(ctx context.Context) error

// WithTransaction runs a function within a transaction. A call nested inside an
// existing transaction joins it.
func (d *Database) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
