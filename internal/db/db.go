package db

import (
	"context"
	"database/sql"

	"holdex/internal/config"
	"holdex/internal/errors"
	"holdex/internal/logger"

	_ "github.com/lib/pq"
)

// DB represents the database connection
type DB struct {
	Conn      *sql.DB
	Config    *config.Config
	Snowflake *Snowflake
	Logger    logger.Logger
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config, snowflake *Snowflake, log logger.Logger) (*DB, error) {
	conn, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	// Verify the connection works
	if err := conn.Ping(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	log.Info("Connected to database",
		logger.String("host", cfg.Database.Host),
		logger.String("name", cfg.Database.Name))
	return &DB{Conn: conn, Config: cfg, Snowflake: snowflake, Logger: log}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.Conn != nil {
		if err := db.Conn.Close(); err != nil {
			return errors.NewDatabaseError(err)
		}
	}
	return nil
}

// BeginTx starts a database transaction
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return tx, nil
}

// ExecuteQueryContext executes a query with context and parameters and returns the result
func (db *DB) ExecuteQueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return rows, nil
}

// ExecuteStatementContext executes a statement with context and parameters
func (db *DB) ExecuteStatementContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return result, nil
}

// GenerateID returns a new snowflake row ID
func (db *DB) GenerateID() (int64, error) {
	id, err := db.Snowflake.GenerateID()
	if err != nil {
		return 0, errors.NewDatabaseError(err)
	}
	return id, nil
}
