package storage

import (
	"context"
	"database/sql"
	"fmt"

	// registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

// schema is applied in order on every start; statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username   TEXT PRIMARY KEY,
		wins       INTEGER NOT NULL DEFAULT 0,
		losses     INTEGER NOT NULL DEFAULT 0,
		draws      INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS users_wins_idx ON users (wins DESC)`,
}

type Storage struct {
	Connection *sql.DB
}

// NewSQLiteStorage opens the user stats database at path in WAL mode.
func NewSQLiteStorage(path string) (*Storage, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	// sqlite serialises writers anyway
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

func (that *Storage) Init(ctx context.Context) error {
	tx, err := that.Connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("can't apply schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit schema: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	return that.Connection.Close()
}

func (that *Storage) Ping(ctx context.Context) error {
	if err := that.Connection.PingContext(ctx); err != nil {
		return fmt.Errorf("can't ping database: %w", err)
	}

	return nil
}
