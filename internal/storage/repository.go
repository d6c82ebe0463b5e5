package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

const snapshotKey = "budget"

// SnapshotStore persists the budget as a single keyed JSON blob in
// SQLite: load once at startup, save after every settled mutation.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the persisted budget. A missing row or an unreadable blob
// falls back to the seed defaults without error.
func (s *SnapshotStore) Load(ctx context.Context) (*core.Budget, int64, error) {
	var (
		payload  string
		revision int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, revision FROM budget_snapshots WHERE key = ?`,
		snapshotKey).Scan(&payload, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultBudget(), 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}

	b, err := DecodeSnapshot([]byte(payload))
	if err != nil {
		slog.WarnContext(ctx, "Stored snapshot unreadable, starting from defaults",
			"error", err)
		return core.DefaultBudget(), 0, nil
	}
	return b, revision, nil
}

// Save upserts the current budget and its revision.
func (s *SnapshotStore) Save(ctx context.Context, b *core.Budget, revision int64) error {
	payload, err := EncodeSnapshot(b)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budget_snapshots (key, payload, revision, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		   payload = excluded.payload,
		   revision = excluded.revision,
		   updated_at = CURRENT_TIMESTAMP`,
		snapshotKey, string(payload), revision)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Budget snapshot saved",
		"revision", revision,
		"payload_bytes", len(payload))
	return nil
}
