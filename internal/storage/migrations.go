package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS snapshots (
					id TEXT PRIMARY KEY,
					created_at DATETIME NOT NULL,
					last_updated DATETIME NOT NULL,
					revision INTEGER NOT NULL DEFAULT 1,
					risk_tier TEXT NOT NULL,
					confidence_tier TEXT NOT NULL,
					coverage_months REAL NOT NULL,
					minimum_balance TEXT NOT NULL,
					runway_periods INTEGER NOT NULL,
					alert_count INTEGER NOT NULL,
					payload BLOB NOT NULL
				)`,
				`CREATE INDEX idx_snapshots_created_at ON snapshots(created_at)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute %q: %w", q[:40], err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Interpretive report column",
		Up: func(tx *sql.Tx) error {
			// The report lives outside the payload blob so attaching or
			// refining text never rewrites computed results.
			if _, err := tx.Exec(`ALTER TABLE snapshots ADD COLUMN report TEXT`); err != nil {
				return fmt.Errorf("failed to add report column: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SnapshotStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && int64(m.Version) <= current.Int64 {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	// Verify we're at the expected schema version
	var final sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&final); err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if !final.Valid || final.Int64 != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final.Int64)
	}

	return nil
}
