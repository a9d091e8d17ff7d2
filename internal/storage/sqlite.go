// Package storage persists analysis snapshots in SQLite. A snapshot is
// the complete, immutable payload of one analysis run; reopening one is
// a pure read and never re-executes any pipeline stage.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/castellan/tesoro/internal/common"
	"github.com/castellan/tesoro/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// snapshotIDLayout stamps snapshot IDs with nanosecond precision so
// back-to-back saves never collide.
const snapshotIDLayout = "20060102_150405.000000000"

// SnapshotStore implements snapshot persistence using SQLite.
type SnapshotStore struct {
	db     *sql.DB
	dbPath string
	// now is injectable for tests; production uses time.Now.
	now func() time.Time
}

// Snapshot is a stored analysis payload plus its persistence metadata.
// The Report field is the interpretive layer's text; it lives beside the
// payload and never inside it.
type Snapshot struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	LastUpdated time.Time     `json:"last_updated"`
	Revision    int           `json:"revision"`
	Report      string        `json:"report,omitempty"`
	Payload     model.Payload `json:"payload"`
}

// SnapshotSummary is one history-listing entry.
type SnapshotSummary struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Revision       int       `json:"revision"`
	RiskTier       string    `json:"risk_tier"`
	ConfidenceTier string    `json:"confidence_tier"`
	CoverageMonths float64   `json:"coverage_months"`
	MinimumBalance string    `json:"minimum_balance"`
	RunwayPeriods  int       `json:"runway_periods"`
	AlertCount     int       `json:"alert_count"`
}

// NewSnapshotStore opens (or creates) the snapshot database.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SnapshotStore{db: db, dbPath: dbPath, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot persists a freshly computed payload and returns the
// stored snapshot. The payload is serialized once; it is never rewritten.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, payload *model.Payload) (*Snapshot, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload cannot be nil")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	now := s.now().UTC()
	snap := &Snapshot{
		ID:          now.Format(snapshotIDLayout),
		CreatedAt:   now,
		LastUpdated: now,
		Revision:    1,
		Payload:     *payload,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (
			id, created_at, last_updated, revision,
			risk_tier, confidence_tier, coverage_months,
			minimum_balance, runway_periods, alert_count, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.CreatedAt, snap.LastUpdated, snap.Revision,
		string(payload.KPIs.RiskTier), string(payload.Quality.ConfidenceTier),
		payload.Quality.CoverageMonths, payload.KPIs.MinimumBalance.String(),
		payload.KPIs.RunwayPeriods, len(payload.Alerts), data)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snap, nil
}

// GetSnapshot reopens a stored analysis. This is a pure read: the
// payload comes back exactly as computed, no stage re-executes.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, last_updated, revision, COALESCE(report, ''), payload
		FROM snapshots WHERE id = ?`, id)

	var snap Snapshot
	var data []byte
	err := row.Scan(&snap.ID, &snap.CreatedAt, &snap.LastUpdated, &snap.Revision, &snap.Report, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %s: %w", id, common.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}

	if err := json.Unmarshal(data, &snap.Payload); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}

	return &snap, nil
}

// ListSnapshots returns history entries, newest first.
func (s *SnapshotStore) ListSnapshots(ctx context.Context) ([]SnapshotSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, revision, risk_tier, confidence_tier,
		       coverage_months, minimum_balance, runway_periods, alert_count
		FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []SnapshotSummary
	for rows.Next() {
		var sum SnapshotSummary
		if err := rows.Scan(&sum.ID, &sum.CreatedAt, &sum.Revision, &sum.RiskTier,
			&sum.ConfidenceTier, &sum.CoverageMonths, &sum.MinimumBalance,
			&sum.RunwayPeriods, &sum.AlertCount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return summaries, nil
}

// AttachReport stores or replaces the interpretive text for a snapshot,
// bumping the revision. The payload column is deliberately not touched:
// later refinement of interpretive text may never alter computed fields.
func (s *SnapshotStore) AttachReport(ctx context.Context, id, report string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE snapshots
		SET report = ?, revision = revision + 1, last_updated = ?
		WHERE id = ?`,
		report, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to attach report to %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm report attach: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("snapshot %s: %w", id, common.ErrSnapshotNotFound)
	}

	return nil
}
