// Package sqlite provides a SQLite-backed implementation of the training run
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
)

// Adapter implements the run repository port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.RunRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// Every pooled connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

const runColumns = `id, model, params, row_count, cv_accuracy, test_accuracy, artifact_path, created_at`

func (a *Adapter) GetByID(ctx context.Context, id string) (domain.TrainingRun, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM training_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TrainingRun{}, domain.ErrNotFound
		}
		return domain.TrainingRun{}, fmt.Errorf("failed to load training run: %w", err)
	}
	return run, nil
}

// Save inserts the run, assigning an ID and timestamp when they are unset.
// Saving an existing ID replaces the stored record.
func (a *Adapter) Save(ctx context.Context, run domain.TrainingRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to encode run params: %w", err)
	}

	query := `
		INSERT INTO training_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			model=excluded.model,
			params=excluded.params,
			row_count=excluded.row_count,
			cv_accuracy=excluded.cv_accuracy,
			test_accuracy=excluded.test_accuracy,
			artifact_path=excluded.artifact_path,
			created_at=excluded.created_at;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		run.ID,
		run.Model,
		string(params),
		run.Rows,
		run.CVAccuracy,
		run.TestAccuracy,
		run.ArtifactPath,
		run.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("failed to save training run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first. A non-positive limit returns all.
func (a *Adapter) List(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM training_runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.TrainingRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (domain.TrainingRun, error) {
	var (
		run      domain.TrainingRun
		params   string
		artifact sql.NullString
	)
	if err := s.Scan(
		&run.ID,
		&run.Model,
		&params,
		&run.Rows,
		&run.CVAccuracy,
		&run.TestAccuracy,
		&artifact,
		&run.CreatedAt,
	); err != nil {
		return domain.TrainingRun{}, err
	}
	if err := json.Unmarshal([]byte(params), &run.Params); err != nil {
		return domain.TrainingRun{}, fmt.Errorf("failed to decode params of run %s: %w", run.ID, err)
	}
	if artifact.Valid {
		run.ArtifactPath = artifact.String
	}
	return run, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS training_runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		params TEXT NOT NULL DEFAULT '{}',
		row_count INTEGER NOT NULL DEFAULT 0,
		cv_accuracy REAL,
		test_accuracy REAL,
		artifact_path TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_training_runs_created_at ON training_runs (created_at);
	`
	_, err := a.db.Exec(query)
	return err
}
