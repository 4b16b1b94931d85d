package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/mjscene/internal/ir"
	"github.com/roach88/mjscene/internal/mjcf"
)

// ErrRunNotFound is returned when a run id or scene has no record.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit bounds ListRuns when the caller passes no limit.
const DefaultListLimit = 50

// Run is one recorded compile: the inputs that produced a document and
// the hashes that pin the result.
type Run struct {
	ID            string `json:"id"`
	SceneName     string `json:"scene_name"`
	SpecHash      string `json:"spec_hash"`
	Seed          int64  `json:"seed"`
	DocumentHash  string `json:"document_hash"`
	DocumentSize  int    `json:"document_size"`
	InstanceCount int    `json:"instance_count"`
	AssetCount    int    `json:"asset_count"`
	IRVersion     string `json:"ir_version"`
	CreatedAt     string `json:"created_at"`
}

// NewRun builds the record for one finished compile. The id is a fresh
// UUID; created_at is wall-clock UTC and never participates in
// determinism checks.
func NewRun(spec *ir.SceneSpec, seed int64, doc []byte, stats mjcf.Stats) (Run, error) {
	specHash, err := ir.SpecHash(spec)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	return Run{
		ID:            uuid.NewString(),
		SceneName:     spec.Name,
		SpecHash:      specHash,
		Seed:          seed,
		DocumentHash:  ir.DocumentHash(doc),
		DocumentSize:  len(doc),
		InstanceCount: stats.InstanceCount,
		AssetCount:    stats.AssetCount,
		IRVersion:     ir.Version,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compile_runs
		(id, scene_name, spec_hash, seed, document_hash, document_size, instance_count, asset_count, ir_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.SceneName,
		run.SpecHash,
		run.Seed,
		run.DocumentHash,
		run.DocumentSize,
		run.InstanceCount,
		run.AssetCount,
		run.IRVersion,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// GetRun retrieves a single run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scene_name, spec_hash, seed, document_hash, document_size, instance_count, asset_count, ir_version, created_at
		FROM compile_runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns recorded runs, newest first with id as tiebreaker.
// sceneName filters when non-empty; limit <= 0 applies DefaultListLimit.
//
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) ListRuns(ctx context.Context, sceneName string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, scene_name, spec_hash, seed, document_hash, document_size, instance_count, asset_count, ir_version, created_at
		FROM compile_runs
	`
	args := []any{}
	if sceneName != "" {
		query += " WHERE scene_name = ?"
		args = append(args, sceneName)
	}
	query += " ORDER BY created_at DESC, id ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []Run{}
	}
	return runs, nil
}

// LatestRun returns the most recent run for a scene.
func (s *Store) LatestRun(ctx context.Context, sceneName string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scene_name, spec_hash, seed, document_hash, document_size, instance_count, asset_count, ir_version, created_at
		FROM compile_runs
		WHERE scene_name = ?
		ORDER BY created_at DESC, id ASC
		LIMIT 1
	`, sceneName)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("scene %s: %w", sceneName, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	err := s.Scan(
		&run.ID,
		&run.SceneName,
		&run.SpecHash,
		&run.Seed,
		&run.DocumentHash,
		&run.DocumentSize,
		&run.InstanceCount,
		&run.AssetCount,
		&run.IRVersion,
		&run.CreatedAt,
	)
	return run, err
}
