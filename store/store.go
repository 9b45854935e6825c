// Package store provides a SQLite catalog of generated process
// instances. Bundles on disk stay the interchange format; the catalog
// indexes what a generation run produced so runs can be listed and
// instances queried by their grid parameters without decompressing
// every bundle.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-cpi/bundle"
	"github.com/pflow-xyz/go-cpi/cpi"
)

// Store handles SQLite database operations for the instance catalog.
type Store struct {
	db *sql.DB
}

// Run records one grid-generation run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Seed      int64
	Instances int
}

// InstanceRecord is one cataloged instance: its grid metadata, a few
// derived structural counts, and the instance JSON itself.
type InstanceRecord struct {
	ID          int64
	RunID       string
	Metadata    bundle.Metadata
	TaskCount   int
	NodeCount   int
	ChoiceCount int
	NatureCount int
	Data        []byte
}

// Open opens (and if needed creates) a catalog at the given path.
// Use ":memory:" for an in-memory catalog.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		seed INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS instances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL,
		num_impacts INTEGER NOT NULL,
		choice_distribution REAL NOT NULL,
		generation_mode TEXT NOT NULL,
		duration_min INTEGER NOT NULL,
		duration_max INTEGER NOT NULL,
		task_count INTEGER NOT NULL,
		node_count INTEGER NOT NULL,
		choice_count INTEGER NOT NULL,
		nature_count INTEGER NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_instances_run ON instances(run_id);
	CREATE INDEX IF NOT EXISTS idx_instances_cell ON instances(x, y, z);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateRun registers a new generation run and returns its ID.
func (s *Store) CreateRun(seed int64) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`INSERT INTO runs (id, created_at, seed) VALUES (?, ?, ?)`,
		id, time.Now().UTC(), seed)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// SaveInstance catalogs one generated instance under a run.
func (s *Store) SaveInstance(runID string, inst *bundle.Instance) (int64, error) {
	data, err := json.Marshal(inst)
	if err != nil {
		return 0, fmt.Errorf("encode instance: %w", err)
	}

	m := inst.Metadata
	res, err := s.db.Exec(`
		INSERT INTO instances (
			run_id, x, y, z, num_impacts, choice_distribution,
			generation_mode, duration_min, duration_max,
			task_count, node_count, choice_count, nature_count, data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, m.X, m.Y, m.Z, m.NumImpacts, m.ChoiceDistribution,
		m.GenerationMode, m.DurationInterval[0], m.DurationInterval[1],
		inst.Process.CountKind(cpi.KindTask),
		inst.Process.Count(),
		inst.Process.CountKind(cpi.KindChoice),
		inst.Process.CountKind(cpi.KindNature),
		string(data))
	if err != nil {
		return 0, fmt.Errorf("save instance: %w", err)
	}
	return res.LastInsertId()
}

// Run returns a single run by ID.
func (s *Store) Run(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT r.id, r.created_at, r.seed, COUNT(i.id)
		FROM runs r LEFT JOIN instances i ON i.run_id = r.id
		WHERE r.id = ?
		GROUP BY r.id`, id)

	var run Run
	if err := row.Scan(&run.ID, &run.CreatedAt, &run.Seed, &run.Instances); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, fmt.Errorf("load run: %w", err)
	}
	return &run, nil
}

// ListRuns returns all runs, newest first, with instance counts.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.created_at, r.seed, COUNT(i.id)
		FROM runs r LEFT JOIN instances i ON i.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Seed, &run.Instances); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Instances returns the cataloged instances of a run, in insertion
// order.
func (s *Store) Instances(runID string) ([]InstanceRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, x, y, z, num_impacts, choice_distribution,
		       generation_mode, duration_min, duration_max,
		       task_count, node_count, choice_count, nature_count, data
		FROM instances WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var records []InstanceRecord
	for rows.Next() {
		var rec InstanceRecord
		var data string
		if err := rows.Scan(&rec.ID, &rec.RunID,
			&rec.Metadata.X, &rec.Metadata.Y, &rec.Metadata.Z,
			&rec.Metadata.NumImpacts, &rec.Metadata.ChoiceDistribution,
			&rec.Metadata.GenerationMode,
			&rec.Metadata.DurationInterval[0], &rec.Metadata.DurationInterval[1],
			&rec.TaskCount, &rec.NodeCount, &rec.ChoiceCount, &rec.NatureCount,
			&data); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		rec.Data = []byte(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByMode returns how many instances of a run were generated
// under each vector generation mode.
func (s *Store) CountByMode(runID string) (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT generation_mode, COUNT(*)
		FROM instances WHERE run_id = ?
		GROUP BY generation_mode`, runID)
	if err != nil {
		return nil, fmt.Errorf("count by mode: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[mode] = count
	}
	return counts, rows.Err()
}

// Instance decodes a cataloged instance record back into its bundle
// form.
func (rec *InstanceRecord) Instance() (*bundle.Instance, error) {
	var inst bundle.Instance
	if err := json.Unmarshal(rec.Data, &inst); err != nil {
		return nil, fmt.Errorf("decode instance %d: %w", rec.ID, err)
	}
	return &inst, nil
}
