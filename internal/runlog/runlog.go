// Package runlog persists a record of every pipeline run so operators can
// inspect recent activity and failure kinds after the response is gone.
package runlog

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one pipeline execution.
type Run struct {
	ID           string     `json:"id"`
	Mode         string     `json:"mode"`   // "subtitle" or "podcast"
	Source       string     `json:"source"` // upload filename or URL
	Status       Status     `json:"status"`
	ErrorKind    string     `json:"errorKind,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	SegmentCount int        `json:"segmentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type Store struct {
	db *sql.DB
}

func NewSQLite(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	s := &Store{db: sqlDB}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		source TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		error_kind TEXT,
		error_message TEXT,
		segment_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		completed_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Create records the start of a run and returns its ID.
func (s *Store) Create(mode, source string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO runs (id, mode, source, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, mode, source, StatusRunning, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Complete marks a run as finished successfully.
func (s *Store) Complete(id string, segmentCount int) error {
	_, err := s.db.Exec(`
		UPDATE runs SET status = ?, segment_count = ?, completed_at = ?
		WHERE id = ?`,
		StatusCompleted, segmentCount, time.Now(), id,
	)
	return err
}

// Fail marks a run as failed with its error kind and message.
func (s *Store) Fail(id, kind, message string) error {
	_, err := s.db.Exec(`
		UPDATE runs SET status = ?, error_kind = ?, error_message = ?, completed_at = ?
		WHERE id = ?`,
		StatusFailed, kind, message, time.Now(), id,
	)
	return err
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, mode, source, status, error_kind, error_message, segment_count, created_at, completed_at
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// List returns the most recent runs, newest first.
func (s *Store) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, mode, source, status, error_kind, error_message, segment_count, created_at, completed_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	run := &Run{}
	var errKind, errMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&run.ID, &run.Mode, &run.Source, &run.Status,
		&errKind, &errMsg, &run.SegmentCount, &run.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if errKind.Valid {
		run.ErrorKind = errKind.String
	}
	if errMsg.Valid {
		run.ErrorMessage = errMsg.String
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return run, nil
}
