package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/poledger/invoice-match/constants"
)

// Recorder is the batch-history surface the processor depends on. A nil
// Recorder disables history entirely.
type Recorder interface {
	StartRun(ctx context.Context, folder, ledgerSource, output string) (uuid.UUID, error)
	FinishRun(ctx context.Context, runID uuid.UUID, processed, matched, failed int) error
	StartJob(ctx context.Context, runID uuid.UUID, file string) (uuid.UUID, error)
	FinishJobSuccess(ctx context.Context, jobID uuid.UUID, method, invoiceNumber string, matched bool) error
	FinishJobFailure(ctx context.Context, jobID uuid.UUID, message string) error
}

// Store persists batch runs and per-file jobs in a local SQLite database so
// past batches stay auditable. It never influences the output table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS batch_run (
	id           TEXT PRIMARY KEY,
	folder       TEXT NOT NULL,
	ledger_src   TEXT NOT NULL,
	output       TEXT NOT NULL,
	processed    INTEGER,
	matched      INTEGER,
	failed       INTEGER,
	started_at   TEXT NOT NULL,
	finished_at  TEXT
);
CREATE TABLE IF NOT EXISTS file_job (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES batch_run(id),
	file           TEXT NOT NULL,
	status         TEXT NOT NULL,
	method         TEXT,
	invoice_number TEXT,
	matched        INTEGER,
	error          TEXT,
	started_at     TEXT NOT NULL,
	finished_at    TEXT
);
`

// Open opens (creating if needed) the history database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StartRun(ctx context.Context, folder, ledgerSource, output string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batch_run (id, folder, ledger_src, output, started_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), folder, ledgerSource, output, now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("start run: %w", err)
	}
	s.logger.Debug("history run started", "run_id", id)
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, processed, matched, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE batch_run SET processed = ?, matched = ?, failed = ?, finished_at = ? WHERE id = ?`,
		processed, matched, failed, now(), runID.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (s *Store) StartJob(ctx context.Context, runID uuid.UUID, file string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_job (id, run_id, file, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), runID.String(), file, string(constants.JobStatusRunning), now())
	if err != nil {
		return uuid.Nil, fmt.Errorf("start job: %w", err)
	}
	return id, nil
}

func (s *Store) FinishJobSuccess(ctx context.Context, jobID uuid.UUID, method, invoiceNumber string, matched bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE file_job SET status = ?, method = ?, invoice_number = ?, matched = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusDone), method, invoiceNumber, boolToInt(matched), now(), jobID.String())
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

func (s *Store) FinishJobFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE file_job SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), message, now(), jobID.String())
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// RunCount returns the number of recorded batch runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batch_run`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// JobStatuses returns file -> status for every job in a run.
func (s *Store) JobStatuses(ctx context.Context, runID uuid.UUID) (map[string]constants.JobStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, status FROM file_job WHERE run_id = ?`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]constants.JobStatus)
	for rows.Next() {
		var file, status string
		if err := rows.Scan(&file, &status); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out[file] = constants.JobStatus(status)
	}
	return out, rows.Err()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
