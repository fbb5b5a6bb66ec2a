package runs

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/compliance-monitor/pkg/models/domain"
	"github.com/de-tools/compliance-monitor/pkg/store/duckdb"
)

const defaultLimit = 50

// Store persists the history of monitor runs.
type Store interface {
	SaveRun(ctx context.Context, run domain.Run) error
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

type runStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &runStore{
		db: db,
	}, nil
}

// SaveRun inserts the run or replaces the row with the same id.
func (s *runStore) SaveRun(ctx context.Context, run domain.Run) error {
	query := `
		INSERT OR REPLACE INTO compliance_runs (
			id, trigger, status, started_at, finished_at, compliant, error
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}
	var runErr sql.NullString
	if run.Error != nil {
		runErr = sql.NullString{String: *run.Error, Valid: true}
	}

	_, err := duckdb.QuerierFrom(ctx, s.db).ExecContext(ctx, query,
		run.ID,
		run.Trigger,
		string(run.Status),
		run.StartedAt.UTC(),
		finishedAt,
		run.Compliant,
		runErr,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, trigger, status, started_at, finished_at, compliant, error
		FROM compliance_runs
		ORDER BY started_at DESC
		LIMIT ?`

	rows, err := duckdb.QuerierFrom(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Run, 0)
	for rows.Next() {
		var (
			run        domain.Run
			status     string
			finishedAt sql.NullTime
			runErr     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Trigger, &status, &run.StartedAt, &finishedAt, &run.Compliant, &runErr); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Status = domain.RunStatus(status)
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time
		}
		if runErr.Valid {
			msg := runErr.String
			run.Error = &msg
		}
		res = append(res, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return res, nil
}
