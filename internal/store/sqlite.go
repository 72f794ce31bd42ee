package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS verification_runs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'running',
	candidates INTEGER NOT NULL DEFAULT 0,
	passed     INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS verified_candidates (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES verification_runs(id),
	code        TEXT NOT NULL,
	name        TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	fused_score REAL NOT NULL,
	payload     TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_verification_runs_status ON verification_runs(status);
CREATE INDEX IF NOT EXISTS idx_verified_candidates_run_id ON verified_candidates(run_id);
CREATE INDEX IF NOT EXISTS idx_verified_candidates_code ON verified_candidates(code);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, candidates int) (*model.VerificationRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_runs (id, status, candidates, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), candidates, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.VerificationRun{
		ID:         id,
		Status:     model.RunStatusRunning,
		Candidates: candidates,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, passed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE verification_runs SET status = ?, passed = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusComplete), passed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE verification_runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(model.RunStatusFailed), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.VerificationRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, candidates, passed, created_at, updated_at FROM verification_runs WHERE id = ?`,
		runID,
	)
	var run model.VerificationRun
	var status string
	if err := row.Scan(&run.ID, &status, &run.Candidates, &run.Passed, &run.CreatedAt, &run.UpdatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(err, "sqlite: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	run.Status = model.RunStatus(status)
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.VerificationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, candidates, passed, created_at, updated_at
		 FROM verification_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.VerificationRun
	for rows.Next() {
		var run model.VerificationRun
		var status string
		if err := rows.Scan(&run.ID, &status, &run.Candidates, &run.Passed, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		run.Status = model.RunStatus(status)
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) SaveVerified(ctx context.Context, runID string, verified []model.VerifiedCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	for _, vc := range verified {
		payload, err := json.Marshal(vc)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal verified %s", vc.Code)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO verified_candidates (id, run_id, code, name, passed, fused_score, payload, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, vc.Code, vc.Name, boolToInt(vc.Passed), vc.FusedScore, string(payload), now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert verified %s", vc.Code)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit verified")
}

func (s *SQLiteStore) ListVerified(ctx context.Context, runID string) ([]model.VerifiedCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM verified_candidates WHERE run_id = ? ORDER BY fused_score DESC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list verified %s", runID)
	}
	defer rows.Close()

	var verified []model.VerifiedCandidate
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan verified")
		}
		var vc model.VerifiedCandidate
		if err := json.Unmarshal([]byte(payload), &vc); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal verified")
		}
		verified = append(verified, vc)
	}
	return verified, eris.Wrap(rows.Err(), "sqlite: iterate verified")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s %s not found", entity, id)
	}
	return nil
}
