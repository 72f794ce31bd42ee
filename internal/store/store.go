// Package store persists verification runs and their results.
package store

import (
	"context"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// Store defines the persistence interface for the verification pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, candidates int) (*model.VerificationRun, error)
	CompleteRun(ctx context.Context, runID string, passed int) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*model.VerificationRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.VerificationRun, error)

	// Results
	SaveVerified(ctx context.Context, runID string, verified []model.VerifiedCandidate) error
	ListVerified(ctx context.Context, runID string) ([]model.VerifiedCandidate, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
