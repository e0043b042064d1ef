// Package state records script runs in a SQLite database.
//
// Each batch run of a script gets one row in the runs table: created as
// running before evaluation starts, then completed or failed. The schema is
// managed by embedded goose migrations.
package state

import (
	"context"
	"errors"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded execution of a script.
type Run struct {
	ID          string
	Script      string
	SourceHash  string
	Status      RunStatus
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// ErrRunNotFound is returned when completing a run id that does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store persists run history.
type Store interface {
	CreateRun(ctx context.Context, script string, source []byte) (*Run, error)
	CompleteRun(ctx context.Context, id string, status RunStatus, errMsg string) error
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
