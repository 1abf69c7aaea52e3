// Package step defines the provisioning step model: a named unit of
// work guarded by a read-only precondition, executed by a sequential
// runner that isolates failures per step.
package step

import (
	"context"
	"errors"

	"rig/pkg/log"
	"rig/pkg/system"
)

// ErrToolMissing marks a step failure caused by a required external
// tool being absent from PATH. The runner records these as Skipped
// rather than Failure.
var ErrToolMissing = errors.New("required tool not found")

// Step represents a single, idempotent unit of provisioning work.
type Step interface {
	// Name returns the short identifier used in logs and step selection.
	Name() string
	// Description returns a human-readable string of what the step does.
	Description() string
	// Check is the precondition: it inspects host state without mutating
	// it and returns true when the step's work is already done.
	Check(ctx context.Context, runner system.CommandRunner) (bool, error)
	// Apply executes the step's action.
	Apply(ctx context.Context, runner system.CommandRunner, logger log.Logger) error
	// ExecutionDetails returns the low-level operations for dry runs.
	ExecutionDetails() []string
}

// Status classifies the outcome of one step.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Result is the per-step outcome returned by the runner so callers and
// tests can assert on a run without parsing log output.
type Result struct {
	Name    string
	Status  Status
	Message string
}

// Failed reports whether any step in the run ended in Failure.
func Failed(results []Result) bool {
	for _, res := range results {
		if res.Status == StatusFailure {
			return true
		}
	}
	return false
}
