package step

import (
	"context"
	"errors"
	"fmt"

	"rig/pkg/log"
	"rig/pkg/system"
)

// Runner executes steps in order. A step's failure is recorded and the
// run moves on; no error crosses a step boundary.
type Runner struct {
	Commands system.CommandRunner
	Logger   log.Logger
}

// Run executes every step and returns one Result per step, in order.
func (r *Runner) Run(ctx context.Context, steps []Step) []Result {
	results := make([]Result, 0, len(steps))
	for _, s := range steps {
		results = append(results, r.runOne(ctx, s))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, s Step) Result {
	done, err := s.Check(ctx, r.Commands)
	if err != nil {
		// A broken precondition check is not proof the work is done;
		// attempt the action and let it fail on its own terms.
		r.Logger.Warn("precondition check failed, attempting step anyway",
			"step", s.Name(), "error", err)
	} else if done {
		r.Logger.Info("already satisfied, skipping", "step", s.Name())
		return Result{Name: s.Name(), Status: StatusSkipped, Message: "already satisfied"}
	}

	r.Logger.Info(fmt.Sprintf("=> %s", s.Description()), "step", s.Name())
	if err := s.Apply(ctx, r.Commands, r.Logger); err != nil {
		if errors.Is(err, ErrToolMissing) {
			r.Logger.Warn("skipping step", "step", s.Name(), "reason", err)
			return Result{Name: s.Name(), Status: StatusSkipped, Message: err.Error()}
		}
		r.Logger.Error("step failed", "step", s.Name(), "error", err)
		return Result{Name: s.Name(), Status: StatusFailure, Message: err.Error()}
	}
	return Result{Name: s.Name(), Status: StatusSuccess}
}

// Filter returns the steps surviving the --only / --skip selections.
// Unknown names in either list produce an error so typos do not silently
// run the full sequence.
func Filter(steps []Step, only, skip []string) ([]Step, error) {
	known := make(map[string]bool, len(steps))
	for _, s := range steps {
		known[s.Name()] = true
	}
	for _, name := range append(append([]string{}, only...), skip...) {
		if !known[name] {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
	}

	onlySet := make(map[string]bool, len(only))
	for _, name := range only {
		onlySet[name] = true
	}
	skipSet := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipSet[name] = true
	}

	var out []Step
	for _, s := range steps {
		if len(onlySet) > 0 && !onlySet[s.Name()] {
			continue
		}
		if skipSet[s.Name()] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
