// Package pipeline is the run engine for the batch operations: ingest of
// one scraped CSV, the full re-tag rebuild with table swap, and the
// unresolved-city review sweep. A run is an ordered list of steps executed
// sequentially; each step commits its own storage work, so a crash leaves
// completed stages durable and the re-run path idempotent.
package pipeline

import (
	"context"
	"log/slog"

	"datastats/internal/errors"
	"datastats/internal/infrastructure"
)

// Step is one sequential unit of a pipeline run.
type Step struct {
	ID      string
	Execute func(ctx context.Context) error
}

// Runner executes a run's steps in order, stopping at the first failure.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner logging through the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the steps sequentially under a fresh run ID. The run ID is
// injected into the context so every log line of the run carries it.
func (r *Runner) Run(ctx context.Context, operation string, steps []Step) (*RunState, error) {
	run := NewRunState(operation)
	ctx = infrastructure.WithRunID(ctx, run.ID)

	run.start()
	r.logger.InfoContext(ctx, "run started",
		slog.String("operation", operation),
		slog.Int("steps", len(steps)))

	for _, step := range steps {
		state := newStepState(step.ID)
		run.addStep(state)
		state.start()

		r.logger.InfoContext(ctx, "step started", slog.String("step", step.ID))

		if err := step.Execute(ctx); err != nil {
			state.fail(err)
			run.fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID),
				slog.String("error", err.Error()))
			return run, errors.NewPipelineError("run failed", err).
				WithContext("operation", operation).
				WithContext("step", step.ID)
		}

		state.complete()
		r.logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID),
			slog.Duration("duration", state.Duration()))
	}

	run.complete()
	r.logger.InfoContext(ctx, "run completed",
		slog.String("operation", operation),
		slog.Duration("duration", run.Duration()))
	return run, nil
}
