// Package bulk drives one operation across a batch of issues, isolating
// per-item business failures from the rest of the batch.
package bulk

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nhle/jira-skills/internal/domain"
)

// Status is the result recorded for one target.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is the result for one target. Reason is empty on success.
type Outcome struct {
	Target string `json:"target" yaml:"target"`
	Status Status `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Failure identifies a target that failed and why.
type Failure struct {
	Target string `json:"target" yaml:"target"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary aggregates a batch. Live runs fill the counters and Outcomes; dry
// runs fill WouldProcess, Preview and WouldSkip and leave the counters at zero.
type Summary struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Total     int       `json:"total" yaml:"total"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
	Failures  []Failure `json:"failures" yaml:"failures"`
	Outcomes  []Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`

	DryRun       bool     `json:"dry_run" yaml:"dry_run"`
	WouldProcess int      `json:"would_process,omitempty" yaml:"would_process,omitempty"`
	Preview      []string `json:"preview,omitempty" yaml:"preview,omitempty"`
	WouldSkip    []string `json:"would_skip,omitempty" yaml:"would_skip,omitempty"`
}

// Consistent reports whether the counters add up. A summary returned with
// an abort error covers only the targets processed before the abort, so
// it compares against len(Outcomes) rather than Total.
func (s *Summary) Consistent() bool {
	if s.DryRun {
		return s.Succeeded == 0 && s.Failed == 0 && s.Skipped == 0 &&
			s.WouldProcess == s.Total &&
			len(s.Preview)+len(s.WouldSkip) == s.Total
	}
	if s.Succeeded+s.Failed+s.Skipped != len(s.Outcomes) || s.Failed != len(s.Failures) {
		return false
	}
	return len(s.Outcomes) <= s.Total
}

// Complete reports whether every target has an outcome.
func (s *Summary) Complete() bool {
	return s.DryRun || len(s.Outcomes) == s.Total
}

// Operation performs the mutation for one target. Errors that satisfy
// domain.IsBusiness mark the target failed; any other error aborts the run.
type Operation func(ctx context.Context, target string) error

// ExistenceCheck reports whether the work for target has already been done.
type ExistenceCheck func(ctx context.Context, target string) (bool, error)

// ProgressFunc is called after each target with the running count.
type ProgressFunc func(done, total int, outcome Outcome)

// Options tune a Run.
type Options struct {
	DryRun       bool
	SkipExisting bool
	Exists       ExistenceCheck
	Progress     ProgressFunc
	Logger       *slog.Logger
}

// Run applies op to every target in order.
//
// Business errors from op or Exists are recorded as failures and the run
// continues. Any other error, including context cancellation, stops the
// run; the summary of the targets processed so far is returned alongside
// the wrapped error.
func Run(ctx context.Context, targets []string, op Operation, opts Options) (*Summary, error) {
	if len(targets) == 0 {
		return nil, domain.NewValidationError("no targets to process")
	}
	if op == nil {
		return nil, domain.NewValidationError("no operation supplied")
	}
	if opts.SkipExisting && opts.Exists == nil {
		return nil, domain.NewValidationError("skip existing requires an existence check")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sum := &Summary{
		RunID:    uuid.NewString(),
		Total:    len(targets),
		Failures: []Failure{},
		DryRun:   opts.DryRun,
	}
	logger = logger.With("run_id", sum.RunID)

	if opts.DryRun {
		return sum, preview(ctx, targets, sum, opts, logger)
	}

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("bulk run aborted at %s (%d/%d): %w", target, i, len(targets), err)
		}

		outcome, err := process(ctx, target, op, opts)
		if err != nil {
			logger.Error("bulk run aborted", "target", target, "error", err)
			return sum, fmt.Errorf("bulk run aborted at %s (%d/%d): %w", target, i, len(targets), err)
		}

		sum.record(outcome)
		if outcome.Status == StatusFailed {
			logger.Warn("bulk item failed", "target", target, "reason", outcome.Reason)
		} else {
			logger.Debug("bulk item done", "target", target, "status", outcome.Status)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(targets), outcome)
		}
	}

	return sum, nil
}

// process handles one target and returns an error only when the run must stop.
func process(ctx context.Context, target string, op Operation, opts Options) (Outcome, error) {
	if opts.SkipExisting {
		exists, err := opts.Exists(ctx, target)
		if err != nil {
			if !domain.IsBusiness(err) {
				return Outcome{}, err
			}
			return Outcome{Target: target, Status: StatusFailed, Reason: err.Error()}, nil
		}
		if exists {
			return Outcome{Target: target, Status: StatusSkipped, Reason: "already exists"}, nil
		}
	}

	if err := op(ctx, target); err != nil {
		if !domain.IsBusiness(err) {
			return Outcome{}, err
		}
		return Outcome{Target: target, Status: StatusFailed, Reason: err.Error()}, nil
	}
	return Outcome{Target: target, Status: StatusSucceeded}, nil
}

// preview fills a dry-run summary. Only the existence check is called.
func preview(ctx context.Context, targets []string, sum *Summary, opts Options, logger *slog.Logger) error {
	sum.WouldProcess = len(targets)
	sum.Preview = make([]string, 0, len(targets))
	for _, target := range targets {
		if !opts.SkipExisting {
			sum.Preview = append(sum.Preview, target)
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dry run aborted at %s: %w", target, err)
		}
		exists, err := opts.Exists(ctx, target)
		if err != nil && !domain.IsBusiness(err) {
			return fmt.Errorf("dry run aborted at %s: %w", target, err)
		}
		if err == nil && exists {
			sum.WouldSkip = append(sum.WouldSkip, target)
			continue
		}
		if err != nil {
			logger.Debug("existence check failed during dry run", "target", target, "error", err)
		}
		sum.Preview = append(sum.Preview, target)
	}
	return nil
}

func (s *Summary) record(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{Target: o.Target, Reason: o.Reason})
	}
}
