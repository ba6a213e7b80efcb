package skill

import (
	"context"
	"time"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/timetrack"
	"github.com/nhle/jira-skills/internal/validate"
)

// WorklogRequest logs time on one issue.
type WorklogRequest struct {
	Key       string
	TimeSpent string
	// Started accepts anything timetrack.ParseStarted does. Empty is now.
	Started        string
	Comment        string
	AdjustEstimate string
	NewEstimate    string
	ReduceBy       string
}

// AddWorklog validates the time values and logs work on one issue.
func AddWorklog(ctx context.Context, c WorklogClient, req WorklogRequest, now time.Time) (*model.Worklog, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	jr, err := worklogRequest(req, now)
	if err != nil {
		return nil, err
	}
	return c.AddWorklog(ctx, key, jr)
}

func worklogRequest(req WorklogRequest, now time.Time) (jira.WorklogRequest, error) {
	spent, err := timetrack.ValidateDuration(req.TimeSpent)
	if err != nil {
		return jira.WorklogRequest{}, err
	}
	started, err := timetrack.ParseStarted(req.Started, now)
	if err != nil {
		return jira.WorklogRequest{}, err
	}

	jr := jira.WorklogRequest{
		TimeSpent:      spent,
		Started:        timetrack.FormatStarted(started),
		Comment:        req.Comment,
		AdjustEstimate: req.AdjustEstimate,
	}
	switch req.AdjustEstimate {
	case "", jira.AdjustAuto, jira.AdjustLeave:
	case jira.AdjustNew:
		if req.NewEstimate == "" {
			return jira.WorklogRequest{}, domain.NewValidationError("a new estimate is required when adjust-estimate is new")
		}
		if jr.NewEstimate, err = timetrack.ValidateDuration(req.NewEstimate); err != nil {
			return jira.WorklogRequest{}, err
		}
	case jira.AdjustManual:
		if req.ReduceBy == "" {
			return jira.WorklogRequest{}, domain.NewValidationError("reduce-by is required when adjust-estimate is manual")
		}
		if jr.ReduceBy, err = timetrack.ValidateDuration(req.ReduceBy); err != nil {
			return jira.WorklogRequest{}, err
		}
	default:
		return jira.WorklogRequest{}, domain.NewValidationError(
			"invalid adjust-estimate %q (use auto, leave, new or manual)", req.AdjustEstimate,
		)
	}
	return jr, nil
}

// BulkLogTimeRequest logs the same amount of time on many issues.
type BulkLogTimeRequest struct {
	Keys      []string
	TimeSpent string
	Started   string
	Comment   string
	BulkOptions
}

// BulkLogTimeResult is the batch summary plus the time actually logged.
type BulkLogTimeResult struct {
	Summary         *bulk.Summary `json:"summary" yaml:"summary"`
	TimeSpent       string        `json:"time_spent" yaml:"time_spent"`
	SecondsPerIssue int           `json:"seconds_per_issue" yaml:"seconds_per_issue"`
	TotalSeconds    int           `json:"total_seconds" yaml:"total_seconds"`
	TotalFormatted  string        `json:"total_formatted" yaml:"total_formatted"`
	WouldLogSeconds int           `json:"would_log_seconds,omitempty" yaml:"would_log_seconds,omitempty"`
}

// BulkLogTime adds one worklog per issue. TotalSeconds counts only the
// worklogs that were created; a dry run reports WouldLogSeconds instead.
func BulkLogTime(ctx context.Context, c WorklogClient, req BulkLogTimeRequest, now time.Time) (*BulkLogTimeResult, error) {
	keys, err := validate.IssueKeys(req.Keys)
	if err != nil {
		return nil, err
	}
	jr, err := worklogRequest(WorklogRequest{
		TimeSpent: req.TimeSpent,
		Started:   req.Started,
		Comment:   req.Comment,
	}, now)
	if err != nil {
		return nil, err
	}
	seconds, err := timetrack.ParseDuration(jr.TimeSpent)
	if err != nil {
		return nil, err
	}

	res := &BulkLogTimeResult{TimeSpent: jr.TimeSpent, SecondsPerIssue: seconds}
	logTime := func(ctx context.Context, key string) error {
		wl, err := c.AddWorklog(ctx, key, jr)
		if err != nil {
			return err
		}
		if wl.TimeSpentSeconds > 0 {
			res.TotalSeconds += wl.TimeSpentSeconds
		} else {
			res.TotalSeconds += seconds
		}
		return nil
	}

	sum, err := bulk.Run(ctx, keys, logTime, req.runOptions())
	res.Summary = sum
	if sum != nil && sum.DryRun {
		res.WouldLogSeconds = seconds * sum.WouldProcess
	}
	res.TotalFormatted = timetrack.FormatDuration(res.TotalSeconds)
	return res, err
}
