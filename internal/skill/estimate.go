package skill

import (
	"context"
	"math"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/timetrack"
	"github.com/nhle/jira-skills/internal/validate"
)

// FibonacciPoints are the story point values accepted with Fibonacci
// validation on.
var FibonacciPoints = []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 89}

// EstimateRequest sets story points on many issues. Zero points clears the
// estimate.
type EstimateRequest struct {
	Keys             []string
	Points           float64
	Fibonacci        bool
	StoryPointsField string
	BulkOptions
}

// Estimate writes story points to every issue.
func Estimate(ctx context.Context, c IssueUpdater, req EstimateRequest) (*bulk.Summary, error) {
	if req.Points < 0 || math.IsNaN(req.Points) || math.IsInf(req.Points, 0) {
		return nil, domain.NewValidationError("story points must be zero or positive, got %v", req.Points)
	}
	if req.Fibonacci && req.Points != 0 && !isFibonacci(req.Points) {
		return nil, domain.NewValidationError(
			"%v is not a Fibonacci value (allowed: 1, 2, 3, 5, 8, 13, 21, 34, 55, 89)", req.Points,
		)
	}
	keys, err := validate.IssueKeys(req.Keys)
	if err != nil {
		return nil, err
	}

	field := req.StoryPointsField
	if field == "" {
		field = model.DefaultStoryPointsField
	}
	var value any = req.Points
	if req.Points == 0 {
		value = nil
	}

	update := func(ctx context.Context, key string) error {
		return c.UpdateIssue(ctx, key, map[string]any{field: value})
	}
	return bulk.Run(ctx, keys, update, req.runOptions())
}

func isFibonacci(p float64) bool {
	for _, f := range FibonacciPoints {
		if p == f {
			return true
		}
	}
	return false
}

// TimeEstimateRequest sets the original and/or remaining estimate.
type TimeEstimateRequest struct {
	Key       string
	Original  string
	Remaining string
}

// TimeEstimateResult echoes the normalised estimates that were set.
type TimeEstimateResult struct {
	Key       string `json:"key" yaml:"key"`
	Original  string `json:"original_estimate,omitempty" yaml:"original_estimate,omitempty"`
	Remaining string `json:"remaining_estimate,omitempty" yaml:"remaining_estimate,omitempty"`
}

// SetTimeEstimate updates the time tracking estimates of one issue.
func SetTimeEstimate(ctx context.Context, c TimeTrackingClient, req TimeEstimateRequest) (*TimeEstimateResult, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	if req.Original == "" && req.Remaining == "" {
		return nil, domain.NewValidationError("at least one of original or remaining estimate is required")
	}

	res := &TimeEstimateResult{Key: key}
	if req.Original != "" {
		if res.Original, err = timetrack.ValidateDuration(req.Original); err != nil {
			return nil, err
		}
	}
	if req.Remaining != "" {
		if res.Remaining, err = timetrack.ValidateDuration(req.Remaining); err != nil {
			return nil, err
		}
	}

	if err := c.SetTimeTracking(ctx, key, res.Original, res.Remaining); err != nil {
		return nil, err
	}
	return res, nil
}
