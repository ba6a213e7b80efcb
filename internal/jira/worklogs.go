package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/jira-skills/internal/model"
)

// Estimate adjustment modes accepted by the worklog endpoint.
const (
	AdjustAuto   = "auto"
	AdjustLeave  = "leave"
	AdjustNew    = "new"
	AdjustManual = "manual"
)

// WorklogRequest describes a new worklog.
type WorklogRequest struct {
	TimeSpent string
	// Started is already formatted in Jira's timestamp layout.
	Started string
	Comment string

	AdjustEstimate string
	// NewEstimate is required with AdjustNew.
	NewEstimate string
	// ReduceBy is required with AdjustManual.
	ReduceBy string
}

// AddWorklog logs time on an issue.
func (c *Client) AddWorklog(ctx context.Context, key string, req WorklogRequest) (*model.Worklog, error) {
	q := url.Values{}
	if req.AdjustEstimate != "" {
		q.Set("adjustEstimate", req.AdjustEstimate)
	}
	if req.NewEstimate != "" {
		q.Set("newEstimate", req.NewEstimate)
	}
	if req.ReduceBy != "" {
		q.Set("reduceBy", req.ReduceBy)
	}

	path := fmt.Sprintf("/rest/api/3/issue/%s/worklog", url.PathEscape(key))
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	body := Worklog{
		TimeSpent: req.TimeSpent,
		Started:   req.Started,
		Comment:   TextToADF(req.Comment),
	}

	var created Worklog
	if err := c.Post(ctx, path, body, &created); err != nil {
		return nil, fmt.Errorf("adding worklog to %s: %w", key, err)
	}

	out := &model.Worklog{
		ID:               created.ID,
		IssueKey:         key,
		TimeSpent:        created.TimeSpent,
		TimeSpentSeconds: created.TimeSpentSeconds,
		Started:          parseJiraTime(created.Started),
	}
	if created.Author != nil {
		out.Author = created.Author.DisplayName
	}
	return out, nil
}

// SetTimeTracking sets the original and/or remaining estimate of an issue.
func (c *Client) SetTimeTracking(ctx context.Context, key, original, remaining string) error {
	tt := map[string]string{}
	if original != "" {
		tt["originalEstimate"] = original
	}
	if remaining != "" {
		tt["remainingEstimate"] = remaining
	}
	return c.UpdateIssue(ctx, key, map[string]any{"timetracking": tt})
}
