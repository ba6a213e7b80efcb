package skill

import (
	"context"
	"fmt"

	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/transition"
	"github.com/nhle/jira-skills/internal/validate"
)

// DefaultResolution is used by Resolve when none is given.
const DefaultResolution = "Fixed"

// TransitionRequest moves an issue through its workflow.
type TransitionRequest struct {
	Key        string
	Query      transition.Query
	Resolution string
	Comment    string
	// Fields holds extra fields the transition screen requires.
	Fields map[string]any
}

// TransitionResult reports which transition was performed.
type TransitionResult struct {
	Key            string `json:"key" yaml:"key"`
	TransitionID   string `json:"transition_id" yaml:"transition_id"`
	TransitionName string `json:"transition" yaml:"transition"`
	TargetStatus   string `json:"target_status,omitempty" yaml:"target_status,omitempty"`
	Resolution     string `json:"resolution,omitempty" yaml:"resolution,omitempty"`
}

// Transition resolves req.Query against the transitions the issue offers
// right now and performs the one it selects.
func Transition(ctx context.Context, c TransitionClient, req TransitionRequest) (*TransitionResult, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	if err := req.Query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := c.GetTransitions(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := transition.Resolve(candidates, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return perform(ctx, c, key, t, req.Resolution, req.Comment, req.Fields)
}

// ListTransitions returns the transitions currently available on an issue.
func ListTransitions(ctx context.Context, c TransitionClient, key string) ([]model.Transition, error) {
	key, err := validate.IssueKey(key)
	if err != nil {
		return nil, err
	}
	return c.GetTransitions(ctx, key)
}

// ResolveRequest resolves an issue.
type ResolveRequest struct {
	Key        string
	Resolution string
	Comment    string
}

// Resolve moves an issue to its done state with a resolution.
func Resolve(ctx context.Context, c TransitionClient, req ResolveRequest) (*TransitionResult, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	resolution := req.Resolution
	if resolution == "" {
		resolution = DefaultResolution
	}

	candidates, err := c.GetTransitions(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := transition.ResolveForResolution(candidates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return perform(ctx, c, key, t, resolution, req.Comment, nil)
}

// ReopenRequest reopens a resolved issue.
type ReopenRequest struct {
	Key     string
	Comment string
}

// Reopen moves a resolved issue back to an open state.
func Reopen(ctx context.Context, c TransitionClient, req ReopenRequest) (*TransitionResult, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	candidates, err := c.GetTransitions(ctx, key)
	if err != nil {
		return nil, err
	}
	t, err := transition.ResolveForReopen(candidates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return perform(ctx, c, key, t, "", req.Comment, nil)
}

func perform(
	ctx context.Context,
	c TransitionClient,
	key string,
	t model.Transition,
	resolution string,
	comment string,
	fields map[string]any,
) (*TransitionResult, error) {
	err := c.DoTransition(ctx, key, t.ID, jira.TransitionOptions{
		Resolution: resolution,
		Comment:    comment,
		Fields:     fields,
	})
	if err != nil {
		return nil, fmt.Errorf("transitioning %s via %q: %w", key, t.Name, err)
	}
	return &TransitionResult{
		Key:            key,
		TransitionID:   t.ID,
		TransitionName: t.Name,
		TargetStatus:   t.TargetStatusName,
		Resolution:     resolution,
	}, nil
}
