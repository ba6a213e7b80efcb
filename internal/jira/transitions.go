package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nhle/jira-skills/internal/model"
)

// TransitionOptions are the optional extras of a transition request.
type TransitionOptions struct {
	// Resolution sets the resolution field by name (e.g., "Fixed").
	Resolution string

	// Comment is added as an ADF comment in the same request.
	Comment string

	// Fields are extra screen fields to set during the transition.
	Fields map[string]any
}

// GetTransitions returns the transitions currently available on an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]model.Transition, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(key))

	var resp TransitionsResponse
	if err := c.Get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching transitions for %s: %w", key, err)
	}

	out := make([]model.Transition, 0, len(resp.Transitions))
	for _, t := range resp.Transitions {
		out = append(out, model.Transition{
			ID:               t.ID,
			Name:             t.Name,
			TargetStatusName: t.To.Name,
		})
	}
	return out, nil
}

// DoTransition performs a status transition on an issue.
func (c *Client) DoTransition(
	ctx context.Context,
	key string,
	transitionID string,
	opts TransitionOptions,
) error {
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", url.PathEscape(key))

	payload := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}

	fields := make(map[string]any, len(opts.Fields)+1)
	for k, v := range opts.Fields {
		fields[k] = v
	}
	if opts.Resolution != "" {
		fields["resolution"] = map[string]string{"name": opts.Resolution}
	}
	if len(fields) > 0 {
		payload["fields"] = fields
	}
	if opts.Comment != "" {
		payload["update"] = map[string]any{
			"comment": []any{
				map[string]any{"add": map[string]any{"body": TextToADF(opts.Comment)}},
			},
		}
	}

	// Transition endpoint returns 204 No Content on success.
	if err := c.Post(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("transitioning %s: %w", key, err)
	}
	return nil
}
