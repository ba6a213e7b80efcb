package skill

import (
	"context"
	"fmt"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/validate"
)

// EpicRequest adds issues to an epic, or removes them from whatever epic
// they belong to when Remove is set.
type EpicRequest struct {
	EpicKey string
	Keys    []string
	Remove  bool
	// EpicLinkField is the custom field id holding the epic link.
	EpicLinkField string
	BulkOptions
}

// AddToEpic sets the epic link field on each issue. The epic itself is
// checked once up front: it must exist and be of type Epic.
func AddToEpic(ctx context.Context, c EpicClient, req EpicRequest) (*bulk.Summary, error) {
	field := req.EpicLinkField
	if field == "" {
		field = model.DefaultEpicLinkField
	}
	keys, err := validate.IssueKeys(req.Keys)
	if err != nil {
		return nil, err
	}

	var value any
	if !req.Remove {
		epicKey, err := validate.IssueKey(req.EpicKey)
		if err != nil {
			return nil, err
		}
		epic, err := c.GetIssue(ctx, epicKey)
		if err != nil {
			return nil, fmt.Errorf("epic %s: %w", epicKey, err)
		}
		if !epic.IsEpic() {
			return nil, domain.NewValidationError("%s is not an epic (type: %s)", epicKey, epic.IssueType)
		}
		for _, k := range keys {
			if k == epicKey {
				return nil, domain.NewValidationError("cannot add epic %s to itself", k)
			}
		}
		value = epicKey
	}

	update := func(ctx context.Context, key string) error {
		return c.UpdateIssue(ctx, key, map[string]any{field: value})
	}
	return bulk.Run(ctx, keys, update, req.runOptions())
}
