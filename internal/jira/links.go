package jira

import (
	"context"
	"fmt"

	"github.com/nhle/jira-skills/internal/model"
)

// GetIssueLinks returns the links of an issue as seen from that issue.
func (c *Client) GetIssueLinks(ctx context.Context, key string) ([]model.Link, error) {
	issue, err := c.GetRawIssue(ctx, key, "issuelinks")
	if err != nil {
		return nil, err
	}
	return toModelLinks(issue.Fields.IssueLinks), nil
}

func toModelLinks(links []IssueLink) []model.Link {
	out := make([]model.Link, 0, len(links))
	for _, l := range links {
		ml := model.Link{ID: l.ID, Type: l.Type.Name}
		switch {
		case l.OutwardIssue != nil:
			ml.Direction = model.LinkOutward
			ml.Description = l.Type.Outward
			ml.OtherKey = l.OutwardIssue.Key
		case l.InwardIssue != nil:
			ml.Direction = model.LinkInward
			ml.Description = l.Type.Inward
			ml.OtherKey = l.InwardIssue.Key
		default:
			continue
		}
		out = append(out, ml)
	}
	return out
}

// CreateLink links inwardKey and outwardKey with the named link type. For
// "Blocks", the outward issue is the one that is blocked.
func (c *Client) CreateLink(
	ctx context.Context,
	linkType string,
	inwardKey string,
	outwardKey string,
	comment string,
) error {
	body := map[string]any{
		"type":         map[string]string{"name": linkType},
		"inwardIssue":  map[string]string{"key": inwardKey},
		"outwardIssue": map[string]string{"key": outwardKey},
	}
	if comment != "" {
		body["comment"] = map[string]any{"body": TextToADF(comment)}
	}

	if err := c.Post(ctx, "/rest/api/3/issueLink", body, nil); err != nil {
		return fmt.Errorf("linking %s to %s: %w", inwardKey, outwardKey, err)
	}
	return nil
}
