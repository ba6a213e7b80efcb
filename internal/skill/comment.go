package skill

import (
	"context"
	"strings"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/validate"
)

// CommentRequest adds a comment, optionally restricted to a project role
// or a group.
type CommentRequest struct {
	Key             string
	Body            string
	VisibilityRole  string
	VisibilityGroup string
}

// CommentResult identifies the created comment.
type CommentResult struct {
	Key        string `json:"key" yaml:"key"`
	CommentID  string `json:"comment_id" yaml:"comment_id"`
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// AddComment posts req.Body as an ADF comment.
func AddComment(ctx context.Context, c CommentClient, req CommentRequest) (*CommentResult, error) {
	key, err := validate.IssueKey(req.Key)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, domain.NewValidationError("comment body cannot be empty")
	}

	var vis *jira.Visibility
	switch {
	case req.VisibilityRole != "" && req.VisibilityGroup != "":
		return nil, domain.NewValidationError("use either a visibility role or a visibility group, not both")
	case req.VisibilityRole != "":
		vis = &jira.Visibility{Type: "role", Value: req.VisibilityRole}
	case req.VisibilityGroup != "":
		vis = &jira.Visibility{Type: "group", Value: req.VisibilityGroup}
	}

	created, err := c.AddComment(ctx, key, body, vis)
	if err != nil {
		return nil, err
	}
	res := &CommentResult{Key: key, CommentID: created.ID}
	if vis != nil {
		res.Visibility = vis.Type + ":" + vis.Value
	}
	return res, nil
}
