package skill

import (
	"context"
	"strings"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/validate"
)

// CreateIssueRequest holds the typed fields of a new issue. CustomFields
// is passed through untouched for site-specific customfield_* ids.
type CreateIssueRequest struct {
	Project     string `validate:"required"`
	IssueType   string `validate:"required"`
	Summary     string `validate:"required,max=255"`
	Description string
	Priority    string
	Assignee    string
	Labels      []string
	Components  []string
	ParentKey   string `validate:"omitempty,issuekey"`
	EpicKey     string `validate:"omitempty,issuekey"`

	EpicLinkField string
	CustomFields  map[string]any
}

// CreatedIssueResult identifies the new issue.
type CreatedIssueResult struct {
	Key string `json:"key" yaml:"key"`
	ID  string `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// CreateIssue builds the fields payload from req and creates the issue.
// baseURL is used to build the browse link.
func CreateIssue(ctx context.Context, c IssueCreator, baseURL string, req CreateIssueRequest) (*CreatedIssueResult, error) {
	req.Summary = strings.TrimSpace(req.Summary)
	req.ParentKey = strings.ToUpper(strings.TrimSpace(req.ParentKey))
	req.EpicKey = strings.ToUpper(strings.TrimSpace(req.EpicKey))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	project, err := validate.ProjectKey(req.Project)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(req.CustomFields)+8)
	for k, v := range req.CustomFields {
		if !strings.HasPrefix(k, "customfield_") {
			return nil, domain.NewValidationError("custom field %q must be a customfield_* id", k)
		}
		fields[k] = v
	}

	fields["project"] = map[string]string{"key": project}
	fields["issuetype"] = map[string]string{"name": req.IssueType}
	fields["summary"] = req.Summary
	if req.Description != "" {
		fields["description"] = jira.TextToADF(req.Description)
	}
	if req.Priority != "" {
		fields["priority"] = map[string]string{"name": req.Priority}
	}
	if req.Assignee != "" {
		fields["assignee"] = map[string]string{"accountId": req.Assignee}
	}
	if len(req.Labels) > 0 {
		fields["labels"] = req.Labels
	}
	if len(req.Components) > 0 {
		comps := make([]map[string]string, 0, len(req.Components))
		for _, name := range req.Components {
			comps = append(comps, map[string]string{"name": name})
		}
		fields["components"] = comps
	}
	if req.ParentKey != "" {
		fields["parent"] = map[string]string{"key": req.ParentKey}
	}
	if req.EpicKey != "" {
		field := req.EpicLinkField
		if field == "" {
			field = model.DefaultEpicLinkField
		}
		fields[field] = req.EpicKey
	}

	created, err := c.CreateIssue(ctx, fields)
	if err != nil {
		return nil, err
	}
	return &CreatedIssueResult{
		Key: created.Key,
		ID:  created.ID,
		URL: strings.TrimRight(baseURL, "/") + "/browse/" + created.Key,
	}, nil
}
