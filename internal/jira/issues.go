package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/jira-skills/internal/model"
)

// DefaultFields are requested by GetIssue when no fields are given.
var DefaultFields = []string{
	"summary", "status", "priority", "assignee", "issuetype", "project",
	"created", "updated", "labels", "parent", "subtasks",
}

// Myself verifies credentials by calling GET /rest/api/3/myself.
func (c *Client) Myself(ctx context.Context) (*Myself, error) {
	var me Myself
	if err := c.Get(ctx, "/rest/api/3/myself", &me); err != nil {
		return nil, fmt.Errorf("validating Jira connection: %w", err)
	}
	return &me, nil
}

// GetRawIssue fetches an issue with the given fields (all navigable fields
// when none are given).
func (c *Client) GetRawIssue(ctx context.Context, key string, fields ...string) (*Issue, error) {
	path := "/rest/api/3/issue/" + url.PathEscape(key)
	if len(fields) > 0 {
		path += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}

	var issue Issue
	if err := c.Get(ctx, path, &issue); err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", key, err)
	}
	return &issue, nil
}

// GetIssue fetches an issue and converts it to the model representation.
func (c *Client) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	raw, err := c.GetRawIssue(ctx, key, DefaultFields...)
	if err != nil {
		return nil, err
	}
	issue := c.toModel(*raw)
	return &issue, nil
}

// CreateIssue creates an issue from a fields map and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]any) (*CreatedIssue, error) {
	body := map[string]any{"fields": fields}

	var created CreatedIssue
	if err := c.Post(ctx, "/rest/api/3/issue", body, &created); err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}
	return &created, nil
}

// UpdateIssue sets fields on an existing issue. Jira answers 204.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	body := map[string]any{"fields": fields}
	path := "/rest/api/3/issue/" + url.PathEscape(key)
	if err := c.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating issue %s: %w", key, err)
	}
	return nil
}

// SearchKeys runs a JQL query and returns up to max issue keys in result
// order, following nextPageToken pagination.
func (c *Client) SearchKeys(ctx context.Context, jql string, max int) ([]string, error) {
	issues, err := c.Search(ctx, jql, []string{"summary"}, max)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(issues))
	for _, is := range issues {
		keys = append(keys, is.Key)
	}
	return keys, nil
}

// Search runs a JQL query and returns up to max issues.
func (c *Client) Search(ctx context.Context, jql string, fields []string, max int) ([]model.Issue, error) {
	pageSize := 100
	if max > 0 && max < pageSize {
		pageSize = max
	}

	var out []model.Issue
	req := SearchRequest{JQL: jql, Fields: fields, MaxResults: pageSize}
	for {
		var resp SearchResponse
		if err := c.Post(ctx, "/rest/api/3/search/jql", req, &resp); err != nil {
			return nil, fmt.Errorf("searching issues: %w", err)
		}
		for _, is := range resp.Issues {
			out = append(out, c.toModel(is))
			if max > 0 && len(out) >= max {
				return out, nil
			}
		}
		if resp.IsLast || resp.NextPageToken == "" || len(resp.Issues) == 0 {
			return out, nil
		}
		req.NextPageToken = resp.NextPageToken
	}
}

// toModel converts a Jira Issue to a model.Issue.
func (c *Client) toModel(issue Issue) model.Issue {
	f := issue.Fields
	out := model.Issue{
		Key:         issue.Key,
		ID:          issue.ID,
		Summary:     f.Summary,
		Description: ADFToText(f.Description),
		Labels:      f.Labels,
		URL:         c.baseURL + "/browse/" + issue.Key,
		CreatedAt:   parseJiraTime(f.Created),
		UpdatedAt:   parseJiraTime(f.Updated),
	}
	if f.Status != nil {
		out.Status = f.Status.Name
	}
	if f.IssueType != nil {
		out.IssueType = f.IssueType.Name
	}
	if f.Priority != nil {
		out.Priority = f.Priority.Name
	}
	if f.Project != nil {
		out.ProjectKey = f.Project.Key
	}
	if f.Assignee != nil {
		out.Assignee = f.Assignee.DisplayName
	}
	if f.Parent != nil {
		out.ParentKey = f.Parent.Key
	}
	for _, st := range f.Subtasks {
		out.Subtasks = append(out.Subtasks, st.Key)
	}
	return out
}

// parseJiraTime parses a Jira timestamp string. Jira uses the format
// "2006-01-02T15:04:05.000+0000".
func parseJiraTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
