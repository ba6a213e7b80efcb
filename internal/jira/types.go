package jira

import "encoding/json"

// SearchRequest is the body of POST /rest/api/3/search/jql.
type SearchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields,omitempty"`
	MaxResults    int      `json:"maxResults,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// SearchResponse is the response from POST /rest/api/3/search/jql.
type SearchResponse struct {
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast"`
}

// Issue represents a single Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the standard fields of a Jira issue.
type IssueFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Status      *Status         `json:"status,omitempty"`
	Priority    *Priority       `json:"priority,omitempty"`
	IssueType   *IssueType      `json:"issuetype,omitempty"`
	Assignee    *User           `json:"assignee,omitempty"`
	Reporter    *User           `json:"reporter,omitempty"`
	Project     *Project        `json:"project,omitempty"`
	Parent      *IssueRef       `json:"parent,omitempty"`
	Subtasks    []IssueRef      `json:"subtasks,omitempty"`
	Components  []Component     `json:"components,omitempty"`
	IssueLinks  []IssueLink     `json:"issuelinks,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
	DueDate     string          `json:"duedate,omitempty"`
}

// Status represents the status of a Jira issue.
type Status struct {
	Name           string         `json:"name"`
	ID             string         `json:"id"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

// StatusCategory is the broad category a status belongs to.
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Priority represents the priority level of a Jira issue.
type Priority struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// IssueType represents the type of a Jira issue (Bug, Story, etc.).
type IssueType struct {
	Name    string `json:"name"`
	ID      string `json:"id,omitempty"`
	Subtask bool   `json:"subtask,omitempty"`
}

// User represents a Jira user.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// Component is a project component.
type Component struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// IssueRef is a reference to another issue, as embedded in links,
// subtasks and parents.
type IssueRef struct {
	ID     string         `json:"id,omitempty"`
	Key    string         `json:"key"`
	Fields *IssueRefField `json:"fields,omitempty"`
}

// IssueRefField is the summary data Jira embeds in an IssueRef.
type IssueRefField struct {
	Summary string  `json:"summary"`
	Status  *Status `json:"status,omitempty"`
}

// Transition represents a possible status transition for a Jira issue.
type Transition struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	To   TransitionTo `json:"to"`
}

// TransitionTo describes the target status of a transition.
type TransitionTo struct {
	Name           string         `json:"name"`
	ID             string         `json:"id"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

// TransitionsResponse wraps the list of transitions returned by the API.
type TransitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// LinkType describes an issue link type.
type LinkType struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// IssueLink is a link as embedded in an issue's issuelinks field. Exactly
// one of InwardIssue and OutwardIssue is set.
type IssueLink struct {
	ID           string    `json:"id"`
	Type         LinkType  `json:"type"`
	InwardIssue  *IssueRef `json:"inwardIssue,omitempty"`
	OutwardIssue *IssueRef `json:"outwardIssue,omitempty"`
}

// Comment represents a single comment on a Jira issue.
type Comment struct {
	ID         string          `json:"id,omitempty"`
	Body       json.RawMessage `json:"body"`
	Author     *User           `json:"author,omitempty"`
	Created    string          `json:"created,omitempty"`
	Updated    string          `json:"updated,omitempty"`
	Visibility *Visibility     `json:"visibility,omitempty"`
}

// Visibility restricts a comment to a project role or a group.
type Visibility struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Worklog is a single worklog entry.
type Worklog struct {
	ID               string          `json:"id,omitempty"`
	IssueID          string          `json:"issueId,omitempty"`
	Author           *User           `json:"author,omitempty"`
	Comment          json.RawMessage `json:"comment,omitempty"`
	Started          string          `json:"started,omitempty"`
	TimeSpent        string          `json:"timeSpent,omitempty"`
	TimeSpentSeconds int             `json:"timeSpentSeconds,omitempty"`
}

// CreatedIssue is the response from POST /rest/api/3/issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Myself is the response from GET /rest/api/3/myself.
type Myself struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}
