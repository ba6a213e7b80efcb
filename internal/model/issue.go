package model

import "time"

// Issue is the subset of a tracker issue the skills read and print.
type Issue struct {
	// Key is the human issue key (e.g., PROJ-123).
	Key string `json:"key" yaml:"key"`

	// ID is the tracker's numeric identifier.
	ID string `json:"id" yaml:"id"`

	Summary     string `json:"summary" yaml:"summary"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Status is the workflow status name as reported by the tracker.
	Status string `json:"status" yaml:"status"`

	IssueType  string   `json:"issue_type" yaml:"issue_type"`
	Priority   string   `json:"priority,omitempty" yaml:"priority,omitempty"`
	ProjectKey string   `json:"project" yaml:"project"`
	Assignee   string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Labels     []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// ParentKey is set for subtasks.
	ParentKey string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Subtasks lists keys of child subtasks.
	Subtasks []string `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`

	// URL is the browse link back to the tracker.
	URL string `json:"url" yaml:"url"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsEpic reports whether the issue's type is Epic.
func (i Issue) IsEpic() bool {
	return i.IssueType == "Epic"
}

// Worklog is a single time entry on an issue.
type Worklog struct {
	ID               string    `json:"id" yaml:"id"`
	IssueKey         string    `json:"issue" yaml:"issue"`
	TimeSpent        string    `json:"time_spent" yaml:"time_spent"`
	TimeSpentSeconds int       `json:"time_spent_seconds" yaml:"time_spent_seconds"`
	Started          time.Time `json:"started" yaml:"started"`
	Author           string    `json:"author,omitempty" yaml:"author,omitempty"`
}
