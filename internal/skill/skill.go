// Package skill implements the Jira operations exposed as CLI commands.
//
// Every skill receives its Jira handle explicitly as a small interface,
// which *jira.Client satisfies, plus a typed request. Bulk skills drive
// their per-issue mutation through bulk.Run.
package skill

import (
	"context"
	"log/slog"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
)

// TransitionClient lists and performs workflow transitions.
type TransitionClient interface {
	GetTransitions(ctx context.Context, key string) ([]model.Transition, error)
	DoTransition(ctx context.Context, key, transitionID string, opts jira.TransitionOptions) error
}

// LinkClient reads and creates issue links.
type LinkClient interface {
	GetIssueLinks(ctx context.Context, key string) ([]model.Link, error)
	CreateLink(ctx context.Context, linkType, inwardKey, outwardKey, comment string) error
}

// IssueReader fetches a single issue.
type IssueReader interface {
	GetIssue(ctx context.Context, key string) (*model.Issue, error)
}

// IssueUpdater sets fields on an issue.
type IssueUpdater interface {
	UpdateIssue(ctx context.Context, key string, fields map[string]any) error
}

// IssueCreator creates issues from a fields map.
type IssueCreator interface {
	CreateIssue(ctx context.Context, fields map[string]any) (*jira.CreatedIssue, error)
}

// CloneClient is what cloning needs: the raw source issue, issue creation
// and link creation.
type CloneClient interface {
	GetRawIssue(ctx context.Context, key string, fields ...string) (*jira.Issue, error)
	IssueCreator
	CreateLink(ctx context.Context, linkType, inwardKey, outwardKey, comment string) error
}

// WorklogClient adds worklogs.
type WorklogClient interface {
	AddWorklog(ctx context.Context, key string, req jira.WorklogRequest) (*model.Worklog, error)
}

// EpicClient reads the epic and updates member issues.
type EpicClient interface {
	IssueReader
	IssueUpdater
}

// CommentClient posts comments.
type CommentClient interface {
	AddComment(ctx context.Context, key, body string, visibility *jira.Visibility) (*jira.Comment, error)
}

// TimeTrackingClient sets original and remaining estimates.
type TimeTrackingClient interface {
	SetTimeTracking(ctx context.Context, key, original, remaining string) error
}

// BulkOptions are the knobs every bulk skill shares.
type BulkOptions struct {
	DryRun   bool
	Progress bulk.ProgressFunc
	Logger   *slog.Logger
}

func (o BulkOptions) runOptions() bulk.Options {
	return bulk.Options{
		DryRun:   o.DryRun,
		Progress: o.Progress,
		Logger:   o.Logger,
	}
}
