package skill

import (
	"context"

	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
)

// fakeClient implements every client interface with optional function
// fields. Unset functions succeed with zero values.
type fakeClient struct {
	getTransitionsFn  func(ctx context.Context, key string) ([]model.Transition, error)
	doTransitionFn    func(ctx context.Context, key, id string, opts jira.TransitionOptions) error
	getIssueFn        func(ctx context.Context, key string) (*model.Issue, error)
	updateIssueFn     func(ctx context.Context, key string, fields map[string]any) error
	addCommentFn      func(ctx context.Context, key, body string, vis *jira.Visibility) (*jira.Comment, error)
	setTimeTrackingFn func(ctx context.Context, key, original, remaining string) error
	createIssueFn     func(ctx context.Context, fields map[string]any) (*jira.CreatedIssue, error)

	updates map[string]map[string]any
}

func (f *fakeClient) GetTransitions(ctx context.Context, key string) ([]model.Transition, error) {
	if f.getTransitionsFn == nil {
		return nil, nil
	}
	return f.getTransitionsFn(ctx, key)
}

func (f *fakeClient) DoTransition(ctx context.Context, key, id string, opts jira.TransitionOptions) error {
	if f.doTransitionFn == nil {
		return nil
	}
	return f.doTransitionFn(ctx, key, id, opts)
}

func (f *fakeClient) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	if f.getIssueFn == nil {
		return &model.Issue{Key: key}, nil
	}
	return f.getIssueFn(ctx, key)
}

func (f *fakeClient) UpdateIssue(ctx context.Context, key string, fields map[string]any) error {
	if f.updates == nil {
		f.updates = map[string]map[string]any{}
	}
	f.updates[key] = fields
	if f.updateIssueFn == nil {
		return nil
	}
	return f.updateIssueFn(ctx, key, fields)
}

func (f *fakeClient) AddComment(ctx context.Context, key, body string, vis *jira.Visibility) (*jira.Comment, error) {
	if f.addCommentFn == nil {
		return &jira.Comment{ID: "1"}, nil
	}
	return f.addCommentFn(ctx, key, body, vis)
}

func (f *fakeClient) SetTimeTracking(ctx context.Context, key, original, remaining string) error {
	if f.setTimeTrackingFn == nil {
		return nil
	}
	return f.setTimeTrackingFn(ctx, key, original, remaining)
}

func (f *fakeClient) CreateIssue(ctx context.Context, fields map[string]any) (*jira.CreatedIssue, error) {
	if f.createIssueFn == nil {
		return &jira.CreatedIssue{ID: "10000", Key: "PROJ-1"}, nil
	}
	return f.createIssueFn(ctx, fields)
}
