package skill

import (
	"context"
	"fmt"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/validate"
)

// CloneLinkType is the link type Jira uses between a clone and its source.
const CloneLinkType = "Cloners"

// DefaultClonePrefix is prepended to cloned summaries.
const DefaultClonePrefix = "[Clone of %s] "

var cloneFields = []string{
	"summary", "description", "issuetype", "priority", "labels",
	"components", "project", "issuelinks", "subtasks",
}

// CloneOptions control what a clone carries over.
type CloneOptions struct {
	// TargetProject moves the clone to another project.
	TargetProject string
	// SummaryPrefix is a format string taking the source key. Empty uses
	// DefaultClonePrefix; use NoPrefix to keep the summary as is.
	SummaryPrefix   string
	NoPrefix        bool
	NoCloneLink     bool
	IncludeLinks    bool
	IncludeSubtasks bool
}

// CloneResult describes one finished clone.
type CloneResult struct {
	OriginalKey    string   `json:"original_key" yaml:"original_key"`
	CloneKey       string   `json:"clone_key" yaml:"clone_key"`
	Project        string   `json:"project" yaml:"project"`
	LinksCopied    int      `json:"links_copied" yaml:"links_copied"`
	SubtasksCloned []string `json:"subtasks_cloned,omitempty" yaml:"subtasks_cloned,omitempty"`
}

// Clone copies one issue.
//
// Core fields are copied into a new issue, optionally in another project.
// Unless disabled, the clone is linked back to the source with a Cloners
// link. Links of the source and its subtasks are copied on request.
func Clone(ctx context.Context, c CloneClient, key string, opts CloneOptions) (*CloneResult, error) {
	key, err := validate.IssueKey(key)
	if err != nil {
		return nil, err
	}
	if opts.TargetProject != "" {
		if opts.TargetProject, err = validate.ProjectKey(opts.TargetProject); err != nil {
			return nil, err
		}
	}

	src, err := c.GetRawIssue(ctx, key, cloneFields...)
	if err != nil {
		return nil, err
	}

	project := opts.TargetProject
	if project == "" && src.Fields.Project != nil {
		project = src.Fields.Project.Key
	}
	fields := cloneFieldMap(src.Fields, project, cloneSummary(src.Fields.Summary, key, opts))

	created, err := c.CreateIssue(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("cloning %s: %w", key, err)
	}
	res := &CloneResult{OriginalKey: key, CloneKey: created.Key, Project: project}

	if !opts.NoCloneLink {
		if err := c.CreateLink(ctx, CloneLinkType, created.Key, key, ""); err != nil {
			return res, fmt.Errorf("linking clone %s to %s: %w", created.Key, key, err)
		}
	}

	if opts.IncludeLinks {
		for _, l := range src.Fields.IssueLinks {
			var inward, outward string
			switch {
			case l.OutwardIssue != nil:
				inward, outward = created.Key, l.OutwardIssue.Key
			case l.InwardIssue != nil:
				inward, outward = l.InwardIssue.Key, created.Key
			default:
				continue
			}
			if err := c.CreateLink(ctx, l.Type.Name, inward, outward, ""); err != nil {
				return res, fmt.Errorf("copying %s link of %s: %w", l.Type.Name, key, err)
			}
			res.LinksCopied++
		}
	}

	if opts.IncludeSubtasks {
		for _, st := range src.Fields.Subtasks {
			sub, err := c.GetRawIssue(ctx, st.Key, cloneFields...)
			if err != nil {
				return res, err
			}
			subFields := cloneFieldMap(sub.Fields, project, sub.Fields.Summary)
			subFields["parent"] = map[string]string{"key": created.Key}
			subCreated, err := c.CreateIssue(ctx, subFields)
			if err != nil {
				return res, fmt.Errorf("cloning subtask %s: %w", st.Key, err)
			}
			res.SubtasksCloned = append(res.SubtasksCloned, subCreated.Key)
		}
	}

	return res, nil
}

// BulkCloneRequest clones many issues with the same options.
type BulkCloneRequest struct {
	Keys []string
	CloneOptions
	BulkOptions
}

// BulkCloneResult pairs the batch summary with each clone created.
type BulkCloneResult struct {
	Summary *bulk.Summary `json:"summary" yaml:"summary"`
	Clones  []CloneResult `json:"clones" yaml:"clones"`
}

// BulkClone clones every key through the aggregator.
func BulkClone(ctx context.Context, c CloneClient, req BulkCloneRequest) (*BulkCloneResult, error) {
	keys, err := validate.IssueKeys(req.Keys)
	if err != nil {
		return nil, err
	}

	out := &BulkCloneResult{Clones: []CloneResult{}}
	clone := func(ctx context.Context, key string) error {
		res, err := Clone(ctx, c, key, req.CloneOptions)
		if res != nil {
			out.Clones = append(out.Clones, *res)
		}
		return err
	}

	sum, err := bulk.Run(ctx, keys, clone, req.runOptions())
	out.Summary = sum
	return out, err
}

func cloneSummary(summary, key string, opts CloneOptions) string {
	if opts.NoPrefix {
		return summary
	}
	prefix := opts.SummaryPrefix
	if prefix == "" {
		prefix = DefaultClonePrefix
	}
	return fmt.Sprintf(prefix, key) + summary
}

func cloneFieldMap(f jira.IssueFields, project, summary string) map[string]any {
	fields := map[string]any{
		"project": map[string]string{"key": project},
		"summary": summary,
	}
	if f.IssueType != nil {
		fields["issuetype"] = map[string]string{"name": f.IssueType.Name}
	}
	if len(f.Description) > 0 && string(f.Description) != "null" {
		fields["description"] = f.Description
	}
	if f.Priority != nil {
		fields["priority"] = map[string]string{"name": f.Priority.Name}
	}
	if len(f.Labels) > 0 {
		fields["labels"] = f.Labels
	}
	if len(f.Components) > 0 {
		comps := make([]map[string]string, 0, len(f.Components))
		for _, comp := range f.Components {
			comps = append(comps, map[string]string{"name": comp.Name})
		}
		fields["components"] = comps
	}
	return fields
}
