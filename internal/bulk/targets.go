package bulk

import (
	"context"
	"fmt"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/validate"
)

// DefaultMaxIssues caps how many issues a JQL selection may return.
const DefaultMaxIssues = 100

// Searcher returns the keys of issues matching a JQL query.
type Searcher interface {
	SearchKeys(ctx context.Context, jql string, max int) ([]string, error)
}

// Selection describes where a batch's targets come from. Exactly one of
// Keys and JQL must be set.
type Selection struct {
	Keys []string
	JQL  string
	Max  int
}

// Collect resolves sel into a normalised, de-duplicated target list.
func Collect(ctx context.Context, s Searcher, sel Selection) ([]string, error) {
	hasKeys := len(sel.Keys) > 0
	hasJQL := sel.JQL != ""
	switch {
	case hasKeys && hasJQL:
		return nil, domain.NewValidationError("specify either issue keys or a JQL query, not both")
	case !hasKeys && !hasJQL:
		return nil, domain.NewValidationError("either issue keys or a JQL query is required")
	}

	if hasKeys {
		return validate.IssueKeys(sel.Keys)
	}

	jql, err := validate.JQL(sel.JQL)
	if err != nil {
		return nil, err
	}
	max := sel.Max
	if max <= 0 {
		max = DefaultMaxIssues
	}
	keys, err := s.SearchKeys(ctx, jql, max)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", jql, err)
	}
	if len(keys) > max {
		keys = keys[:max]
	}
	if len(keys) == 0 {
		return nil, domain.NewValidationError("no issues match %q", jql)
	}
	return dedupe(keys), nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
