// Package transition picks one workflow transition out of the set an issue
// currently offers.
package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
)

// Kind selects how a Query is matched.
type Kind string

const (
	ByID   Kind = "id"
	ByName Kind = "name"
)

// Query identifies the transition a caller wants.
type Query struct {
	By    Kind
	Value string
}

// ByIDQuery matches a transition id exactly.
func ByIDQuery(id string) Query { return Query{By: ByID, Value: strings.TrimSpace(id)} }

// ByNameQuery matches a transition name, case-insensitively.
func ByNameQuery(name string) Query { return Query{By: ByName, Value: strings.TrimSpace(name)} }

// Validate reports whether the query can be resolved at all.
func (q Query) Validate() error {
	switch q.By {
	case ByID:
		if q.Value == "" {
			return domain.NewValidationError("transition id cannot be empty")
		}
		for _, r := range q.Value {
			if r < '0' || r > '9' {
				return domain.NewValidationError("transition id %q must be numeric", q.Value)
			}
		}
	case ByName:
		if q.Value == "" {
			return domain.NewValidationError("transition name cannot be empty")
		}
	default:
		return domain.NewValidationError("unknown transition query kind %q", q.By)
	}
	return nil
}

func (q Query) String() string {
	if q.By == ByID {
		return "id " + q.Value
	}
	return fmt.Sprintf("%q", q.Value)
}

// Resolution failures. A *ResolveError matches one of these and
// domain.ErrValidation.
var (
	ErrNoTransitions = errors.New("no transitions available")
	ErrNotAvailable  = errors.New("transition not available")
	ErrNotFound      = errors.New("transition not found")
	ErrAmbiguous     = errors.New("ambiguous transition")
)

// ResolveError describes a failed resolution together with the names the
// caller could have used instead.
type ResolveError struct {
	Kind    error
	Query   Query
	Options []string
}

func (e *ResolveError) Error() string {
	switch e.Kind {
	case ErrNoTransitions:
		return "no transitions available for this issue"
	case ErrAmbiguous:
		return fmt.Sprintf("transition %s is ambiguous, matches: %s", e.Query, strings.Join(e.Options, ", "))
	default:
		return fmt.Sprintf("%s: %s (available: %s)", e.Kind, e.Query, strings.Join(e.Options, ", "))
	}
}

func (e *ResolveError) Is(target error) bool {
	return target == e.Kind || target == domain.ErrValidation
}

// Resolve picks exactly one candidate for q.
//
// Ids match by string equality. Names match case-insensitively, first
// exactly and then, only when nothing matched exactly, as a substring.
// More than one match at either stage is an error; Resolve never guesses.
func Resolve(candidates []model.Transition, q Query) (model.Transition, error) {
	if err := q.Validate(); err != nil {
		return model.Transition{}, err
	}
	if len(candidates) == 0 {
		return model.Transition{}, &ResolveError{Kind: ErrNoTransitions, Query: q}
	}

	if q.By == ByID {
		var matches []model.Transition
		for _, t := range candidates {
			if t.ID == q.Value {
				matches = append(matches, t)
			}
		}
		switch len(matches) {
		case 0:
			return model.Transition{}, &ResolveError{
				Kind: ErrNotAvailable, Query: q, Options: model.TransitionNames(candidates),
			}
		case 1:
			return matches[0], nil
		default:
			return model.Transition{}, &ResolveError{
				Kind: ErrAmbiguous, Query: q, Options: model.TransitionNames(matches),
			}
		}
	}

	want := strings.ToLower(q.Value)
	exact := filter(candidates, func(name string) bool { return name == want })
	switch len(exact) {
	case 1:
		return exact[0], nil
	case 0:
	default:
		return model.Transition{}, &ResolveError{
			Kind: ErrAmbiguous, Query: q, Options: model.TransitionNames(exact),
		}
	}

	partial := filter(candidates, func(name string) bool { return strings.Contains(name, want) })
	switch len(partial) {
	case 0:
		return model.Transition{}, &ResolveError{
			Kind: ErrNotFound, Query: q, Options: model.TransitionNames(candidates),
		}
	case 1:
		return partial[0], nil
	default:
		return model.Transition{}, &ResolveError{
			Kind: ErrAmbiguous, Query: q, Options: model.TransitionNames(partial),
		}
	}
}

var resolutionKeywords = []string{"done", "resolve", "close", "complete"}

var reopenKeywords = []string{"reopen", "to do", "todo", "open", "backlog"}

// ResolveForResolution picks the transition that resolves an issue,
// preferring one named exactly "Done".
func ResolveForResolution(candidates []model.Transition) (model.Transition, error) {
	if len(candidates) == 0 {
		return model.Transition{}, &ResolveError{Kind: ErrNoTransitions, Query: ByNameQuery("done")}
	}
	matches := filter(candidates, containsAny(resolutionKeywords))
	if len(matches) == 0 {
		return model.Transition{}, &ResolveError{
			Kind: ErrNotFound, Query: ByNameQuery("done"), Options: model.TransitionNames(candidates),
		}
	}
	for _, t := range matches {
		if strings.EqualFold(t.Name, "done") {
			return t, nil
		}
	}
	return matches[0], nil
}

// ResolveForReopen picks the transition that moves an issue back to an
// open state. Order of preference: a "reopen" transition, the only match,
// a "to do" transition, then the first match.
func ResolveForReopen(candidates []model.Transition) (model.Transition, error) {
	if len(candidates) == 0 {
		return model.Transition{}, &ResolveError{Kind: ErrNoTransitions, Query: ByNameQuery("reopen")}
	}
	matches := filter(candidates, containsAny(reopenKeywords))
	if len(matches) == 0 {
		return model.Transition{}, &ResolveError{
			Kind: ErrNotFound, Query: ByNameQuery("reopen"), Options: model.TransitionNames(candidates),
		}
	}
	for _, t := range matches {
		if strings.Contains(strings.ToLower(t.Name), "reopen") {
			return t, nil
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	for _, t := range matches {
		name := strings.ToLower(t.Name)
		if strings.Contains(name, "to do") || strings.Contains(name, "todo") {
			return t, nil
		}
	}
	return matches[0], nil
}

// filter keeps candidates whose lower-cased name satisfies keep.
func filter(candidates []model.Transition, keep func(name string) bool) []model.Transition {
	var out []model.Transition
	for _, t := range candidates {
		if keep(strings.ToLower(t.Name)) {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(keywords []string) func(string) bool {
	return func(name string) bool {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return true
			}
		}
		return false
	}
}
