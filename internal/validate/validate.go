// Package validate checks user-supplied Jira identifiers and request
// structs before anything is sent to the server.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/jira-skills/internal/domain"
)

// ProjectKeyPattern is an unanchored project key: 2-10 characters,
// starting with a letter.
const ProjectKeyPattern = `[A-Z][A-Z0-9_]{1,9}`

// IssueKeyPattern is an unanchored issue key such as PROJ-123. Text
// scanners reuse it so extracted keys always validate.
const IssueKeyPattern = ProjectKeyPattern + `-\d+`

var (
	issueKeyRe     = regexp.MustCompile(`^` + IssueKeyPattern + `$`)
	projectKeyRe   = regexp.MustCompile(`^` + ProjectKeyPattern + `$`)
	transitionIDRe = regexp.MustCompile(`^\d+$`)
	unsafeJQLRe    = regexp.MustCompile(`(?i);\s*(drop|delete|insert|update)\b|<script|javascript:`)

	v = newValidator()
)

// maxJQLLength mirrors the limit Jira Cloud applies to search requests.
const maxJQLLength = 10000

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	register := func(tag string, fn validator.Func) {
		if err := val.RegisterValidation(tag, fn); err != nil {
			panic("failed to register " + tag + " validation: " + err.Error())
		}
	}
	register("issuekey", func(fl validator.FieldLevel) bool {
		return issueKeyRe.MatchString(fl.Field().String())
	})
	register("projectkey", func(fl validator.FieldLevel) bool {
		return projectKeyRe.MatchString(fl.Field().String())
	})
	register("transitionid", func(fl validator.FieldLevel) bool {
		return transitionIDRe.MatchString(fl.Field().String())
	})
	register("jql", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s != "" && len(s) <= maxJQLLength && !unsafeJQLRe.MatchString(s)
	})
	return val
}

// IssueKey normalises key to upper case and checks it looks like PROJ-123.
func IssueKey(key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return "", domain.NewValidationError("issue key cannot be empty")
	}
	if err := v.Var(key, "issuekey"); err != nil {
		return "", domain.NewValidationError("invalid issue key %q: expected format PROJECT-123", key)
	}
	return key, nil
}

// IssueKeys normalises every key and drops duplicates, keeping the first
// occurrence.
func IssueKeys(keys []string) ([]string, error) {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		nk, err := IssueKey(k)
		if err != nil {
			return nil, err
		}
		if seen[nk] {
			continue
		}
		seen[nk] = true
		out = append(out, nk)
	}
	if len(out) == 0 {
		return nil, domain.NewValidationError("at least one issue key is required")
	}
	return out, nil
}

// ProjectKey normalises and checks a project key such as PROJ.
func ProjectKey(key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if err := v.Var(key, "projectkey"); err != nil {
		return "", domain.NewValidationError(
			"invalid project key %q: expected 2-10 characters, letters, digits or underscore, starting with a letter", key,
		)
	}
	return key, nil
}

// TransitionID checks a numeric transition id.
func TransitionID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if err := v.Var(id, "transitionid"); err != nil {
		return "", domain.NewValidationError("invalid transition id %q: must be numeric", id)
	}
	return id, nil
}

// JQL trims the query and rejects empty or oversized ones, and queries
// carrying statement separators or script payloads.
func JQL(q string) (string, error) {
	q = strings.TrimSpace(q)
	if err := v.Var(q, "jql"); err != nil {
		switch {
		case q == "":
			return "", domain.NewValidationError("JQL query cannot be empty")
		case len(q) > maxJQLLength:
			return "", domain.NewValidationError("JQL query exceeds %d characters", maxJQLLength)
		default:
			return "", domain.NewValidationError(
				"JQL query contains a disallowed pattern %q", unsafeJQLRe.FindString(q),
			)
		}
	}
	return q, nil
}

// URL checks a Jira site URL and returns it without a trailing slash.
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if err := v.Var(raw, "required,url"); err != nil {
		return "", domain.NewValidationError("invalid URL %q", raw)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", domain.NewValidationError("URL %q must use http or https", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// Struct validates s using its validate tags and reports the first
// failing field as a validation error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError("%v", err)
	}
	fe := verrs[0]
	return domain.NewValidationError("%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "issuekey":
		return fmt.Sprintf("%s: invalid issue key %q", field, fe.Value())
	case "projectkey":
		return fmt.Sprintf("%s: invalid project key %q", field, fe.Value())
	case "transitionid":
		return fmt.Sprintf("%s: transition id %q must be numeric", field, fe.Value())
	case "jql":
		return fmt.Sprintf("%s: invalid JQL query", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "required_without", "excluded_with":
		return fmt.Sprintf("%s: conflicting or missing options (%s %s)", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
