package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/nhle/jira-skills/internal/domain"
)

// ErrorResponse is the standard Jira error response format.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// APIError is a non-2xx response from Jira. It unwraps to the domain
// sentinel matching its status so callers can tell per-item business
// errors from systemic ones.
type APIError struct {
	Method      string
	Path        string
	StatusCode  int
	Messages    []string
	FieldErrors map[string]string
	Body        string
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
	}
	var jiraErr ErrorResponse
	if json.Unmarshal(body, &jiraErr) == nil &&
		(len(jiraErr.ErrorMessages) > 0 || len(jiraErr.Errors) > 0) {
		e.Messages = jiraErr.ErrorMessages
		e.FieldErrors = jiraErr.Errors
	} else {
		e.Body = strings.TrimSpace(string(body))
	}
	return e
}

func (e *APIError) Error() string {
	var details []string
	details = append(details, e.Messages...)
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		details = append(details, k+": "+e.FieldErrors[k])
	}
	if len(details) == 0 && e.Body != "" {
		details = append(details, e.Body)
	}

	msg := fmt.Sprintf("jira API error (%d) on %s %s", e.StatusCode, e.Method, e.Path)
	if e.StatusCode == http.StatusUnauthorized {
		msg = fmt.Sprintf(
			"authentication failed (401) on %s %s: check the API token and email",
			e.Method, e.Path,
		)
	}
	if len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	return msg
}

// Unwrap maps the status code onto the domain error taxonomy.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest,
		e.StatusCode == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case e.StatusCode == http.StatusUnauthorized:
		return domain.ErrAuth
	case e.StatusCode == http.StatusForbidden:
		return domain.ErrPermission
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return domain.ErrConflict
	case e.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case e.StatusCode >= 500:
		return domain.ErrServer
	default:
		return nil
	}
}
