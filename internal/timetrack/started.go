package timetrack

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/nhle/jira-skills/internal/domain"
)

// JiraTimeLayout is the timestamp layout the worklog API expects.
const JiraTimeLayout = "2006-01-02T15:04:05.000-0700"

var absoluteLayouts = []string{
	JiraTimeLayout,
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// dateLikeRe matches input that starts like an ISO date. Such input must
// parse with one of absoluteLayouts.
var dateLikeRe = regexp.MustCompile(`^\d{4}-\d`)

var naturalParser = newNaturalParser()

func newNaturalParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseStarted resolves a worklog start time relative to now. It accepts
// Jira timestamps, RFC 3339, plain dates (taken as 09:00 local) and natural
// language such as "yesterday" or "last friday 2pm". Empty input means now.
func ParseStarted(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}

	for _, layout := range absoluteLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(9 * time.Hour)
		}
		return t, nil
	}

	if dateLikeRe.MatchString(s) {
		return time.Time{}, domain.NewValidationError(
			"invalid start time %q: use YYYY-MM-DD, YYYY-MM-DD HH:MM or an ISO 8601 timestamp", s,
		)
	}

	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	switch s {
	case "now":
		return now, nil
	case "today":
		return atNine(now), nil
	case "yesterday":
		return atNine(now.AddDate(0, 0, -1)), nil
	}

	r, err := naturalParser.Parse(s, now)
	if err != nil {
		return time.Time{}, domain.NewValidationError("cannot parse start time %q: %v", s, err)
	}
	if r == nil || !coversInput(s, r) {
		return time.Time{}, domain.NewValidationError(
			"cannot parse start time %q: use an ISO date, 'yesterday', or e.g. 'last monday 9am'", s,
		)
	}
	return r.Time, nil
}

// FormatStarted renders t in JiraTimeLayout.
func FormatStarted(t time.Time) string {
	return t.Format(JiraTimeLayout)
}

// coversInput reports whether the natural-language match spans all of s.
// Matched text may carry a separator on either side.
func coversInput(s string, r *when.Result) bool {
	end := r.Index + len(r.Text)
	if r.Index < 0 || end > len(s) {
		return false
	}
	return strings.TrimSpace(s[:r.Index]) == "" && strings.TrimSpace(s[end:]) == ""
}

func atNine(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 9, 0, 0, 0, t.Location())
}
