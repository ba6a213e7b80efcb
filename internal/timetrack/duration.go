// Package timetrack parses and formats Jira time-tracking values.
//
// Durations use Jira's default working calendar: a week is five days and
// a day is eight hours.
package timetrack

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/nhle/jira-skills/internal/domain"
)

// Seconds per unit under the default Jira calendar.
const (
	Minute = 60
	Hour   = 60 * Minute
	Day    = 8 * Hour
	Week   = 5 * Day
)

var unitSeconds = map[string]int{
	"w": Week,
	"d": Day,
	"h": Hour,
	"m": Minute,
}

// MaxDurationSeconds bounds a parsed duration so totals never overflow.
const MaxDurationSeconds = math.MaxInt32

// unitOrder is also the order FormatDuration prints.
var unitOrder = []string{"w", "d", "h", "m"}

// durationPartRe matches one component such as "2h" or "30m".
var durationPartRe = regexp.MustCompile(`^(\d+)([wdhm])$`)

// ParseDuration converts a Jira duration like "1w 2d 3h 30m" into seconds.
// Each unit may appear once, largest first. Zero totals are rejected.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, domain.NewValidationError("time value cannot be empty")
	}

	total := 0
	last := -1
	for _, part := range strings.Fields(s) {
		m := durationPartRe.FindStringSubmatch(part)
		if m == nil {
			return 0, invalidFormat(s)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, invalidFormat(s)
		}
		idx := indexOf(unitOrder, m[2])
		if idx <= last {
			return 0, invalidFormat(s)
		}
		last = idx
		size := unitSeconds[m[2]]
		if n > (MaxDurationSeconds-total)/size {
			return 0, domain.NewValidationError("time value %q is too large", s)
		}
		total += n * size
	}

	if total == 0 {
		return 0, domain.NewValidationError("time value %q must be greater than zero", s)
	}
	return total, nil
}

// ValidateDuration returns the normalised duration string, or a
// validation error when s is not a Jira duration.
func ValidateDuration(s string) (string, error) {
	if _, err := ParseDuration(s); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " "), nil
}

// FormatDuration renders seconds in Jira notation ("1d 4h"). Sub-minute
// remainders are dropped; zero renders as "0m".
func FormatDuration(seconds int) string {
	if seconds < Minute {
		return "0m"
	}
	var parts []string
	rest := seconds
	for _, u := range unitOrder {
		size := unitSeconds[u]
		if n := rest / size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u))
			rest -= n * size
		}
	}
	return strings.Join(parts, " ")
}

func invalidFormat(s string) error {
	return domain.NewValidationError(
		"invalid time format %q: use units w, d, h, m (e.g. 2h, 1d 4h, 30m)", s,
	)
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
