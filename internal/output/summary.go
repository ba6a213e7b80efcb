package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/theme"
)

// WriteSummary renders a bulk summary for humans. Failures are listed one
// per line so each can be acted on.
func WriteSummary(w io.Writer, title string, s *bulk.Summary) error {
	if s.DryRun {
		return writePreview(w, title, s)
	}

	fmt.Fprintln(w, theme.Render(theme.HeaderStyle, title))
	fmt.Fprintf(w, "%s, %s, %s (total %d)\n",
		theme.Render(theme.SuccessStyle, fmt.Sprintf("%d succeeded", s.Succeeded)),
		theme.Render(theme.FailureStyle, fmt.Sprintf("%d failed", s.Failed)),
		theme.Render(theme.SkippedStyle, fmt.Sprintf("%d skipped", s.Skipped)),
		s.Total,
	)
	if !s.Complete() {
		fmt.Fprintf(w, "%s\n", theme.Render(theme.FailureStyle,
			fmt.Sprintf("aborted after %d of %d issues", len(s.Outcomes), s.Total)))
	}

	if len(s.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Render(theme.FailureStyle, "Failures:"))
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  %s: %s\n", theme.Render(theme.KeyStyle, f.Target), f.Reason)
		}
	}
	return nil
}

func writePreview(w io.Writer, title string, s *bulk.Summary) error {
	fmt.Fprintf(w, "%s %s\n", theme.Render(theme.HeaderStyle, title), theme.Render(theme.HelpStyle, "(dry run)"))
	fmt.Fprintf(w, "Would process %d issue(s)\n", s.WouldProcess)
	if len(s.Preview) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(s.Preview, ", "))
	}
	if len(s.WouldSkip) > 0 {
		fmt.Fprintf(w, "Would skip %d already done: %s\n", len(s.WouldSkip), strings.Join(s.WouldSkip, ", "))
	}
	fmt.Fprintln(w, theme.Render(theme.HelpStyle, "No changes were made."))
	return nil
}

// OutcomeRows converts outcomes into table rows (key, status, reason).
func OutcomeRows(outcomes []bulk.Outcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.Target,
			theme.Render(theme.OutcomeStyle(string(o.Status)), string(o.Status)),
			o.Reason,
		})
	}
	return rows
}
