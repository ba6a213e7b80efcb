package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/theme"
)

// ProgressBar draws bulk progress on a terminal, redrawing one line.
type ProgressBar struct {
	w     io.Writer
	label string
	bar   progress.Model
}

// NewProgressBar creates a progress bar writing to w, normally stderr.
func NewProgressBar(w io.Writer, label string) *ProgressBar {
	return &ProgressBar{
		w:     w,
		label: label,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Update has the signature of bulk.ProgressFunc.
func (p *ProgressBar) Update(done, total int, o bulk.Outcome) {
	if total <= 0 {
		return
	}
	pct := float64(done) / float64(total)
	if pct > 1 {
		pct = 1
	}
	fmt.Fprintf(p.w, "\r%s %s %d/%d %s\x1b[K",
		p.label,
		p.bar.ViewAs(pct),
		done, total,
		theme.Render(theme.OutcomeStyle(string(o.Status)), o.Target),
	)
	if done >= total {
		fmt.Fprintln(p.w)
	}
}

// LineProgress prints one line per item. It is used when stderr is not a
// terminal but the caller still wants per-item feedback.
func LineProgress(w io.Writer) bulk.ProgressFunc {
	return func(done, total int, o bulk.Outcome) {
		line := fmt.Sprintf("[%d/%d] %s %s", done, total, o.Target, o.Status)
		if o.Reason != "" {
			line += ": " + o.Reason
		}
		fmt.Fprintln(w, line)
	}
}
