package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/app"
	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/output"
	"github.com/nhle/jira-skills/internal/skill"
)

// bulkFlags are shared by every command that works on a batch of issues.
type bulkFlags struct {
	issues     []string
	jql        string
	maxIssues  int
	dryRun     bool
	yes        bool
	noProgress bool
	details    bool
}

func addBulkFlags(cmd *cobra.Command, f *bulkFlags, selectTargets bool) {
	if selectTargets {
		cmd.Flags().StringSliceVar(&f.issues, "issues", nil, "comma-separated issue keys, or - to read keys from stdin")
		cmd.Flags().StringVar(&f.jql, "jql", "", "JQL query selecting the issues")
		cmd.MarkFlagsMutuallyExclusive("issues", "jql")
	}
	cmd.Flags().IntVar(&f.maxIssues, "max-issues", 0, "maximum number of issues taken from a JQL search")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show what would change without changing anything")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "skip the confirmation prompt for large batches")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable the progress display")
	cmd.Flags().BoolVar(&f.details, "details", false, "list the outcome of every issue in a table")
}

// prepare resolves the batch targets, asks for confirmation when the batch
// is large, and wires progress reporting.
func (f *bulkFlags) prepare(
	ctx context.Context,
	a *app.App,
	s bulk.Searcher,
	keys []string,
	action string,
) ([]string, skill.BulkOptions, error) {
	if len(keys) == 0 {
		keys = f.issues
	}
	if len(keys) == 1 && keys[0] == "-" {
		var err error
		if keys, err = a.StdinIssueKeys(); err != nil {
			return nil, skill.BulkOptions{}, err
		}
	}

	targets, err := bulk.Collect(ctx, s, bulk.Selection{
		Keys: keys,
		JQL:  f.jql,
		Max:  a.MaxIssues(f.maxIssues),
	})
	if err != nil {
		return nil, skill.BulkOptions{}, err
	}
	if !f.dryRun {
		if err := a.Confirm(len(targets), action, f.yes); err != nil {
			return nil, skill.BulkOptions{}, err
		}
	}
	return targets, a.BulkOptions(f.dryRun, f.noProgress, action), nil
}

// finish prints the outcome of a batch. A run that aborted still shows its
// partial summary before the error is returned, and a run with failed
// issues exits non-zero.
func (f *bulkFlags) finish(
	a *app.App,
	title string,
	result any,
	sum *bulk.Summary,
	runErr error,
	extra func(w io.Writer) error,
) error {
	if sum != nil {
		err := a.Printer.Emit(result, func(w io.Writer) error {
			if err := output.WriteSummary(w, title, sum); err != nil {
				return err
			}
			if sum.DryRun {
				return nil
			}
			if f.details && len(sum.Outcomes) > 0 {
				fmt.Fprintln(w)
				if err := output.Table(w, []string{"Key", "Status", "Reason"}, output.OutcomeRows(sum.Outcomes)); err != nil {
					return err
				}
			}
			if extra != nil {
				return extra(w)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if sum != nil && sum.Failed > 0 {
		return fmt.Errorf("%d of %d issues failed", sum.Failed, sum.Total)
	}
	return nil
}

// parseJSONObject decodes a flag holding a JSON object.
func parseJSONObject(flag, raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, domain.NewValidationError("--%s must be a JSON object: %v", flag, err)
	}
	return m, nil
}

// printLine writes a single text line, or v in structured formats.
func printLine(a *app.App, v any, format string, args ...any) error {
	return a.Printer.Emit(v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	})
}
