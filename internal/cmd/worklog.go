package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
	"github.com/nhle/jira-skills/internal/timetrack"
)

func newWorklogCmd(load appLoader) *cobra.Command {
	worklogCmd := &cobra.Command{
		Use:   "worklog",
		Short: "Log time on issues",
		Long: `Log time on issues.

Durations use Jira units: w (5 days), d (8 hours), h and m, largest first,
e.g. "1d 4h" or "30m". --started accepts Jira timestamps, RFC 3339, dates,
"yesterday" or phrases like "last monday at 9am".`,
	}
	worklogCmd.AddCommand(newWorklogAddCmd(load), newWorklogBulkCmd(load))
	return worklogCmd
}

func newWorklogAddCmd(load appLoader) *cobra.Command {
	var req skill.WorklogRequest

	cmd := &cobra.Command{
		Use:     "add KEY",
		Short:   "Log time on one issue",
		Example: `  jira-skills worklog add PROJ-123 --time 2h --started yesterday --comment "Code review"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := a.Client()
			if err != nil {
				return err
			}

			req.Key = args[0]
			wl, err := skill.AddWorklog(cmd.Context(), c, req, a.Now())
			if err != nil {
				return err
			}
			return a.Printer.Emit(wl, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged %s on %s (worklog %s)\n",
					timetrack.FormatDuration(wl.TimeSpentSeconds),
					theme.Render(theme.KeyStyle, wl.IssueKey),
					wl.ID,
				)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.TimeSpent, "time", "", `time spent, e.g. "2h" or "1d 30m"`)
	cmd.Flags().StringVar(&req.Started, "started", "", "when the work started (default now)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "worklog comment")
	cmd.Flags().StringVar(&req.AdjustEstimate, "adjust-estimate", "", "remaining estimate handling: auto, leave, new or manual")
	cmd.Flags().StringVar(&req.NewEstimate, "new-estimate", "", "remaining estimate to set with --adjust-estimate new")
	cmd.Flags().StringVar(&req.ReduceBy, "reduce-by", "", "amount to reduce the estimate by with --adjust-estimate manual")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newWorklogBulkCmd(load appLoader) *cobra.Command {
	var (
		f   bulkFlags
		req skill.BulkLogTimeRequest
	)

	cmd := &cobra.Command{
		Use:     "bulk",
		Short:   "Log the same time on many issues",
		Example: `  jira-skills worklog bulk --issues PROJ-1,PROJ-2,PROJ-3 --time 15m --comment "Sprint planning"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := a.Client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			keys, opts, err := f.prepare(ctx, a, c, nil, "Log time on")
			if err != nil {
				return err
			}
			req.Keys = keys
			req.BulkOptions = opts

			res, err := skill.BulkLogTime(ctx, c, req, a.Now())
			if res == nil {
				return err
			}
			return f.finish(a, "Log "+res.TimeSpent+" per issue", res, res.Summary, err, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Total logged: %s\n", res.TotalFormatted)
				return err
			})
		},
	}

	addBulkFlags(cmd, &f, true)
	cmd.Flags().StringVar(&req.TimeSpent, "time", "", "time spent on each issue")
	cmd.Flags().StringVar(&req.Started, "started", "", "when the work started (default now)")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "worklog comment")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}
