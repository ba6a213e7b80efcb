package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
)

func newEstimateCmd(load appLoader) *cobra.Command {
	var (
		f         bulkFlags
		points    float64
		fibonacci bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Set story points on issues",
		Long: `Set story points on every selected issue. --points 0 clears the estimate.
With --fibonacci only 1, 2, 3, 5, 8, 13, 21, 34, 55 and 89 are accepted.`,
		Example: `  jira-skills estimate --issues PROJ-1,PROJ-2 --points 5 --fibonacci
  jira-skills estimate time PROJ-1 --original 2d --remaining "1d 4h"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := a.Client()
			if err != nil {
				return err
			}
			p, err := a.Profile()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			keys, opts, err := f.prepare(ctx, a, c, nil, "Estimate")
			if err != nil {
				return err
			}

			sum, err := skill.Estimate(ctx, c, skill.EstimateRequest{
				Keys:             keys,
				Points:           points,
				Fibonacci:        fibonacci,
				StoryPointsField: p.StoryPointsField,
				BulkOptions:      opts,
			})
			if sum == nil {
				return err
			}
			title := "Set " + strconv.FormatFloat(points, 'f', -1, 64) + " story points"
			if points == 0 {
				title = "Cleared story points"
			}
			return f.finish(a, title, sum, sum, err, nil)
		},
	}

	addBulkFlags(cmd, &f, true)
	cmd.Flags().Float64Var(&points, "points", 0, "story points to set (0 clears)")
	cmd.Flags().BoolVar(&fibonacci, "fibonacci", false, "only accept Fibonacci values")
	_ = cmd.MarkFlagRequired("points")

	cmd.AddCommand(newEstimateTimeCmd(load))
	return cmd
}

func newEstimateTimeCmd(load appLoader) *cobra.Command {
	var req skill.TimeEstimateRequest

	cmd := &cobra.Command{
		Use:   "time KEY",
		Short: "Set the original and remaining time estimate of an issue",
		Args:  cobra.ExactArgs(1),
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
			res, err := skill.SetTimeEstimate(cmd.Context(), c, req)
			if err != nil {
				return err
			}
			return a.Printer.Emit(res, func(w io.Writer) error {
				fmt.Fprintf(w, "Updated estimates on %s\n", theme.Render(theme.KeyStyle, res.Key))
				if res.Original != "" {
					fmt.Fprintf(w, "  original:  %s\n", res.Original)
				}
				if res.Remaining != "" {
					fmt.Fprintf(w, "  remaining: %s\n", res.Remaining)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Original, "original", "", `original estimate, e.g. "2d"`)
	cmd.Flags().StringVar(&req.Remaining, "remaining", "", `remaining estimate, e.g. "1d 4h"`)
	return cmd
}
