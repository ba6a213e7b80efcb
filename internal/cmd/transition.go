package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/app"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/output"
	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
	"github.com/nhle/jira-skills/internal/transition"
)

func newTransitionCmd(load appLoader) *cobra.Command {
	var (
		id         string
		name       string
		resolution string
		comment    string
		fieldsJSON string
	)

	cmd := &cobra.Command{
		Use:   "transition KEY",
		Short: "Move an issue through its workflow by transition id or name",
		Long: `Move an issue to another status.

--name matches case-insensitively: an exact name wins, otherwise a single
transition containing the text is used. Ambiguous or unknown names fail and
list the transitions that are available.`,
		Example: `  jira-skills transition PROJ-123 --name "in progress"
  jira-skills transition PROJ-123 --id 31 --resolution Fixed --comment "Shipped"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q transition.Query
			switch {
			case id != "" && name != "":
				return domain.NewValidationError("use either --id or --name, not both")
			case id != "":
				q = transition.ByIDQuery(id)
			case name != "":
				q = transition.ByNameQuery(name)
			default:
				return domain.NewValidationError("one of --id or --name is required")
			}
			fields, err := parseJSONObject("fields", fieldsJSON)
			if err != nil {
				return err
			}

			a, err := load(cmd)
			if err != nil {
				return err
			}
			c, err := a.Client()
			if err != nil {
				return err
			}

			res, err := skill.Transition(cmd.Context(), c, skill.TransitionRequest{
				Key:        args[0],
				Query:      q,
				Resolution: resolution,
				Comment:    comment,
				Fields:     fields,
			})
			if err != nil {
				return err
			}
			return printTransition(a, res)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "transition id")
	cmd.Flags().StringVar(&name, "name", "", "transition name or part of it")
	cmd.Flags().StringVar(&resolution, "resolution", "", "resolution to set, e.g. Fixed")
	cmd.Flags().StringVar(&comment, "comment", "", "comment to add with the transition")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", `extra fields as a JSON object, e.g. '{"customfield_10020": 5}'`)
	return cmd
}

func newTransitionsCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "transitions KEY",
		Short: "List the transitions currently available for an issue",
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

			ts, err := skill.ListTransitions(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			return a.Printer.Emit(ts, func(w io.Writer) error {
				if len(ts) == 0 {
					_, err := fmt.Fprintln(w, "No transitions available.")
					return err
				}
				return output.Table(w, []string{"ID", "Name", "Target status"}, transitionRows(ts))
			})
		},
	}
}

func newResolveCmd(load appLoader) *cobra.Command {
	var resolution, comment string

	cmd := &cobra.Command{
		Use:   "resolve KEY",
		Short: "Resolve an issue with the first Done, Resolve or Close transition",
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

			res, err := skill.Resolve(cmd.Context(), c, skill.ResolveRequest{
				Key:        args[0],
				Resolution: resolution,
				Comment:    comment,
			})
			if err != nil {
				return err
			}
			return printTransition(a, res)
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", skill.DefaultResolution, "resolution to set")
	cmd.Flags().StringVar(&comment, "comment", "", "comment to add")
	return cmd
}

func newReopenCmd(load appLoader) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "reopen KEY",
		Short: "Reopen a resolved issue",
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

			res, err := skill.Reopen(cmd.Context(), c, skill.ReopenRequest{Key: args[0], Comment: comment})
			if err != nil {
				return err
			}
			return printTransition(a, res)
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "comment to add")
	return cmd
}

func printTransition(a *app.App, res *skill.TransitionResult) error {
	return a.Printer.Emit(res, func(w io.Writer) error {
		msg := fmt.Sprintf("%s transitioned via %q", theme.Render(theme.KeyStyle, res.Key), res.TransitionName)
		if res.TargetStatus != "" {
			msg += " to " + res.TargetStatus
		}
		if res.Resolution != "" {
			msg += " (resolution: " + res.Resolution + ")"
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	})
}

func transitionRows(ts []model.Transition) [][]string {
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		rows = append(rows, []string{t.ID, t.Name, t.TargetStatusName})
	}
	return rows
}
