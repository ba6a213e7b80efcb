package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
)

func newEpicCmd(load appLoader) *cobra.Command {
	epicCmd := &cobra.Command{
		Use:   "epic",
		Short: "Add issues to or remove them from epics",
	}
	epicCmd.AddCommand(newEpicAddCmd(load), newEpicRemoveCmd(load))
	return epicCmd
}

func newEpicAddCmd(load appLoader) *cobra.Command {
	var f bulkFlags

	cmd := &cobra.Command{
		Use:     "add EPIC",
		Short:   "Add issues to an epic",
		Example: `  jira-skills epic add PROJ-100 --issues PROJ-101,PROJ-102`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEpic(cmd, load, &f, args[0], false)
		},
	}
	addBulkFlags(cmd, &f, true)
	return cmd
}

func newEpicRemoveCmd(load appLoader) *cobra.Command {
	var f bulkFlags

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove issues from their epic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEpic(cmd, load, &f, "", true)
		},
	}
	addBulkFlags(cmd, &f, true)
	return cmd
}

func runEpic(cmd *cobra.Command, load appLoader, f *bulkFlags, epicKey string, remove bool) error {
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

	action, title := "Add to epic", "Added to "+epicKey
	if remove {
		action, title = "Remove from epic", "Removed from epic"
	}

	ctx := cmd.Context()
	keys, opts, err := f.prepare(ctx, a, c, nil, action)
	if err != nil {
		return err
	}

	sum, err := skill.AddToEpic(ctx, c, skill.EpicRequest{
		EpicKey:       epicKey,
		Keys:          keys,
		Remove:        remove,
		EpicLinkField: p.EpicLinkField,
		BulkOptions:   opts,
	})
	if sum == nil {
		return err
	}
	return f.finish(a, title, sum, sum, err, nil)
}
