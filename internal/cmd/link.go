package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
)

func newLinkCmd(load appLoader) *cobra.Command {
	linkCmd := &cobra.Command{
		Use:   "link",
		Short: "Manage issue links",
	}
	linkCmd.AddCommand(newLinkBulkCmd(load))
	return linkCmd
}

func newLinkBulkCmd(load appLoader) *cobra.Command {
	var (
		f            bulkFlags
		target       string
		linkType     string
		skipExisting bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Link many issues to one target issue",
		Long: `Create "<issue> <type> <target>" links for every selected issue.

Issues that fail (missing, no permission) are reported in the summary and the
rest are still linked. Authentication and server errors stop the run.`,
		Example: `  jira-skills link bulk --issues PROJ-1,PROJ-2 --target PROJ-100 --type Blocks
  jira-skills link bulk --jql "project = PROJ AND fixVersion = 1.2" --target REL-9 --type Relates --skip-existing
  git log --oneline main..HEAD | jira-skills link bulk --issues - --target PROJ-100 --type Relates`,
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

			ctx := cmd.Context()
			keys, opts, err := f.prepare(ctx, a, c, nil, "Link")
			if err != nil {
				return err
			}

			sum, err := skill.BulkLink(ctx, c, skill.BulkLinkRequest{
				Sources:      keys,
				Target:       target,
				LinkType:     linkType,
				SkipExisting: skipExisting,
				BulkOptions:  opts,
			})
			return f.finish(a, "Linked to "+target, sum, sum, err, nil)
		},
	}

	addBulkFlags(cmd, &f, true)
	cmd.Flags().StringVar(&target, "target", "", "issue every selected issue is linked to")
	cmd.Flags().StringVar(&linkType, "type", "", "link type name, e.g. Blocks, Relates, Duplicate")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "skip issues already linked to the target with this type")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
