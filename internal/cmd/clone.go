package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/output"
	"github.com/nhle/jira-skills/internal/skill"
)

func newCloneCmd(load appLoader) *cobra.Command {
	var (
		f    bulkFlags
		opts skill.CloneOptions
	)

	cmd := &cobra.Command{
		Use:   "clone [KEY...]",
		Short: "Clone issues, optionally into another project",
		Long: `Clone one or more issues. The summary, description, type, priority,
labels and components are copied, and each clone is linked back to its source
with a Cloners link unless --no-link is given.`,
		Example: `  jira-skills clone PROJ-123
  jira-skills clone PROJ-1 PROJ-2 --project OPS --include-subtasks
  jira-skills clone --jql "sprint in openSprints() AND labels = carry-over" --no-prefix`,
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
			keys, bulkOpts, err := f.prepare(ctx, a, c, args, "Clone")
			if err != nil {
				return err
			}

			res, err := skill.BulkClone(ctx, c, skill.BulkCloneRequest{
				Keys:         keys,
				CloneOptions: opts,
				BulkOptions:  bulkOpts,
			})
			if res == nil {
				return err
			}
			return f.finish(a, "Clone", res, res.Summary, err, func(w io.Writer) error {
				if len(res.Clones) == 0 {
					return nil
				}
				fmt.Fprintln(w)
				return output.Table(w, []string{"Original", "Clone", "Project", "Links", "Subtasks"}, cloneRows(res.Clones))
			})
		},
	}

	addBulkFlags(cmd, &f, false)
	cmd.Flags().StringVar(&f.jql, "jql", "", "JQL query selecting the issues to clone")
	cmd.Flags().StringVar(&opts.TargetProject, "project", "", "create the clones in this project")
	cmd.Flags().StringVar(&opts.SummaryPrefix, "prefix", "", `summary prefix format taking the source key (default "`+skill.DefaultClonePrefix+`")`)
	cmd.Flags().BoolVar(&opts.NoPrefix, "no-prefix", false, "keep the original summary")
	cmd.Flags().BoolVar(&opts.NoCloneLink, "no-link", false, "do not link clones back to their source")
	cmd.Flags().BoolVar(&opts.IncludeLinks, "include-links", false, "copy the source's issue links")
	cmd.Flags().BoolVar(&opts.IncludeSubtasks, "include-subtasks", false, "clone subtasks under the new issue")
	return cmd
}

func cloneRows(clones []skill.CloneResult) [][]string {
	rows := make([][]string, 0, len(clones))
	for _, c := range clones {
		rows = append(rows, []string{
			c.OriginalKey,
			c.CloneKey,
			c.Project,
			fmt.Sprint(c.LinksCopied),
			fmt.Sprint(len(c.SubtasksCloned)),
		})
	}
	return rows
}
