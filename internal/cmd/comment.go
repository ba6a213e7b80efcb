package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
)

func newCommentCmd(load appLoader) *cobra.Command {
	commentCmd := &cobra.Command{
		Use:   "comment",
		Short: "Comment on issues",
	}
	commentCmd.AddCommand(newCommentAddCmd(load))
	return commentCmd
}

func newCommentAddCmd(load appLoader) *cobra.Command {
	var req skill.CommentRequest

	cmd := &cobra.Command{
		Use:     "add KEY",
		Short:   "Add a comment to an issue",
		Example: `  jira-skills comment add PROJ-123 --body "Deployed to staging" --visibility-role Developers`,
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
			res, err := skill.AddComment(cmd.Context(), c, req)
			if err != nil {
				return err
			}
			return printLine(a, res, "Added comment %s to %s", res.CommentID, theme.Render(theme.KeyStyle, res.Key))
		},
	}

	cmd.Flags().StringVar(&req.Body, "body", "", "comment text; blank lines separate paragraphs")
	cmd.Flags().StringVar(&req.VisibilityRole, "visibility-role", "", "restrict the comment to a project role")
	cmd.Flags().StringVar(&req.VisibilityGroup, "visibility-group", "", "restrict the comment to a group")
	cmd.MarkFlagsMutuallyExclusive("visibility-role", "visibility-group")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}
