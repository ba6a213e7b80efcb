package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
)

func newIssueCmd(load appLoader) *cobra.Command {
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Create issues",
	}
	issueCmd.AddCommand(newIssueCreateCmd(load))
	return issueCmd
}

func newIssueCreateCmd(load appLoader) *cobra.Command {
	var (
		req          skill.CreateIssueRequest
		customFields string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Example: `  jira-skills issue create --project PROJ --type Bug --summary "Login fails on Safari" --priority High
  jira-skills issue create --project PROJ --type Story --summary "Export" --epic PROJ-100 --custom-fields '{"customfield_10016": 3}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseJSONObject("custom-fields", customFields)
			if err != nil {
				return err
			}
			req.CustomFields = fields

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
			req.EpicLinkField = p.EpicLinkField

			res, err := skill.CreateIssue(cmd.Context(), c, c.BaseURL(), req)
			if err != nil {
				return err
			}
			return printLine(a, res, "Created %s %s", theme.Render(theme.KeyStyle, res.Key), res.URL)
		},
	}

	cmd.Flags().StringVar(&req.Project, "project", "", "project key")
	cmd.Flags().StringVar(&req.IssueType, "type", "", "issue type, e.g. Bug, Story, Task")
	cmd.Flags().StringVar(&req.Summary, "summary", "", "issue summary")
	cmd.Flags().StringVar(&req.Description, "description", "", "plain-text description")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "priority name")
	cmd.Flags().StringVar(&req.Assignee, "assignee", "", "assignee account id")
	cmd.Flags().StringSliceVar(&req.Labels, "labels", nil, "comma-separated labels")
	cmd.Flags().StringSliceVar(&req.Components, "components", nil, "comma-separated component names")
	cmd.Flags().StringVar(&req.ParentKey, "parent", "", "parent issue for subtasks")
	cmd.Flags().StringVar(&req.EpicKey, "epic", "", "epic to add the issue to")
	cmd.Flags().StringVar(&customFields, "custom-fields", "", "customfield_* values as a JSON object")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("summary")
	return cmd
}
