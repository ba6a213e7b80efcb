package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/jira-skills/internal/credential"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/output"
	"github.com/nhle/jira-skills/internal/validate"
)

func newConfigCmd(load appLoader) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage profiles and credentials",
		Long:  "Show the active configuration, add Jira profiles and store API tokens in the OS keyring.",
	}
	configCmd.AddCommand(
		newConfigShowCmd(load),
		newConfigSetProfileCmd(load),
		newConfigSetTokenCmd(load),
	)
	return configCmd
}

// configView is the structured form of config show. The token itself is
// never printed.
type configView struct {
	ConfigFile       string   `json:"config_file" yaml:"config_file"`
	Profile          string   `json:"profile" yaml:"profile"`
	Profiles         []string `json:"profiles" yaml:"profiles"`
	URL              string   `json:"url" yaml:"url"`
	Email            string   `json:"email,omitempty" yaml:"email,omitempty"`
	Auth             string   `json:"auth" yaml:"auth"`
	TokenSource      string   `json:"token_source" yaml:"token_source"`
	EpicLinkField    string   `json:"epic_link_field" yaml:"epic_link_field"`
	StoryPointsField string   `json:"story_points_field" yaml:"story_points_field"`
	Output           string   `json:"output" yaml:"output"`
	MaxIssues        int      `json:"max_issues" yaml:"max_issues"`
	ConfirmThreshold int      `json:"confirm_threshold" yaml:"confirm_threshold"`
}

func newConfigShowCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			view := configView{
				ConfigFile:       a.ConfigPath,
				Profile:          a.ProfileName,
				Profiles:         a.Config.ProfileNames(),
				Output:           string(a.Printer.Format()),
				MaxIssues:        a.MaxIssues(0),
				ConfirmThreshold: a.Config.Bulk.ConfirmThreshold,
			}
			// A profile without a URL is still shown, with the gaps visible.
			p, profileErr := a.Profile()
			if profileErr != nil {
				p = a.Config.Profiles[a.ProfileName]
			}
			view.URL = p.URL
			view.Email = p.Email
			view.EpicLinkField = p.EpicLinkField
			view.StoryPointsField = p.StoryPointsField
			view.Auth = "bearer (personal access token)"
			if p.Email != "" {
				view.Auth = "basic (email + API token)"
			}
			view.TokenSource = tokenSource(a.ProfileName, p.APIToken)

			return a.Printer.Emit(view, func(w io.Writer) error {
				fmt.Fprintln(w, "Current Configuration:")
				rows := [][]string{
					{"Config file", view.ConfigFile},
					{"Profile", view.Profile},
					{"Profiles", orNone(strings.Join(view.Profiles, ", "))},
					{"URL", orNone(view.URL)},
					{"Email", orNone(view.Email)},
					{"Auth", view.Auth},
					{"API token", view.TokenSource},
					{"Epic link field", view.EpicLinkField},
					{"Story points field", view.StoryPointsField},
					{"Output", view.Output},
					{"Max issues", strconv.Itoa(view.MaxIssues)},
					{"Confirm above", strconv.Itoa(view.ConfirmThreshold)},
				}
				if err := output.Table(w, []string{"Setting", "Value"}, rows); err != nil {
					return err
				}
				if profileErr != nil {
					fmt.Fprintf(w, "\nWarning: %v\n", profileErr)
				}
				return nil
			})
		},
	}
}

func newConfigSetProfileCmd(load appLoader) *cobra.Command {
	var (
		p          model.ProfileConfig
		setDefault bool
	)

	cmd := &cobra.Command{
		Use:     "set-profile NAME",
		Short:   "Create or update a Jira profile",
		Example: `  jira-skills config set-profile work --url https://acme.atlassian.net --email me@acme.com --default`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if p.URL, err = validate.URL(p.URL); err != nil {
				return err
			}

			existing := a.Config.Profiles[name]
			if p.Email == "" {
				p.Email = existing.Email
			}
			if p.EpicLinkField == "" {
				p.EpicLinkField = existing.EpicLinkField
			}
			if p.StoryPointsField == "" {
				p.StoryPointsField = existing.StoryPointsField
			}
			a.Config.Profiles[name] = p
			if setDefault || len(a.Config.Profiles) == 1 {
				a.Config.DefaultProfile = name
			}

			if err := model.SaveConfig(a.ConfigPath, a.Config); err != nil {
				return err
			}
			return printLine(a, map[string]string{"profile": name, "config_file": a.ConfigPath},
				"Profile %q saved to %s", name, a.ConfigPath)
		},
	}

	cmd.Flags().StringVar(&p.URL, "url", "", "Jira site URL")
	cmd.Flags().StringVar(&p.Email, "email", "", "account email (Jira Cloud); leave empty for a personal access token")
	cmd.Flags().StringVar(&p.EpicLinkField, "epic-link-field", "", "custom field id of the epic link")
	cmd.Flags().StringVar(&p.StoryPointsField, "story-points-field", "", "custom field id of story points")
	cmd.Flags().BoolVar(&setDefault, "default", false, "make this the default profile")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newConfigSetTokenCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "set-token",
		Short: "Store the API token of the active profile in the OS keyring",
		Long: `Store the API token of the active profile in the OS keyring.

The token is prompted for without echo, or read from the first line of stdin
when it is not a terminal:

  echo "$TOKEN" | jira-skills config set-token --profile work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}

			token, err := a.ReadSecret("API token for profile " + a.ProfileName)
			if err != nil {
				return err
			}
			if err := credential.Set(credential.TokenKey(a.ProfileName), strings.TrimSpace(token)); err != nil {
				return err
			}
			return printLine(a, map[string]string{"profile": a.ProfileName},
				"API token stored for profile %q", a.ProfileName)
		},
	}
}

func tokenSource(profile, envToken string) string {
	if envToken != "" {
		return "environment (JIRA_API_TOKEN)"
	}
	_, err := credential.Get(credential.TokenKey(profile))
	switch {
	case err == nil:
		return "keyring"
	case errors.Is(err, credential.ErrNotFound):
		return "not set"
	default:
		return "keyring unavailable"
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
