package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nhle/jira-skills/internal/app"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/theme"
)

// appLoader builds the App for the command being run, after flags are parsed.
type appLoader func(cmd *cobra.Command) (*app.App, error)

// NewRootCommand creates the command tree. Each call returns a fresh tree
// so tests can run commands in isolation.
func NewRootCommand() *cobra.Command {
	var (
		cfgFile string
		profile string
	)
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "jira-skills",
		Short: "Narrow Jira operations for scripts and assistants",
		Long: `jira-skills wraps the Jira REST API in small, predictable commands:
transitions by name, bulk linking, cloning, worklogs, epics and estimates.

Bulk commands process issues one at a time, keep going when a single issue
fails, and finish with a summary of what succeeded, failed or was skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is "+model.DefaultConfigPath()+")")
	pf.StringVar(&profile, "profile", "", "Jira profile to use (default from config or JIRA_PROFILE)")
	pf.StringP("output", "o", "", "output format (text, json, yaml)")
	pf.Bool("debug", false, "enable debug logging")
	pf.Bool("no-color", false, "disable colored output")

	_ = v.BindPFlag("output", pf.Lookup("output"))
	_ = v.BindPFlag("debug", pf.Lookup("debug"))
	_ = v.BindPFlag("no-color", pf.Lookup("no-color"))
	v.SetEnvPrefix("JIRA_SKILLS")
	v.AutomaticEnv()

	load := func(cmd *cobra.Command) (*app.App, error) {
		return app.New(app.Options{
			ConfigPath: cfgFile,
			Profile:    profile,
			Output:     v.GetString("output"),
			Debug:      v.GetBool("debug"),
			NoColor:    v.GetBool("no-color"),
			Stdin:      cmd.InOrStdin(),
			Stdout:     cmd.OutOrStdout(),
			Stderr:     cmd.ErrOrStderr(),
		})
	}

	rootCmd.AddCommand(
		newTransitionCmd(load),
		newTransitionsCmd(load),
		newResolveCmd(load),
		newReopenCmd(load),
		newLinkCmd(load),
		newCloneCmd(load),
		newWorklogCmd(load),
		newEpicCmd(load),
		newEstimateCmd(load),
		newCommentCmd(load),
		newIssueCmd(load),
		newConfigCmd(load),
	)
	return rootCmd
}

// Execute runs the command tree until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// PrintError writes err the way the CLI reports failures. A cancelled
// prompt is not an error and returns false.
func PrintError(w io.Writer, err error) bool {
	if errors.Is(err, app.ErrCancelled) {
		fmt.Fprintln(w, "Cancelled.")
		return false
	}
	fmt.Fprintln(w, theme.Render(theme.ErrorStyle, "Error: "+err.Error()))
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(w, theme.Render(theme.HelpStyle, hint))
	}
	return true
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "Check JIRA_EMAIL and JIRA_API_TOKEN, or run 'jira-skills config set-token'."
	case errors.Is(err, domain.ErrRateLimited):
		return "Jira is rate limiting requests; wait a minute and retry with fewer issues."
	case errors.Is(err, domain.ErrPermission):
		return "Your account lacks permission for this operation."
	default:
		return ""
	}
}
