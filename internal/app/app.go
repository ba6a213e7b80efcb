package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/nhle/jira-skills/internal/bulk"
	"github.com/nhle/jira-skills/internal/credential"
	"github.com/nhle/jira-skills/internal/domain"
	"github.com/nhle/jira-skills/internal/jira"
	"github.com/nhle/jira-skills/internal/model"
	"github.com/nhle/jira-skills/internal/output"
	"github.com/nhle/jira-skills/internal/skill"
	"github.com/nhle/jira-skills/internal/theme"
	"github.com/nhle/jira-skills/internal/validate"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
var ErrCancelled = errors.New("cancelled")

// Options are the global command-line settings.
type Options struct {
	ConfigPath string
	Profile    string
	Output     string
	Debug      bool
	NoColor    bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// App holds everything a command needs: configuration, the resolved
// profile, logging, output and a lazily built Jira client.
type App struct {
	Config      *model.AppConfig
	ConfigPath  string
	ProfileName string
	Logger      *slog.Logger
	Printer     *output.Printer
	Stdin       io.Reader
	Stderr      io.Writer
	Now         func() time.Time

	profileFlag string
	client      *jira.Client
}

// New loads configuration and sets up logging and output.
func New(opts Options) (*App, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	formatName := opts.Output
	if formatName == "" {
		formatName = cfg.Output
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: level}))

	theme.SetEnabled(!opts.NoColor && os.Getenv("NO_COLOR") == "")

	return &App{
		Config:      cfg,
		ConfigPath:  opts.ConfigPath,
		ProfileName: cfg.ProfileName(opts.Profile),
		Logger:      logger,
		Printer:     output.NewPrinter(opts.Stdout, format),
		Stdin:       opts.Stdin,
		Stderr:      opts.Stderr,
		Now:         time.Now,
		profileFlag: opts.Profile,
	}, nil
}

// Profile returns the active profile with environment overrides applied.
func (a *App) Profile() (model.ProfileConfig, error) {
	return a.Config.Profile(a.profileFlag)
}

// Client builds the Jira client for the active profile on first use. The
// API token comes from JIRA_API_TOKEN or the OS keyring.
func (a *App) Client() (*jira.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	p, err := a.Profile()
	if err != nil {
		return nil, domain.NewValidationError("%s", err.Error())
	}
	baseURL, err := validate.URL(p.URL)
	if err != nil {
		return nil, err
	}
	token, err := credential.ResolveToken(a.ProfileName, p.APIToken)
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("jira client ready", "profile", a.ProfileName, "url", baseURL)
	a.client = jira.NewClient(baseURL, p.Email, token, jira.WithLogger(a.Logger))
	return a.client, nil
}

// BulkOptions wires progress reporting for a batch: a progress bar when
// stderr is a terminal, plain lines otherwise.
func (a *App) BulkOptions(dryRun, noProgress bool, label string) skill.BulkOptions {
	opts := skill.BulkOptions{DryRun: dryRun, Logger: a.Logger}
	switch {
	case dryRun || noProgress:
	case isTerminal(a.Stderr):
		opts.Progress = output.NewProgressBar(a.Stderr, label).Update
	default:
		opts.Progress = output.LineProgress(a.Stderr)
	}
	return opts
}

// Confirm asks before modifying more issues than bulk.confirm_threshold.
// Without a terminal the batch is refused unless yes is set.
func (a *App) Confirm(n int, action string, yes bool) error {
	threshold := a.Config.Bulk.ConfirmThreshold
	if yes || threshold <= 0 || n <= threshold {
		return nil
	}
	if !isTerminal(a.Stdin) {
		return domain.NewValidationError(
			"refusing to %s %d issues without confirmation (threshold %d): pass --yes", action, n, threshold,
		)
	}

	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s %d issues?", action, n)).
		Description(fmt.Sprintf("This is above the confirmation threshold of %d.", threshold)).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) || (err == nil && !ok) {
		return ErrCancelled
	}
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	return nil
}

// MaxIssues returns flagValue when set, otherwise the configured cap.
func (a *App) MaxIssues(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	if a.Config.Bulk.MaxIssues > 0 {
		return a.Config.Bulk.MaxIssues
	}
	return bulk.DefaultMaxIssues
}

// ReadSecret reads a secret from the terminal without echo, or one line
// from a non-interactive stdin.
func (a *App) ReadSecret(prompt string) (string, error) {
	if !isTerminal(a.Stdin) {
		line, err := readLine(a.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", prompt, err)
		}
		return line, nil
	}

	var secret string
	err := huh.NewInput().
		Title(prompt).
		EchoMode(huh.EchoModePassword).
		Value(&secret).
		Validate(func(s string) error {
			if s == "" {
				return errors.New("value is required")
			}
			return nil
		}).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", prompt, err)
	}
	return secret, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
