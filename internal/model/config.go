package model

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default custom field ids used by Jira Cloud company-managed projects.
const (
	DefaultEpicLinkField    = "customfield_10014"
	DefaultStoryPointsField = "customfield_10016"
)

// ProfileConfig holds the connection settings for one Jira site.
type ProfileConfig struct {
	// URL is the root URL of the Jira site (e.g., https://acme.atlassian.net).
	URL string `mapstructure:"url" yaml:"url"`

	// Email selects Basic auth (Cloud). Empty means Bearer auth with a
	// Personal Access Token (Server/DC).
	Email string `mapstructure:"email" yaml:"email"`

	EpicLinkField    string `mapstructure:"epic_link_field" yaml:"epic_link_field"`
	StoryPointsField string `mapstructure:"story_points_field" yaml:"story_points_field"`

	// APIToken is never written to disk; it comes from the environment or
	// the OS keyring.
	APIToken string `mapstructure:"-" yaml:"-"`
}

// BulkConfig holds defaults for bulk commands.
type BulkConfig struct {
	MaxIssues int `mapstructure:"max_issues" yaml:"max_issues"`

	// ConfirmThreshold is the batch size above which a confirmation prompt
	// is shown unless --yes is given.
	ConfirmThreshold int `mapstructure:"confirm_threshold" yaml:"confirm_threshold"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DefaultProfile string                   `mapstructure:"default_profile" yaml:"default_profile"`
	Profiles       map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles"`
	Output         string                   `mapstructure:"output" yaml:"output"`
	Bulk           BulkConfig               `mapstructure:"bulk" yaml:"bulk"`
}

// DefaultConfigPath returns ~/.config/jira-skills/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "jira-skills", "config.yaml")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DefaultProfile: "default",
		Profiles:       map[string]ProfileConfig{},
		Output:         "text",
		Bulk: BulkConfig{
			MaxIssues:        100,
			ConfirmThreshold: 50,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. A .env file in the working directory
// is loaded first so JIRA_* variables can live there.
func LoadConfig(path string) (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("default_profile", "default")
	v.SetDefault("output", "text")
	v.SetDefault("bulk.max_issues", 100)
	v.SetDefault("bulk.confirm_threshold", 50)

	cfg := defaultAppConfig()
	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = map[string]ProfileConfig{}
	}
	for name, p := range cfg.Profiles {
		cfg.Profiles[name] = withProfileDefaults(p)
	}
	if cfg.Bulk.MaxIssues <= 0 {
		cfg.Bulk.MaxIssues = 100
	}

	return cfg, nil
}

// Profile resolves the named profile (or the default one) and applies the
// JIRA_SITE_URL, JIRA_EMAIL and JIRA_API_TOKEN environment overrides. The
// environment alone is enough when no config file exists.
func (c *AppConfig) Profile(name string) (ProfileConfig, error) {
	name = c.ProfileName(name)

	p, ok := c.Profiles[name]
	if !ok && name != c.DefaultProfile {
		return ProfileConfig{}, fmt.Errorf(
			"profile %q not found (available: %v)", name, c.ProfileNames(),
		)
	}
	p = withProfileDefaults(p)

	if url := os.Getenv("JIRA_SITE_URL"); url != "" {
		p.URL = url
	}
	if email := os.Getenv("JIRA_EMAIL"); email != "" {
		p.Email = email
	}
	p.APIToken = os.Getenv("JIRA_API_TOKEN")

	if p.URL == "" {
		return ProfileConfig{}, fmt.Errorf(
			"no Jira URL for profile %q: set profiles.%s.url or JIRA_SITE_URL",
			name, name,
		)
	}
	return p, nil
}

// ProfileName resolves an empty name to JIRA_PROFILE, then to the default
// profile.
func (c *AppConfig) ProfileName(name string) string {
	if name == "" {
		name = os.Getenv("JIRA_PROFILE")
	}
	if name == "" {
		name = c.DefaultProfile
	}
	return name
}

// ProfileNames returns the configured profile names, sorted.
func (c *AppConfig) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func withProfileDefaults(p ProfileConfig) ProfileConfig {
	if p.EpicLinkField == "" {
		p.EpicLinkField = DefaultEpicLinkField
	}
	if p.StoryPointsField == "" {
		p.StoryPointsField = DefaultStoryPointsField
	}
	return p
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("default_profile", cfg.DefaultProfile)
	v.Set("profiles", cfg.Profiles)
	v.Set("output", cfg.Output)
	v.Set("bulk", cfg.Bulk)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
