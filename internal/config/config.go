package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mcncl/jsondelta/internal/errors"
	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/report"
	"github.com/mcncl/jsondelta/internal/tree"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsondelta
type Config struct {
	Report  ReportConfig  `yaml:"report" toml:"report"`
	Compare CompareConfig `yaml:"compare" toml:"compare"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// ReportConfig controls how reports are rendered
type ReportConfig struct {
	Format   string              `yaml:"format" toml:"format"`
	Title    string              `yaml:"title" toml:"title"`
	RootName string              `yaml:"root_name" toml:"root_name"`
	Render   models.RenderConfig `yaml:"render" toml:"render"`
}

// CompareConfig controls how documents are compared
type CompareConfig struct {
	Settings    models.CompareSettings `yaml:"settings" toml:"settings"`
	IgnorePaths []PathRule             `yaml:"ignore_paths" toml:"ignore_paths"`
	Remote      RemoteConfig           `yaml:"remote" toml:"remote"`
}

// PathRule drops differences whose path matches Pattern
type PathRule struct {
	Pattern string `yaml:"pattern" toml:"pattern"`
	Comment string `yaml:"comment,omitempty" toml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// RemoteConfig points comparisons at a comparison service instead of
// comparing in process. An empty URL means local comparison.
type RemoteConfig struct {
	URL        string `yaml:"url" toml:"url"`
	Timeout    string `yaml:"timeout" toml:"timeout"`
	Retries    int    `yaml:"retries" toml:"retries"`
	RetryDelay string `yaml:"retry_delay" toml:"retry_delay"`
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Report: ReportConfig{
			Format:   string(report.FormatMarkdown),
			Title:    report.DefaultTitle,
			RootName: tree.DefaultRootName,
			Render:   models.DefaultRenderConfig(),
		},
		Compare: CompareConfig{
			Settings:    models.DefaultCompareSettings(),
			IgnorePaths: []PathRule{},
			Remote: RemoteConfig{
				Timeout:    "30s",
				Retries:    3,
				RetryDelay: "500ms",
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by extension
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	cfg := NewConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("failed to parse config file", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{
		".jsondelta.yml", ".jsondelta.yaml", ".jsondelta.toml",
		"jsondelta.yml", "jsondelta.yaml", "jsondelta.toml",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks the config and compiles its path patterns
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return errors.NewConfigError(fmt.Sprintf("invalid report format '%s'", c.Report.Format), err)
	}
	if c.Compare.Settings.MaxDifferences < 0 {
		return errors.NewConfigError("max_differences cannot be negative", nil)
	}
	if c.Compare.Remote.Retries < 0 {
		return errors.NewConfigError("remote retries cannot be negative", nil)
	}
	if _, err := c.Compare.Remote.TimeoutDuration(); err != nil {
		return errors.NewConfigError(fmt.Sprintf("invalid remote timeout '%s'", c.Compare.Remote.Timeout), err)
	}
	if _, err := c.Compare.Remote.RetryDelayDuration(); err != nil {
		return errors.NewConfigError(fmt.Sprintf("invalid remote retry delay '%s'", c.Compare.Remote.RetryDelay), err)
	}
	return c.compilePatterns()
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Compare.IgnorePaths {
		rule := &c.Compare.IgnorePaths[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid ignore path pattern '%s'", rule.Pattern), err)
		}
		rule.regex = regex
	}
	return nil
}

// MatchesPath checks if this rule matches the given diff path
func (pr *PathRule) MatchesPath(path string) bool {
	if pr.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(pr.Pattern)
		if err != nil {
			return false
		}
		pr.regex = regex
	}
	return pr.regex.MatchString(path)
}

// Filter drops the differences matched by any ignore rule, then keeps at most
// Settings.MaxDifferences of the rest
func (c *CompareConfig) Filter(diffs []models.DiffEntry) []models.DiffEntry {
	kept := diffs
	if len(c.IgnorePaths) > 0 {
		kept = make([]models.DiffEntry, 0, len(diffs))
		for _, d := range diffs {
			if !c.ignored(d.Path) {
				kept = append(kept, d)
			}
		}
	}
	if limit := c.Settings.MaxDifferences; limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// ComparerSettings returns the settings to hand a comparer. With ignore rules
// the limit is dropped here and applied by Filter instead.
func (c *CompareConfig) ComparerSettings() models.CompareSettings {
	settings := c.Settings
	if len(c.IgnorePaths) > 0 {
		settings.MaxDifferences = 0
	}
	return settings
}

func (c *CompareConfig) ignored(path string) bool {
	for i := range c.IgnorePaths {
		if c.IgnorePaths[i].MatchesPath(path) {
			return true
		}
	}
	return false
}

// TimeoutDuration parses Timeout; empty means no timeout
func (r RemoteConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration(r.Timeout)
}

// RetryDelayDuration parses RetryDelay; empty means retry immediately
func (r RemoteConfig) RetryDelayDuration() (time.Duration, error) {
	return parseDuration(r.RetryDelay)
}

func parseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// ReportFormat returns the configured report format, markdown if it is unknown
func (c *Config) ReportFormat() report.Format {
	f, err := report.ParseFormat(c.Report.Format)
	if err != nil {
		return report.FormatMarkdown
	}
	return f
}

// Overrides holds values given explicitly on the command line. Nil pointers
// and empty strings leave the configured value alone.
type Overrides struct {
	Format    string
	Title     string
	RootName  string
	RemoteURL string
	Addr      string
	LogLevel  string

	IncludeStats    *bool
	IncludePaths    *bool
	IncludeOriginal *bool
	PrettyPrint     *bool

	IgnoreOrder      *bool
	IgnoreWhitespace *bool
	CaseSensitive    *bool
	MaxDifferences   *int

	IgnorePaths []string
}

// MergeCLI returns a copy of c with the CLI overrides applied
func (c *Config) MergeCLI(o Overrides) (*Config, error) {
	merged := *c
	merged.Compare.IgnorePaths = append([]PathRule(nil), c.Compare.IgnorePaths...)

	setString(&merged.Report.Format, o.Format)
	setString(&merged.Report.Title, o.Title)
	setString(&merged.Report.RootName, o.RootName)
	setString(&merged.Compare.Remote.URL, o.RemoteURL)
	setString(&merged.Server.Addr, o.Addr)
	setString(&merged.Log.Level, o.LogLevel)

	setBool(&merged.Report.Render.IncludeStats, o.IncludeStats)
	setBool(&merged.Report.Render.IncludePaths, o.IncludePaths)
	setBool(&merged.Report.Render.IncludeOriginal, o.IncludeOriginal)
	setBool(&merged.Report.Render.PrettyPrint, o.PrettyPrint)

	setBool(&merged.Compare.Settings.IgnoreOrder, o.IgnoreOrder)
	setBool(&merged.Compare.Settings.IgnoreWhitespace, o.IgnoreWhitespace)
	setBool(&merged.Compare.Settings.CaseSensitive, o.CaseSensitive)
	if o.MaxDifferences != nil {
		merged.Compare.Settings.MaxDifferences = *o.MaxDifferences
	}

	for _, pattern := range o.IgnorePaths {
		merged.Compare.IgnorePaths = append(merged.Compare.IgnorePaths, PathRule{Pattern: pattern, Comment: "command line"})
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// An empty configPath uses the defaults.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	return cfg.MergeCLI(o)
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
