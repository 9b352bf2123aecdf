package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mcncl/jsondelta/internal/models"
	"github.com/mcncl/jsondelta/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, "JSON Diff Report", cfg.Report.Title)
	assert.Equal(t, "root", cfg.Report.RootName)
	assert.Equal(t, models.DefaultRenderConfig(), cfg.Report.Render)
	assert.Equal(t, models.DefaultCompareSettings(), cfg.Compare.Settings)
	assert.Empty(t, cfg.Compare.Remote.URL)
	assert.Equal(t, 3, cfg.Compare.Remote.Retries)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
report:
  format: "html"
  title: "Nightly drift"
  render:
    include_stats: false
    include_original: true
compare:
  settings:
    ignore_order: true
    case_sensitive: false
    max_differences: 50
  ignore_paths:
    - pattern: "^metadata\\."
      comment: "volatile"
  remote:
    url: "http://localhost:8080/api"
    timeout: "5s"
server:
  addr: "127.0.0.1:9000"
log:
  level: "debug"
`
	cfg, err := LoadConfig(writeConfig(t, ".jsondelta.yml", yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Report.Format)
	assert.Equal(t, report.FormatHTML, cfg.ReportFormat())
	assert.Equal(t, "Nightly drift", cfg.Report.Title)
	assert.False(t, cfg.Report.Render.IncludeStats)
	assert.True(t, cfg.Report.Render.IncludeOriginal)
	// Keys missing from the file keep their defaults
	assert.True(t, cfg.Report.Render.IncludePaths)
	assert.True(t, cfg.Compare.Settings.IgnoreOrder)
	assert.False(t, cfg.Compare.Settings.CaseSensitive)
	assert.True(t, cfg.Compare.Settings.IgnoreWhitespace)
	assert.Equal(t, 50, cfg.Compare.Settings.MaxDifferences)
	assert.Equal(t, "http://localhost:8080/api", cfg.Compare.Remote.URL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)

	timeout, err := cfg.Compare.Remote.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)

	require.Len(t, cfg.Compare.IgnorePaths, 1)
	rule := cfg.Compare.IgnorePaths[0]
	assert.Equal(t, `^metadata\.`, rule.Pattern)
	assert.Equal(t, "volatile", rule.Comment)
}

func TestConfig_LoadFromTOML(t *testing.T) {
	tomlContent := `
[report]
format = "csv"
root_name = "document"

[report.render]
pretty_print = false

[compare.settings]
ignore_whitespace = false

[[compare.ignore_paths]]
pattern = "\\.updatedAt$"

[compare.remote]
retries = 1
retry_delay = "1s"
`
	cfg, err := LoadConfig(writeConfig(t, "jsondelta.toml", tomlContent))
	require.NoError(t, err)

	assert.Equal(t, report.FormatCSV, cfg.ReportFormat())
	assert.Equal(t, "document", cfg.Report.RootName)
	assert.False(t, cfg.Report.Render.PrettyPrint)
	assert.True(t, cfg.Report.Render.IncludeStats)
	assert.False(t, cfg.Compare.Settings.IgnoreWhitespace)
	assert.Equal(t, 1, cfg.Compare.Remote.Retries)
	require.Len(t, cfg.Compare.IgnorePaths, 1)
	assert.True(t, cfg.Compare.IgnorePaths[0].MatchesPath("users[0].updatedAt"))

	delay, err := cfg.Compare.Remote.RetryDelayDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, delay)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	invalidYAML := `
report:
  format: [unclosed array
`
	_, err := LoadConfig(writeConfig(t, "invalid.yml", invalidYAML))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_LoadInvalidTOML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "invalid.toml", "[report\nformat = "))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{
			name:     "unknown format",
			mutate:   func(c *Config) { c.Report.Format = "pdf" },
			contains: "invalid report format 'pdf'",
		},
		{
			name:     "format alias is fine",
			mutate:   func(c *Config) { c.Report.Format = "md" },
			contains: "",
		},
		{
			name:     "negative max differences",
			mutate:   func(c *Config) { c.Compare.Settings.MaxDifferences = -1 },
			contains: "max_differences cannot be negative",
		},
		{
			name:     "negative retries",
			mutate:   func(c *Config) { c.Compare.Remote.Retries = -2 },
			contains: "remote retries cannot be negative",
		},
		{
			name:     "bad timeout",
			mutate:   func(c *Config) { c.Compare.Remote.Timeout = "soon" },
			contains: "invalid remote timeout 'soon'",
		},
		{
			name:     "bad retry delay",
			mutate:   func(c *Config) { c.Compare.Remote.RetryDelay = "10 parsecs" },
			contains: "invalid remote retry delay",
		},
		{
			name: "bad pattern",
			mutate: func(c *Config) {
				c.Compare.IgnorePaths = []PathRule{{Pattern: "[invalid"}}
			},
			contains: "invalid ignore path pattern '[invalid'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.contains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".jsondelta.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`[log]
level = "warn"`), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	cfg, err := LoadConfig(foundPath)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	assert.Empty(t, FindConfigFile())
}

func TestPathRule_MatchesPath(t *testing.T) {
	rule := PathRule{Pattern: `^users\[\d+\]\.id$`}

	assert.True(t, rule.MatchesPath("users[0].id"))
	assert.True(t, rule.MatchesPath("users[12].id"))
	assert.False(t, rule.MatchesPath("users[0].name"))
	assert.False(t, rule.MatchesPath("admins[0].id"))
}

func TestPathRule_InvalidPattern(t *testing.T) {
	rule := PathRule{Pattern: "[invalid"}
	assert.False(t, rule.MatchesPath("anything"))
}

func TestCompareConfig_Filter(t *testing.T) {
	diffs := []models.DiffEntry{
		models.Modified("metadata.timestamp", "a", "b"),
		models.Added("users[1]", "x"),
		models.Removed("metadata.version", "1.0"),
	}

	cfg := NewConfig()
	assert.Equal(t, diffs, cfg.Compare.Filter(diffs))

	cfg.Compare.IgnorePaths = []PathRule{{Pattern: `^metadata\.`}}
	require.NoError(t, cfg.Validate())

	kept := cfg.Compare.Filter(diffs)
	require.Len(t, kept, 1)
	assert.Equal(t, "users[1]", kept[0].Path)
}

func TestCompareConfig_FilterAppliesLimitAfterIgnoring(t *testing.T) {
	diffs := []models.DiffEntry{
		models.Modified("metadata.timestamp", "a", "b"),
		models.Modified("metadata.version", "1", "2"),
		models.Added("users[1]", "x"),
		models.Added("users[2]", "y"),
		models.Added("users[3]", "z"),
	}

	tests := []struct {
		name     string
		ignore   []PathRule
		limit    int
		expected []string
		settings int
	}{
		{"limit without rules", nil, 2, []string{"metadata.timestamp", "metadata.version"}, 2},
		{"limit counts kept entries", []PathRule{{Pattern: `^metadata\.`}}, 2, []string{"users[1]", "users[2]"}, 0},
		{"no limit", []PathRule{{Pattern: `^metadata\.`}}, 0, []string{"users[1]", "users[2]", "users[3]"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Compare.IgnorePaths = tt.ignore
			cfg.Compare.Settings.MaxDifferences = tt.limit
			require.NoError(t, cfg.Validate())

			var got []string
			for _, d := range cfg.Compare.Filter(diffs) {
				got = append(got, d.Path)
			}
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.settings, cfg.Compare.ComparerSettings().MaxDifferences)
		})
	}
}

func TestConfig_MergeCLI(t *testing.T) {
	base := NewConfig()
	base.Report.Title = "From file"
	base.Compare.IgnorePaths = []PathRule{{Pattern: "^a$"}}

	yes, no := true, false
	limit := 5
	merged, err := base.MergeCLI(Overrides{
		Format:         "json",
		RemoteURL:      "http://remote/api",
		IncludeStats:   &no,
		IgnoreOrder:    &yes,
		MaxDifferences: &limit,
		IgnorePaths:    []string{"^b$"},
	})
	require.NoError(t, err)

	assert.Equal(t, "json", merged.Report.Format)
	assert.Equal(t, "From file", merged.Report.Title)
	assert.Equal(t, "http://remote/api", merged.Compare.Remote.URL)
	assert.False(t, merged.Report.Render.IncludeStats)
	assert.True(t, merged.Report.Render.IncludePaths)
	assert.True(t, merged.Compare.Settings.IgnoreOrder)
	assert.Equal(t, 5, merged.Compare.Settings.MaxDifferences)
	require.Len(t, merged.Compare.IgnorePaths, 2)

	// The base config is not modified
	assert.Equal(t, "markdown", base.Report.Format)
	assert.True(t, base.Report.Render.IncludeStats)
	assert.Len(t, base.Compare.IgnorePaths, 1)
}

func TestConfig_MergeCLIValidates(t *testing.T) {
	_, err := NewConfig().MergeCLI(Overrides{Format: "docx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid report format 'docx'")
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	configYAML := `
report:
  format: "csv"
  title: "From file"
compare:
  settings:
    ignore_order: true
`
	path := writeConfig(t, "precedence.yml", configYAML)

	cfg, err := LoadConfigWithCLI(path, Overrides{Title: "From CLI"})
	require.NoError(t, err)

	// Verify precedence: CLI > config file > defaults
	assert.Equal(t, "From CLI", cfg.Report.Title)
	assert.Equal(t, "csv", cfg.Report.Format)
	assert.True(t, cfg.Compare.Settings.IgnoreOrder)
	assert.True(t, cfg.Compare.Settings.CaseSensitive)
}

func TestLoadConfigWithPrecedence_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Report, cfg.Report)
}
