package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITLAB_URL", "")
	t.Setenv("GITLAB_TOKEN", "")
	t.Setenv("DEFAULT_ANALYSIS_DAYS", "")
	t.Setenv("CODE_FILE_EXTENSIONS", "")
	t.Setenv("SCAN_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.URL)
	assert.Empty(t, cfg.GitLab.Token)
	assert.Equal(t, 60, cfg.Analysis.DefaultDays)
	assert.Equal(t, 4, cfg.Analysis.ScanWorkers)
	assert.Contains(t, cfg.Analysis.CodeFileExtensions, ".go")
	assert.Contains(t, cfg.Analysis.CodeFileExtensions, ".py")
	assert.Equal(t, "./projects", cfg.Paths.ProjectsDir)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GITLAB_URL", "https://git.internal.corp")
	t.Setenv("GITLAB_TOKEN", "glpat-secret")
	t.Setenv("DEFAULT_ANALYSIS_DAYS", "30")
	t.Setenv("CODE_FILE_EXTENSIONS", ".go, .rs")
	t.Setenv("EXCLUDE_REPOSITORIES", "sandbox, archive")
	t.Setenv("SCAN_WORKERS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://git.internal.corp", cfg.GitLab.URL)
	assert.Equal(t, "glpat-secret", cfg.GitLab.Token)
	assert.Equal(t, 30, cfg.Analysis.DefaultDays)
	assert.Equal(t, []string{".go", ".rs"}, cfg.Analysis.CodeFileExtensions)
	assert.Equal(t, []string{"sandbox", "archive"}, cfg.Analysis.ExcludeRepositories)
	// Worker count is clamped to at least one.
	assert.Equal(t, 1, cfg.Analysis.ScanWorkers)
}

func TestRequireToken(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)

	cfg.GitLab.Token = "glpat-secret"
	assert.NoError(t, cfg.RequireToken())
}

func TestIsCodeFile(t *testing.T) {
	cfg := &Config{}
	cfg.Analysis.CodeFileExtensions = []string{".go", ".py"}

	assert.True(t, cfg.IsCodeFile("internal/service.go"))
	assert.True(t, cfg.IsCodeFile("scripts/run.py"))
	assert.False(t, cfg.IsCodeFile("README.md"))
	assert.False(t, cfg.IsCodeFile("vendor.go.bak"))
}

func TestShouldExcludeRepository(t *testing.T) {
	cfg := &Config{}
	cfg.Analysis.ExcludeRepositories = []string{"sandbox"}

	assert.True(t, cfg.ShouldExcludeRepository("sandbox"))
	assert.False(t, cfg.ShouldExcludeRepository("sandbox-2"))
	assert.False(t, cfg.ShouldExcludeRepository("service"))
}
