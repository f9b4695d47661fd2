package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the tool. It is constructed once by
// Load and passed explicitly to the components that need it.
type Config struct {
	GitLab   GitLabConfig
	Analysis AnalysisConfig
	Paths    PathsConfig
	Database DatabaseConfig
	Server   ServerConfig
	LogLevel string
}

type GitLabConfig struct {
	URL   string
	Token string
	Group string
}

type AnalysisConfig struct {
	DefaultDays         int
	CodeFileExtensions  []string
	DefaultAuthors      []string
	ExcludeRepositories []string
	ScanWorkers         int
}

type PathsConfig struct {
	ProjectsDir string
	ReportsDir  string
}

type DatabaseConfig struct {
	Path string
}

type ServerConfig struct {
	Port string
}

const defaultExtensions = ".py,.js,.java,.cpp,.c,.h,.cs,.php,.rb,.go,.ts,.jsx,.vue,.html,.css,.scss,.sql,.yaml,.yml,.json,.xml"

// ErrMissingToken is returned by RequireToken when no GitLab access token is
// configured.
var ErrMissingToken = errors.New("GitLab private token not found. Set GITLAB_TOKEN environment variable.\n" +
	"You can generate a personal access token in GitLab:\n" +
	"  Profile → Access Tokens → Personal Access Tokens\n" +
	"  Required scopes: api, read_repository")

// Load loads configuration from the .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		GitLab: GitLabConfig{
			URL:   getEnv("GITLAB_URL", "https://gitlab.example.com"),
			Token: getEnv("GITLAB_TOKEN", ""),
			Group: getEnv("GITLAB_GROUP", ""),
		},
		Analysis: AnalysisConfig{
			DefaultDays:         getEnvAsInt("DEFAULT_ANALYSIS_DAYS", 60),
			CodeFileExtensions:  getEnvAsList("CODE_FILE_EXTENSIONS", defaultExtensions),
			DefaultAuthors:      getEnvAsList("DEFAULT_AUTHORS", ""),
			ExcludeRepositories: getEnvAsList("EXCLUDE_REPOSITORIES", ""),
			ScanWorkers:         getEnvAsInt("SCAN_WORKERS", 4),
		},
		Paths: PathsConfig{
			ProjectsDir: getEnv("PROJECTS_DIRECTORY", "./projects"),
			ReportsDir:  getEnv("REPORTS_DIRECTORY", "./gitlab_reports"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./labscope.db"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.Analysis.ScanWorkers < 1 {
		cfg.Analysis.ScanWorkers = 1
	}

	return cfg, nil
}

// RequireToken validates that a GitLab access token is present. Commands that
// talk to the GitLab API call this before doing any work.
func (c *Config) RequireToken() error {
	if c.GitLab.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// IsCodeFile reports whether a path has one of the configured source-code
// extensions.
func (c *Config) IsCodeFile(path string) bool {
	for _, ext := range c.Analysis.CodeFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// ShouldExcludeRepository reports whether a repository name is configured to
// be skipped during discovery.
func (c *Config) ShouldExcludeRepository(name string) bool {
	for _, excluded := range c.Analysis.ExcludeRepositories {
		if name == excluded {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable as a trimmed list
func getEnvAsList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
