package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	gitlabapi "labscope/internal/gitlab"
	"labscope/internal/models"
	"labscope/internal/reports"
	"labscope/internal/services"
	"labscope/pkg/logger"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Export recent open issues of locally cloned projects",
	Long: `Maps each local clone back to its GitLab project via the origin remote,
fetches open issues created or updated within the trailing window and writes
per-project files plus a consolidated file in the chosen format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireToken(); err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = cfg.Analysis.DefaultDays
		}

		var dirKind string
		switch format {
		case "markdown":
			dirKind = "issues_export"
		case "csv":
			dirKind = "issues_csv"
		case "jira":
			dirKind = "jira"
		default:
			return fmt.Errorf("unknown --format %q, expected markdown, csv or jira", format)
		}

		client, err := gitlabapi.NewClient(cfg)
		if err != nil {
			return err
		}
		logger.Infof("Connected to GitLab instance: %s", cfg.GitLab.URL)

		issueService := services.NewIssueService(cfg, client)
		projectPaths, err := issueService.DiscoverProjectPaths()
		if err != nil {
			return err
		}
		if len(projectPaths) == 0 {
			return fmt.Errorf("no GitLab projects found under %s", cfg.Paths.ProjectsDir)
		}

		timestamp := reports.Timestamp(time.Now())
		dir, err := reports.NewRunDir(cfg.Paths.ReportsDir, dirKind, timestamp)
		if err != nil {
			return err
		}
		logger.Infof("Export directory: %s", dir)

		switch format {
		case "jira":
			err = exportJira(issueService, projectPaths, dir, timestamp, days)
		default:
			err = exportIssues(issueService, projectPaths, dir, timestamp, days, format)
		}
		if err != nil {
			return err
		}

		logger.Infof("Issue export complete: %s", dir)
		return nil
	},
}

// exportIssues handles the markdown and csv formats.
func exportIssues(issueService *services.IssueService, projectPaths []string, dir, timestamp string, days int, format string) error {
	var allIssues []*models.Issue

	for _, projectPath := range projectPaths {
		logger.Infof("Fetching recent issues for: %s", projectPath)
		project, issues, err := issueService.CollectProjectIssues(projectPath, days)
		if err != nil {
			logger.Warnf("Error fetching issues for project %s: %v", projectPath, err)
			continue
		}
		if len(issues) == 0 {
			logger.Infof("  No recent issues found for %s", projectPath)
			continue
		}

		var path string
		if format == "markdown" {
			path, err = reports.WriteIssueMarkdown(dir, project.Name, project.WebURL, timestamp, issues, days)
		} else {
			path, err = reports.WriteIssueCSV(dir, project.Name, timestamp, issues)
		}
		if err != nil {
			return err
		}
		logger.Infof("  Exported %d issues to: %s", len(issues), path)
		allIssues = append(allIssues, issues...)
	}

	if format == "csv" && len(allIssues) > 0 {
		path, err := reports.WriteIssueCSV(dir, "all_repositories", timestamp, allIssues)
		if err != nil {
			return err
		}
		logger.Infof("Consolidated CSV created: %s (%d issues)", path, len(allIssues))
	}
	return nil
}

// exportJira handles the Jira import format, including the consolidated CSV,
// summary file and export statistics.
func exportJira(issueService *services.IssueService, projectPaths []string, dir, timestamp string, days int) error {
	var allIssues []*models.JiraIssue
	var exportedFiles []string

	for _, projectPath := range projectPaths {
		logger.Infof("Fetching recent issues for: %s", projectPath)
		project, raw, err := issueService.CollectRawIssues(projectPath, days)
		if err != nil {
			logger.Warnf("Error fetching issues for project %s: %v", projectPath, err)
			continue
		}
		if len(raw) == 0 {
			logger.Infof("  No recent issues found for %s", projectPath)
			continue
		}

		jiraIssues := issueService.BuildJiraIssues(project, raw)
		path, err := reports.WriteJiraCSV(dir, project.Name, timestamp, jiraIssues)
		if err != nil {
			return err
		}
		logger.Infof("  Exported %d issues to: %s", len(jiraIssues), path)
		exportedFiles = append(exportedFiles, path)
		allIssues = append(allIssues, jiraIssues...)
	}

	if len(allIssues) == 0 {
		logger.Info("No issues were exported.")
		return nil
	}

	consolidated, err := reports.WriteJiraCSV(dir, "all_issues", timestamp, allIssues)
	if err != nil {
		return err
	}
	exportedFiles = append(exportedFiles, consolidated)
	logger.Infof("Consolidated Jira import CSV created: %s", consolidated)
	logger.Infof("Total issues across all repositories: %d", len(allIssues))

	if _, err := reports.WriteJiraSummary(dir, timestamp, exportedFiles, days); err != nil {
		return err
	}
	reports.PrintJiraStatistics(allIssues)
	return nil
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.Flags().String("format", "markdown", "Export format: markdown, csv or jira")
	issuesCmd.Flags().Int("days", 0, "Trailing window in days (default from DEFAULT_ANALYSIS_DAYS)")
}
