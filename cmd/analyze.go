package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"labscope/internal/models"
	"labscope/internal/reports"
	"labscope/internal/services"
	"labscope/internal/storage"
	"labscope/pkg/database"
	"labscope/pkg/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze local repository clones and report per-author statistics",
	Long: `Scans every Git repository under the projects directory, tallies added and
removed lines per author within the date window (merge commits excluded),
consolidates duplicate identities by email and writes text, CSV and XLSX
reports into a timestamped directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sinceStr, _ := cmd.Flags().GetString("since")
		untilStr, _ := cmd.Flags().GetString("until")
		authors, _ := cmd.Flags().GetStringSlice("authors")
		jobs, _ := cmd.Flags().GetInt("jobs")

		since, err := time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return fmt.Errorf("invalid --since date %q, expected YYYY-MM-DD", sinceStr)
		}
		until, err := time.Parse("2006-01-02", untilStr)
		if err != nil {
			return fmt.Errorf("invalid --until date %q, expected YYYY-MM-DD", untilStr)
		}
		if until.Before(since) {
			return fmt.Errorf("--until (%s) is before --since (%s)", untilStr, sinceStr)
		}
		if len(authors) == 0 {
			authors = cfg.Analysis.DefaultAuthors
		}
		if jobs > 0 {
			cfg.Analysis.ScanWorkers = jobs
		}

		run := models.NewAnalysisRun(sinceStr, untilStr)

		analyzer := services.NewAnalyzeService(cfg)
		repos, err := analyzer.DiscoverRepositories()
		if err != nil {
			return err
		}
		if len(repos) == 0 {
			return fmt.Errorf("no Git repositories found in %s", cfg.Paths.ProjectsDir)
		}
		logger.Infof("Found %d repositories to analyze", len(repos))

		result, err := analyzer.Analyze(repos, since, until, authors)
		if err != nil {
			return err
		}
		if len(result.Authors) == 0 {
			logger.Info("No data available to generate report.")
			return nil
		}

		timestamp := reports.Timestamp(time.Now())
		dir, err := reports.NewRunDir(cfg.Paths.ReportsDir, "analysis", timestamp)
		if err != nil {
			return err
		}

		textPath, err := reports.WriteTextReport(dir, timestamp, result.Authors, since, until)
		if err != nil {
			return err
		}
		csvPath, err := reports.WriteAuthorCSV(dir, timestamp, result.Authors)
		if err != nil {
			return err
		}
		xlsxPath, err := reports.WriteAuthorXLSX(dir, timestamp, result.Authors, since, until)
		if err != nil {
			return err
		}

		reports.PrintConsoleTable(result.Authors)
		logger.Infof("Analysis reports saved to: %s", dir)
		logger.Infof("  - Text report: %s", textPath)
		logger.Infof("  - CSV report: %s", csvPath)
		logger.Infof("  - Spreadsheet: %s", xlsxPath)

		recordRun(run, result, dir)
		return nil
	},
}

// recordRun persists run history; failures are logged, never fatal.
func recordRun(run *models.AnalysisRun, result *services.AnalysisResult, reportDir string) {
	db, err := database.Init(cfg.Database.Path)
	if err != nil {
		logger.Warnf("Could not open run history database: %v", err)
		return
	}
	defer db.Close()

	summary := reports.Summarize(result.Authors)
	run.FinishedAt = time.Now()
	run.RepoCount = result.RepoCount
	run.AuthorCount = summary.TotalAuthors
	run.TotalAdded = summary.TotalAdded
	run.TotalRemoved = summary.TotalRemoved
	run.TotalCommits = summary.TotalCommits
	run.ReportDir = reportDir

	if err := storage.NewRunRepository(db).Create(run); err != nil {
		logger.Warnf("Could not record analysis run: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().String("since", time.Now().AddDate(0, 0, -365).Format("2006-01-02"), "Start date for analysis (YYYY-MM-DD)")
	analyzeCmd.Flags().String("until", time.Now().Format("2006-01-02"), "End date for analysis (YYYY-MM-DD), inclusive")
	analyzeCmd.Flags().StringSlice("authors", nil, "Filter by author name or email substrings")
	analyzeCmd.Flags().Int("jobs", 0, "Parallel repository scans (default from SCAN_WORKERS)")
}
