package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"

	"labscope/internal/models"
)

// Summary holds the aggregate figures shown in the report header and on the
// console.
type Summary struct {
	TotalAuthors      int
	TotalAdded        int
	TotalRemoved      int
	TotalNet          int
	TotalCommits      int
	AvgCommitsPerAuth float64
	MedianCommits     float64
}

// Summarize computes the aggregate figures over the consolidated table.
func Summarize(authors []*models.AuthorStats) Summary {
	summary := Summary{TotalAuthors: len(authors)}

	commitCounts := make([]float64, 0, len(authors))
	for _, author := range authors {
		summary.TotalAdded += author.Added
		summary.TotalRemoved += author.Removed
		summary.TotalNet += author.Net()
		summary.TotalCommits += author.CommitCount
		commitCounts = append(commitCounts, float64(author.CommitCount))
	}

	if len(commitCounts) > 0 {
		summary.AvgCommitsPerAuth, _ = stats.Mean(commitCounts)
		summary.MedianCommits, _ = stats.Median(commitCounts)
	}
	return summary
}

// WriteTextReport writes the fixed-width analysis report and returns its
// path.
func WriteTextReport(dir, timestamp string, authors []*models.AuthorStats, since, until time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("analysis_report_%s.txt", timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	summary := Summarize(authors)

	fmt.Fprintln(f, "Git Repository Analysis Report (Email-Consolidated with Commit Frequency)")
	fmt.Fprintln(f, strings.Repeat("=", 120))
	fmt.Fprintf(f, "Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "Analysis Period: %s to %s\n", since.Format("2006-01-02"), until.Format("2006-01-02"))
	fmt.Fprintln(f, "Scope: All Local Repositories")
	fmt.Fprintln(f, "Note: Excluding merge commits and pull requests")
	fmt.Fprintln(f, "Note: Authors grouped by email address to consolidate duplicate identities")
	fmt.Fprintln(f, strings.Repeat("=", 120))
	fmt.Fprintln(f)

	fmt.Fprintln(f, "SUMMARY STATISTICS:")
	fmt.Fprintln(f, strings.Repeat("-", 40))
	fmt.Fprintf(f, "Total Authors: %d\n", summary.TotalAuthors)
	fmt.Fprintf(f, "Total Lines Added: %d\n", summary.TotalAdded)
	fmt.Fprintf(f, "Total Lines Removed: %d\n", summary.TotalRemoved)
	fmt.Fprintf(f, "Net Lines Added: %d\n", summary.TotalNet)
	fmt.Fprintf(f, "Total Commits: %d\n", summary.TotalCommits)
	fmt.Fprintf(f, "Average Commits per Author: %.1f\n", summary.AvgCommitsPerAuth)
	fmt.Fprintf(f, "Median Commits per Author: %.1f\n", summary.MedianCommits)
	fmt.Fprintln(f)

	fmt.Fprintln(f, "DETAILED REPORT BY AUTHOR (CONSOLIDATED BY EMAIL WITH COMMIT FREQUENCY):")
	fmt.Fprintln(f, strings.Repeat("-", 120))
	fmt.Fprintln(f, tableHeader())
	fmt.Fprintln(f, strings.Repeat("-", 120))
	for _, author := range authors {
		fmt.Fprintln(f, tableRow(author))
	}

	fmt.Fprintln(f)
	fmt.Fprintln(f, strings.Repeat("=", 120))
	fmt.Fprintln(f, "Column Descriptions:")
	fmt.Fprintln(f, "- Added: Lines of code added")
	fmt.Fprintln(f, "- Removed: Lines of code removed")
	fmt.Fprintln(f, "- Net: Net lines added (Added - Removed)")
	fmt.Fprintln(f, "- Commits: Total number of commits")
	fmt.Fprintln(f, "- Avg/Day: Average commits per day over total period (first to last commit)")
	fmt.Fprintln(f, "- Act.Days: Days with commits, summed per repository (not deduplicated across repositories)")
	fmt.Fprintln(f, "- Period: Date range from first to last commit")

	return path, nil
}

// PrintConsoleTable prints the consolidated table and summary to stdout with
// a little color.
func PrintConsoleTable(authors []*models.AuthorStats) {
	header := color.New(color.FgCyan, color.Bold)
	header.Println("\nCONSOLIDATED SUMMARY (Email-Grouped with Commit Frequency):")
	fmt.Println(strings.Repeat("-", 120))
	fmt.Println(tableHeader())
	fmt.Println(strings.Repeat("-", 120))
	for _, author := range authors {
		fmt.Println(tableRow(author))
	}

	summary := Summarize(authors)
	header.Println("\nSUMMARY STATISTICS:")
	fmt.Printf("Total Authors: %d\n", summary.TotalAuthors)
	color.Green("Total Lines Added: %d", summary.TotalAdded)
	color.Red("Total Lines Removed: %d", summary.TotalRemoved)
	fmt.Printf("Net Lines Added: %d\n", summary.TotalNet)
	fmt.Printf("Total Commits: %d\n", summary.TotalCommits)
	fmt.Printf("Average Commits per Author: %.1f\n", summary.AvgCommitsPerAuth)
}

func tableHeader() string {
	return fmt.Sprintf("%-35s | %8s | %8s | %8s | %7s | %7s | %8s | %15s",
		"Author (Email)", "Added", "Removed", "Net", "Commits", "Avg/Day", "Act.Days", "Period")
}

func tableRow(author *models.AuthorStats) string {
	return fmt.Sprintf("%-35s | %8d | %8d | %8d | %7d | %7.2f | %8d | %15s",
		authorDisplay(author), author.Added, author.Removed, author.Net(),
		author.CommitCount, author.AvgCommitsPerDay(), author.ActiveDays,
		formatPeriod(author.FirstCommit, author.LastCommit))
}
