// Package reports writes analysis and issue-export output files into
// timestamped directories under the configured reports root.
package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"labscope/internal/models"
)

// Timestamp returns the file-name timestamp for one output run.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// NewRunDir creates a timestamped output directory like
// "<reports-root>/<kind>_<timestamp>".
func NewRunDir(reportsRoot, kind, timestamp string) (string, error) {
	dir := filepath.Join(reportsRoot, fmt.Sprintf("%s_%s", kind, timestamp))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	return dir, nil
}

// SafeFilename strips characters unsuitable for filenames from a project
// name and replaces spaces with underscores.
func SafeFilename(name string) string {
	var out []rune
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		case r == '-' || r == '_':
			out = append(out, r)
		}
	}
	return string(out)
}

// formatPeriod renders a first-to-last commit date range the way the text
// report expects: a single date, MM/DD-MM/DD/YY within one year, or
// MM/DD/YY-MM/DD/YY across years.
func formatPeriod(first, last time.Time) string {
	if first.IsZero() || last.IsZero() {
		return "N/A"
	}
	if first.Equal(last) {
		return first.Format("2006-01-02")
	}
	if first.Year() == last.Year() {
		return fmt.Sprintf("%s-%s", first.Format("01/02"), last.Format("01/02/06"))
	}
	return fmt.Sprintf("%s-%s", first.Format("01/02/06"), last.Format("01/02/06"))
}

// authorDisplay renders "Name (email)" truncated to the table column width.
// Truncation is by runes so a multi-byte name is never cut mid-character.
func authorDisplay(author *models.AuthorStats) string {
	display := fmt.Sprintf("%s (%s)", author.Name, author.Email)
	if runes := []rune(display); len(runes) > 35 {
		display = string(runes[:32]) + "..."
	}
	return display
}

// WriteRepositoryList writes the enumerated active-repository list file and
// returns its path.
func WriteRepositoryList(dir, instanceURL, timestamp string, repos []*models.Project) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("repositories_%s.txt", timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "GitLab Active Repositories (Read-Only Analysis)")
	fmt.Fprintln(f, strings.Repeat("=", 50))
	fmt.Fprintln(f)
	fmt.Fprintf(f, "Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "GitLab Instance: %s\n\n", instanceURL)

	for _, repo := range repos {
		fmt.Fprintf(f, "Repository: %s\n", repo.PathWithNamespace)
		if repo.LastCommitAt != "" {
			fmt.Fprintf(f, "Last Commit: %s\n", repo.LastCommitAt)
		}
		fmt.Fprintf(f, "Web URL: %s\n", repo.WebURL)
		fmt.Fprintln(f, strings.Repeat("-", 50))
	}

	return path, nil
}
