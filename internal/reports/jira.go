package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"labscope/internal/models"
)

// jiraCSVHeader is the fixed 20-column Jira import schema; column order
// matters for the import mapping.
var jiraCSVHeader = []string{
	"Issue Type", "Summary", "Description", "Status", "Priority", "Reporter",
	"Assignee", "Labels", "Components", "Fix Version", "Story Points", "Due Date",
	"Created", "Updated", "External ID", "Original URL", "Repository",
	"GitLab Issue ID", "Upvotes", "Downvotes",
}

// WriteJiraCSV writes issues in the Jira import schema and returns the file
// path.
func WriteJiraCSV(dir, name, timestamp string, issues []*models.JiraIssue) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_jira_import_%s.csv", SafeFilename(name), timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(jiraCSVHeader); err != nil {
		return "", err
	}
	for _, issue := range issues {
		row := []string{
			issue.IssueType, issue.Summary, issue.Description, issue.Status,
			issue.Priority, issue.Reporter, issue.Assignee, issue.Labels,
			issue.Components, issue.FixVersion, issue.StoryPoints, issue.DueDate,
			issue.Created, issue.Updated, issue.ExternalID, issue.OriginalURL,
			issue.Repository, issue.GitLabIssueID, issue.Upvotes, issue.Downvotes,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return path, w.Error()
}

// WriteJiraSummary writes the export summary file listing the produced CSVs
// and the import steps.
func WriteJiraSummary(dir, timestamp string, exportedFiles []string, daysBack int) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("jira_import_summary_%s.txt", timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintln(f, "GitLab to Jira Issues Export Summary")
	fmt.Fprintln(f, strings.Repeat("=", 50))
	fmt.Fprintf(f, "Generated on: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "Export period: Last %d days\n", daysBack)
	fmt.Fprintf(f, "Total exported files: %d\n", len(exportedFiles))
	fmt.Fprintf(f, "Export directory: %s\n\n", dir)

	fmt.Fprintln(f, "Exported Files:")
	fmt.Fprintln(f, strings.Repeat("-", 30))
	for i, filePath := range exportedFiles {
		fmt.Fprintf(f, "%d. %s\n", i+1, filepath.Base(filePath))
	}

	fmt.Fprintln(f, "\nFor Jira import:")
	fmt.Fprintln(f, "1. Use the consolidated CSV file for bulk import")
	fmt.Fprintln(f, "2. In Jira: System → External System Import → CSV")
	fmt.Fprintln(f, "3. Map CSV columns to Jira fields")
	fmt.Fprintln(f, "4. Review and confirm import")
	fmt.Fprintln(f, "\nNote: Issues include full context with user names in descriptions and comments")

	return path, nil
}

// PrintJiraStatistics prints per-type/status/priority/repository counts for
// the exported issues.
func PrintJiraStatistics(issues []*models.JiraIssue) {
	if len(issues) == 0 {
		return
	}

	issueTypes := make(map[string]int)
	statuses := make(map[string]int)
	priorities := make(map[string]int)
	repositories := make(map[string]int)

	for _, issue := range issues {
		issueTypes[issue.IssueType]++
		statuses[issue.Status]++
		priorities[issue.Priority]++
		repositories[issue.Repository]++
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("EXPORT STATISTICS:")
	fmt.Println(strings.Repeat("=", 60))

	printCounts("By Issue Type:", issueTypes)
	printCounts("\nBy Status:", statuses)
	printCounts("\nBy Priority:", priorities)
	printCountsByValue("\nBy Repository:", repositories)
}

func printCounts(title string, counts map[string]int) {
	fmt.Println(title)
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("  %s: %d\n", key, counts[key])
	}
}

func printCountsByValue(title string, counts map[string]int) {
	fmt.Println(title)
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		fmt.Printf("  %s: %d\n", key, counts[key])
	}
}
