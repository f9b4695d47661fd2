package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"labscope/internal/models"
)

var authorCSVHeader = []string{
	"email", "name", "added", "removed", "net", "commit_count",
	"active_days_count", "first_commit", "last_commit", "total_days",
	"avg_commits_per_day", "avg_commits_per_active_day",
}

var issueCSVHeader = []string{
	"repository", "project_url", "issue_id", "issue_iid", "title", "description",
	"web_url", "state", "created_at", "updated_at", "author", "author_username",
	"assignees", "assignee_usernames", "labels", "milestone", "due_date",
	"weight", "upvotes", "downvotes",
}

// WriteAuthorCSV writes the consolidated author table as CSV, one row per
// author, and returns the file path.
func WriteAuthorCSV(dir, timestamp string, authors []*models.AuthorStats) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("analysis_report_%s.csv", timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(authorCSVHeader); err != nil {
		return "", err
	}
	for _, author := range authors {
		row := []string{
			author.Email,
			author.Name,
			strconv.Itoa(author.Added),
			strconv.Itoa(author.Removed),
			strconv.Itoa(author.Net()),
			strconv.Itoa(author.CommitCount),
			strconv.Itoa(author.ActiveDays),
			formatDate(author.FirstCommit),
			formatDate(author.LastCommit),
			strconv.Itoa(author.TotalDays()),
			strconv.FormatFloat(author.AvgCommitsPerDay(), 'f', 4, 64),
			strconv.FormatFloat(author.AvgCommitsPerActiveDay(), 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return path, w.Error()
}

// WriteIssueCSV writes issues as CSV rows and returns the file path. The
// name parameter distinguishes per-project files from the consolidated one.
func WriteIssueCSV(dir, name, timestamp string, issues []*models.Issue) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_issues_%s.csv", SafeFilename(name), timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(issueCSVHeader); err != nil {
		return "", err
	}
	for _, issue := range issues {
		row := []string{
			issue.Repository,
			issue.ProjectURL,
			strconv.Itoa(issue.ID),
			strconv.Itoa(issue.IID),
			issue.Title,
			flattenText(issue.Description),
			issue.WebURL,
			issue.State,
			issue.CreatedAt,
			issue.UpdatedAt,
			issue.Author,
			issue.AuthorUsername,
			strings.Join(issue.Assignees, ", "),
			strings.Join(issue.AssigneeUsernames, ", "),
			strings.Join(issue.Labels, ", "),
			issue.Milestone,
			issue.DueDate,
			issue.Weight,
			strconv.Itoa(issue.Upvotes),
			strconv.Itoa(issue.Downvotes),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return path, w.Error()
}

// flattenText collapses newlines so descriptions stay on one CSV row for
// spreadsheet viewers that mishandle quoted line breaks.
func flattenText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
