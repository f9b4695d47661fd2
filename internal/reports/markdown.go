package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"labscope/internal/models"
)

// WriteIssueMarkdown writes one project's recent open issues as a Markdown
// document and returns the file path.
func WriteIssueMarkdown(dir, projectName, projectURL, timestamp string, issues []*models.Issue, daysBack int) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_issues_%s.md", SafeFilename(projectName), timestamp))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintf(f, "# Recent Open Issues - %s\n\n", projectName)
	fmt.Fprintf(f, "**Project:** %s\n", projectName)
	fmt.Fprintf(f, "**Project URL:** %s\n", projectURL)
	fmt.Fprintf(f, "**Export Date:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "**Issues from last %d days:** %d\n\n", daysBack, len(issues))
	fmt.Fprintln(f, "---")
	fmt.Fprintln(f)

	for i, issue := range issues {
		fmt.Fprintf(f, "## %d. %s\n\n", i+1, issue.Title)
		fmt.Fprintf(f, "**Issue ID:** #%d\n", issue.IID)
		fmt.Fprintf(f, "**Link:** %s\n", issue.WebURL)
		fmt.Fprintf(f, "**Author:** %s\n", issue.Author)
		fmt.Fprintf(f, "**Created:** %s\n", issue.CreatedAt)
		fmt.Fprintf(f, "**Updated:** %s\n", issue.UpdatedAt)

		if len(issue.Assignees) > 0 {
			fmt.Fprintf(f, "**Assignees:** %s\n", strings.Join(issue.Assignees, ", "))
		}
		if len(issue.Labels) > 0 {
			fmt.Fprintf(f, "**Labels:** %s\n", strings.Join(issue.Labels, ", "))
		}
		if issue.Milestone != "" {
			fmt.Fprintf(f, "**Milestone:** %s\n", issue.Milestone)
		}
		fmt.Fprintf(f, "**Status:** %s\n\n", issue.State)

		if issue.Description != "" {
			fmt.Fprintln(f, "**Description:**")
			fmt.Fprintf(f, "%s\n\n", issue.Description)
		} else {
			fmt.Fprintln(f, "*No description provided*")
			fmt.Fprintln(f)
		}
		fmt.Fprintln(f, "---")
		fmt.Fprintln(f)
	}

	return path, nil
}
