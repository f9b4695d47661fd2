package reports

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"labscope/internal/models"
)

// WriteAuthorXLSX writes the consolidated author table as a spreadsheet with
// an Authors sheet and a Summary sheet, and returns the file path.
func WriteAuthorXLSX(dir, timestamp string, authors []*models.AuthorStats, since, until time.Time) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("analysis_report_%s.xlsx", timestamp))

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Authors"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", err
	}

	header := []interface{}{
		"Email", "Name", "Added", "Removed", "Net", "Commits",
		"Active Days", "First Commit", "Last Commit", "Total Days",
		"Avg Commits/Day", "Avg Commits/Active Day",
	}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return "", err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(header), 1)
		f.SetCellStyle(sheet, "A1", endCell, boldStyle)
	}

	for i, author := range authors {
		row := []interface{}{
			author.Email,
			author.Name,
			author.Added,
			author.Removed,
			author.Net(),
			author.CommitCount,
			author.ActiveDays,
			formatDate(author.FirstCommit),
			formatDate(author.LastCommit),
			author.TotalDays(),
			author.AvgCommitsPerDay(),
			author.AvgCommitsPerActiveDay(),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return "", err
		}
	}

	summary := Summarize(authors)
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return "", err
	}
	summaryRows := [][]interface{}{
		{"Analysis Period", fmt.Sprintf("%s to %s", since.Format("2006-01-02"), until.Format("2006-01-02"))},
		{"Total Authors", summary.TotalAuthors},
		{"Total Lines Added", summary.TotalAdded},
		{"Total Lines Removed", summary.TotalRemoved},
		{"Net Lines Added", summary.TotalNet},
		{"Total Commits", summary.TotalCommits},
		{"Average Commits per Author", summary.AvgCommitsPerAuth},
		{"Median Commits per Author", summary.MedianCommits},
	}
	for i, row := range summaryRows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return path, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}
