package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun records one completed analyze invocation.
type AnalysisRun struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	SinceDate    string    `json:"since_date"`
	UntilDate    string    `json:"until_date"`
	RepoCount    int       `json:"repo_count"`
	AuthorCount  int       `json:"author_count"`
	TotalAdded   int       `json:"total_added"`
	TotalRemoved int       `json:"total_removed"`
	TotalCommits int       `json:"total_commits"`
	ReportDir    string    `json:"report_dir"`
}

// NewAnalysisRun creates a new AnalysisRun with a generated UUID
func NewAnalysisRun(sinceDate, untilDate string) *AnalysisRun {
	return &AnalysisRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		SinceDate: sinceDate,
		UntilDate: untilDate,
	}
}
