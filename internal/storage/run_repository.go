// Package storage persists analysis run history in SQLite.
package storage

import (
	"database/sql"

	"labscope/internal/models"
)

// RunRepository handles database operations for analysis runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a completed analysis run.
func (r *RunRepository) Create(run *models.AnalysisRun) error {
	query := `INSERT INTO analysis_runs
		(id, started_at, finished_at, since_date, until_date, repo_count, author_count, total_added, total_removed, total_commits, report_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		run.ID, run.StartedAt, run.FinishedAt, run.SinceDate, run.UntilDate,
		run.RepoCount, run.AuthorCount, run.TotalAdded, run.TotalRemoved,
		run.TotalCommits, run.ReportDir)
	return err
}

// List returns the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]*models.AnalysisRun, error) {
	query := `SELECT id, started_at, finished_at, since_date, until_date, repo_count, author_count, total_added, total_removed, total_commits, report_dir
		FROM analysis_runs ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.AnalysisRun
	for rows.Next() {
		run := &models.AnalysisRun{}
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
			&run.SinceDate, &run.UntilDate, &run.RepoCount, &run.AuthorCount,
			&run.TotalAdded, &run.TotalRemoved, &run.TotalCommits, &run.ReportDir); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetByID returns a single run or nil when not found.
func (r *RunRepository) GetByID(id string) (*models.AnalysisRun, error) {
	query := `SELECT id, started_at, finished_at, since_date, until_date, repo_count, author_count, total_added, total_removed, total_commits, report_dir
		FROM analysis_runs WHERE id = ?`

	run := &models.AnalysisRun{}
	err := r.db.QueryRow(query, id).Scan(&run.ID, &run.StartedAt, &run.FinishedAt,
		&run.SinceDate, &run.UntilDate, &run.RepoCount, &run.AuthorCount,
		&run.TotalAdded, &run.TotalRemoved, &run.TotalCommits, &run.ReportDir)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
