package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"labscope/internal/gitscan"
	"labscope/internal/models"
	"labscope/pkg/config"
	"labscope/pkg/logger"
)

// AnalyzeService discovers local repository clones, scans them and
// consolidates per-author statistics across repositories.
type AnalyzeService struct {
	cfg     *config.Config
	scanner *gitscan.Scanner
}

// AnalysisResult is the consolidated outcome of one analyze run.
type AnalysisResult struct {
	Authors   []*models.AuthorStats
	RepoCount int
	Since     time.Time
	Until     time.Time
}

// NewAnalyzeService creates a new analyze service
func NewAnalyzeService(cfg *config.Config) *AnalyzeService {
	return &AnalyzeService{
		cfg:     cfg,
		scanner: gitscan.NewScanner(cfg.IsCodeFile),
	}
}

// DiscoverRepositories walks the projects directory and returns every
// directory containing a .git subdirectory, minus configured exclusions.
func (s *AnalyzeService) DiscoverRepositories() ([]string, error) {
	root := s.cfg.Paths.ProjectsDir
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("projects directory not found: %s", root)
	}

	var repos []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr == nil {
			if s.cfg.ShouldExcludeRepository(filepath.Base(path)) {
				logger.Infof("Skipping excluded repository: %s", filepath.Base(path))
			} else {
				repos = append(repos, path)
			}
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// Analyze scans the given repositories in the inclusive [since, until] window
// and consolidates the results by author email. Repositories are scanned in
// parallel (bounded by the configured worker count); a repository that fails
// to scan contributes nothing and does not fail the run.
func (s *AnalyzeService) Analyze(repoPaths []string, since, until time.Time, authors []string) (*AnalysisResult, error) {
	logger.Infof("Analyzing commits from %s to %s", since.Format("2006-01-02"), until.Format("2006-01-02"))
	if len(authors) > 0 {
		logger.Infof("Filtering by authors: %v", authors)
	}

	bar := progressbar.Default(int64(len(repoPaths)), "scanning")
	perRepo := make([]map[string]*models.AuthorStats, len(repoPaths))

	var group errgroup.Group
	group.SetLimit(s.cfg.Analysis.ScanWorkers)
	for i, repoPath := range repoPaths {
		i, repoPath := i, repoPath
		group.Go(func() error {
			stats, err := s.scanner.ScanRepository(repoPath, since, until, authors)
			if err != nil {
				logger.Errorf("Error analyzing repository %s: %v", filepath.Base(repoPath), err)
				stats = nil
			}
			perRepo[i] = stats
			bar.Add(1)
			return nil
		})
	}
	// Scan errors degrade to empty contributions, never abort the run.
	group.Wait()

	return &AnalysisResult{
		Authors:   Consolidate(perRepo),
		RepoCount: len(repoPaths),
		Since:     since,
		Until:     until,
	}, nil
}

// Consolidate merges per-repository author maps into one table sorted by net
// lines descending, ties stable by first-seen order. Count-like fields sum;
// active-day counts sum without deduplicating a date shared across
// repositories; first/last dates use min/max. Derived metrics are computed
// from the merged totals by the AuthorStats accessors, never by averaging
// per-repository values.
func Consolidate(perRepo []map[string]*models.AuthorStats) []*models.AuthorStats {
	merged := make(map[string]*models.AuthorStats)
	var order []string

	for _, repoStats := range perRepo {
		// Iterate deterministically so first-seen order is reproducible.
		emails := make([]string, 0, len(repoStats))
		for email := range repoStats {
			emails = append(emails, email)
		}
		sort.Strings(emails)

		for _, email := range emails {
			stats := repoStats[email]
			entry, ok := merged[email]
			if !ok {
				entry = &models.AuthorStats{Name: stats.Name, Email: stats.Email}
				merged[email] = entry
				order = append(order, email)
			}
			entry.Merge(stats)
		}
	}

	authors := make([]*models.AuthorStats, 0, len(order))
	for _, email := range order {
		authors = append(authors, merged[email])
	}
	sort.SliceStable(authors, func(i, j int) bool {
		return authors[i].Net() > authors[j].Net()
	})
	return authors
}
