package gitscan

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"labscope/internal/models"
	"labscope/pkg/logger"
)

// fieldSep delimits the fixed fields of one log record. The message is the
// last field, so a separator byte inside a message body stays in the message.
const fieldSep = "\x1f"

// Scanner aggregates per-author statistics from local repository history.
type Scanner struct {
	isCodeFile func(string) bool
}

// NewScanner creates a scanner that restricts line counting to files
// accepted by isCodeFile.
func NewScanner(isCodeFile func(string) bool) *Scanner {
	return &Scanner{isCodeFile: isCodeFile}
}

// ScanRepository walks all branches of the repository at repoPath and
// accumulates statistics for non-merge commits whose commit date falls in the
// inclusive [since, until] window, keyed by normalized author email. The
// optional authors allow-list filters by case-insensitive substring match
// against author name or email. A failure to enumerate history yields an
// error and no partial result; a failure to diff a single commit only drops
// that commit's line counts.
func (s *Scanner) ScanRepository(repoPath string, since, until time.Time, authors []string) (map[string]*models.AuthorStats, error) {
	commits, err := s.ListCommits(repoPath, since, until)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*models.AuthorStats)
	activeDays := make(map[string]map[string]struct{})

	for _, commit := range commits {
		if IsMergeCommit(commit) {
			continue
		}
		if !matchesAuthors(commit, authors) {
			continue
		}

		key := commit.AuthorKey()
		entry, ok := stats[key]
		if !ok {
			// Keep the display name from the first commit we see.
			entry = &models.AuthorStats{
				Name:  strings.TrimSpace(commit.AuthorName),
				Email: key,
			}
			stats[key] = entry
			activeDays[key] = make(map[string]struct{})
		}

		day := commit.Day()
		entry.CommitCount++
		entry.RecordDay(day)
		activeDays[key][day.Format("2006-01-02")] = struct{}{}

		// Initial commits count toward commit and activity stats but
		// contribute zero line changes.
		if commit.IsInitial() {
			continue
		}

		patch, err := s.commitPatch(repoPath, commit.SHA)
		if err != nil {
			logger.Warnf("Could not get diff stats for commit %.8s in %s: %v", commit.SHA, repoPath, err)
			continue
		}
		added, removed := CountPatch(patch, s.isCodeFile)
		entry.Added += added
		entry.Removed += removed
	}

	for key, days := range activeDays {
		stats[key].ActiveDays = len(days)
	}

	return stats, nil
}

// ListCommits enumerates commits reachable from all branches whose commit
// date falls within the inclusive [since, until] date window.
func (s *Scanner) ListCommits(repoPath string, since, until time.Time) ([]*models.Commit, error) {
	// Both bounds carry an explicit midnight: git fills a bare date's missing
	// time-of-day with the current wall clock, which would drop commits made
	// earlier on the start date. The upper bound is until + 1 day so the end
	// date itself is included. Records are NUL-separated (-z); commit
	// messages cannot contain NUL.
	cmd := exec.Command("git", "log", "--all", "-z",
		"--since="+since.Format("2006-01-02")+"T00:00:00",
		"--until="+until.AddDate(0, 0, 1).Format("2006-01-02")+"T00:00:00",
		"--pretty=format:%H"+fieldSep+"%P"+fieldSep+"%an"+fieldSep+"%ae"+fieldSep+"%ct"+fieldSep+"%B")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list commits in %s: %w", repoPath, err)
	}

	sinceDay := truncateToDay(since)
	untilDay := truncateToDay(until)

	var commits []*models.Commit
	for _, record := range strings.Split(string(output), "\x00") {
		if strings.TrimSpace(record) == "" {
			continue
		}

		parts := strings.SplitN(record, fieldSep, 6)
		if len(parts) < 6 {
			continue
		}

		timestamp, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			continue
		}

		commit := &models.Commit{
			SHA:         parts[0],
			Parents:     strings.Fields(parts[1]),
			AuthorName:  parts[2],
			AuthorEmail: parts[3],
			CommitDate:  time.Unix(timestamp, 0),
			Message:     parts[5],
		}

		// git's own window filter is timestamp-based; re-check by calendar
		// day so the end date is inclusive regardless of time of day.
		day := commit.Day()
		if day.Before(sinceDay) || day.After(untilDay) {
			continue
		}

		commits = append(commits, commit)
	}

	return commits, nil
}

// commitPatch resolves the commit's unified diff against its first parent.
func (s *Scanner) commitPatch(repoPath, sha string) (string, error) {
	cmd := exec.Command("git", "show", sha, "--format=format:", "--patch", "--no-color")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to resolve diff for %s: %w", sha, err)
	}
	return string(output), nil
}

// matchesAuthors applies the allow-list: keep the commit when any entry is a
// case-insensitive substring of the author name or email. An empty list
// keeps everything.
func matchesAuthors(commit *models.Commit, authors []string) bool {
	if len(authors) == 0 {
		return true
	}
	name := strings.ToLower(commit.AuthorName)
	email := strings.ToLower(commit.AuthorEmail)
	for _, author := range authors {
		needle := strings.ToLower(author)
		if strings.Contains(name, needle) || strings.Contains(email, needle) {
			return true
		}
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
