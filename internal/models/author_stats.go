package models

import "time"

// AuthorStats accumulates contribution statistics for a single author,
// identified by normalized email address.
type AuthorStats struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Added       int       `json:"added"`
	Removed     int       `json:"removed"`
	CommitCount int       `json:"commit_count"`
	ActiveDays  int       `json:"active_days_count"`
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
}

// Net returns net lines added (added - removed). Can be negative.
func (s *AuthorStats) Net() int {
	return s.Added - s.Removed
}

// TotalDays returns the span in days from first to last commit, inclusive.
func (s *AuthorStats) TotalDays() int {
	if s.FirstCommit.IsZero() || s.LastCommit.IsZero() {
		return 0
	}
	return int(s.LastCommit.Sub(s.FirstCommit).Hours()/24) + 1
}

// AvgCommitsPerDay returns commits divided by the total first-to-last span.
func (s *AuthorStats) AvgCommitsPerDay() float64 {
	days := s.TotalDays()
	if days == 0 {
		return 0
	}
	return float64(s.CommitCount) / float64(days)
}

// AvgCommitsPerActiveDay returns commits divided by the number of distinct
// days with at least one commit.
func (s *AuthorStats) AvgCommitsPerActiveDay() float64 {
	if s.ActiveDays == 0 {
		return 0
	}
	return float64(s.CommitCount) / float64(s.ActiveDays)
}

// Merge folds another author's per-repository statistics into this one.
// Count-like fields are summed; active days are summed without deduplicating
// the same calendar date across repositories; first/last use min/max. The
// receiver's display name (first seen) wins.
func (s *AuthorStats) Merge(other *AuthorStats) {
	s.Added += other.Added
	s.Removed += other.Removed
	s.CommitCount += other.CommitCount
	s.ActiveDays += other.ActiveDays

	if !other.FirstCommit.IsZero() && (s.FirstCommit.IsZero() || other.FirstCommit.Before(s.FirstCommit)) {
		s.FirstCommit = other.FirstCommit
	}
	if !other.LastCommit.IsZero() && (s.LastCommit.IsZero() || other.LastCommit.After(s.LastCommit)) {
		s.LastCommit = other.LastCommit
	}
}

// RecordDay updates the first/last commit dates for a commit on the given
// calendar day.
func (s *AuthorStats) RecordDay(day time.Time) {
	if s.FirstCommit.IsZero() || day.Before(s.FirstCommit) {
		s.FirstCommit = day
	}
	if s.LastCommit.IsZero() || day.After(s.LastCommit) {
		s.LastCommit = day
	}
}
