// Package gitscan walks local repository history with the git binary and
// tallies per-author contribution statistics.
package gitscan

import (
	"regexp"

	"labscope/internal/models"
)

// Message patterns associated with merge/PR workflows. A commit whose message
// matches any of these is excluded from authorship statistics even when it
// has a single parent. Heuristic: unrelated messages containing these phrases
// are misclassified, and fast-forward merges with clean messages are missed.
var mergePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)merge\s+pull\s+request`),
	regexp.MustCompile(`(?i)merge\s+branch`),
	regexp.MustCompile(`(?i)merge\s+remote[-\s]tracking\s+branch`),
	regexp.MustCompile(`(?i)pull\s+request\s+#\d+`),
	regexp.MustCompile(`(?i)^merge\s+`),
	regexp.MustCompile(`(?i)merged\s+in\s+`),
	regexp.MustCompile(`(?i)auto-merge`),
	regexp.MustCompile(`(?i)automatic\s+merge`),
	regexp.MustCompile(`(?i)conflicts\s+resolved`),
}

// IsMergeCommit reports whether a commit is a merge or PR-merge commit: more
// than one parent, or a message matching one of the merge patterns.
func IsMergeCommit(commit *models.Commit) bool {
	if len(commit.Parents) > 1 {
		return true
	}
	for _, pattern := range mergePatterns {
		if pattern.MatchString(commit.Message) {
			return true
		}
	}
	return false
}
