package models

import (
	"strings"
	"time"
)

// Commit represents a Git commit as read from local history.
type Commit struct {
	SHA         string    `json:"sha"`
	Parents     []string  `json:"parents"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CommitDate  time.Time `json:"commit_date"`
	Message     string    `json:"message"`
}

// IsInitial reports whether the commit has no parents.
func (c *Commit) IsInitial() bool {
	return len(c.Parents) == 0
}

// AuthorKey returns the normalized (lower-cased, trimmed) author email used
// to consolidate identities across name variants.
func (c *Commit) AuthorKey() string {
	return strings.ToLower(strings.TrimSpace(c.AuthorEmail))
}

// Day returns the commit's calendar date, truncated from the commit
// timestamp.
func (c *Commit) Day() time.Time {
	y, m, d := c.CommitDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
