package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustDay(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func TestAuthorStats_Net(t *testing.T) {
	s := &AuthorStats{Added: 100, Removed: 140}
	assert.Equal(t, -40, s.Net())
}

func TestAuthorStats_TotalDays(t *testing.T) {
	s := &AuthorStats{FirstCommit: mustDay("2024-01-01"), LastCommit: mustDay("2024-01-10")}
	assert.Equal(t, 10, s.TotalDays())

	sameDay := &AuthorStats{FirstCommit: mustDay("2024-01-01"), LastCommit: mustDay("2024-01-01")}
	assert.Equal(t, 1, sameDay.TotalDays())

	empty := &AuthorStats{}
	assert.Equal(t, 0, empty.TotalDays())
	assert.Equal(t, 0.0, empty.AvgCommitsPerDay())
	assert.Equal(t, 0.0, empty.AvgCommitsPerActiveDay())
}

func TestAuthorStats_Merge(t *testing.T) {
	a := &AuthorStats{Name: "Alice", Email: "alice@x.com", Added: 10, Removed: 2,
		CommitCount: 3, ActiveDays: 2,
		FirstCommit: mustDay("2024-01-05"), LastCommit: mustDay("2024-01-08")}
	b := &AuthorStats{Name: "Alice S.", Email: "alice@x.com", Added: 5, Removed: 4,
		CommitCount: 2, ActiveDays: 2,
		FirstCommit: mustDay("2024-01-01"), LastCommit: mustDay("2024-01-06")}

	a.Merge(b)

	assert.Equal(t, "Alice", a.Name)
	assert.Equal(t, 15, a.Added)
	assert.Equal(t, 6, a.Removed)
	assert.Equal(t, 5, a.CommitCount)
	assert.Equal(t, 4, a.ActiveDays)
	assert.Equal(t, mustDay("2024-01-01"), a.FirstCommit)
	assert.Equal(t, mustDay("2024-01-08"), a.LastCommit)
}

func TestAuthorStats_RecordDay(t *testing.T) {
	s := &AuthorStats{}
	s.RecordDay(mustDay("2024-02-10"))
	s.RecordDay(mustDay("2024-02-01"))
	s.RecordDay(mustDay("2024-02-05"))

	assert.Equal(t, mustDay("2024-02-01"), s.FirstCommit)
	assert.Equal(t, mustDay("2024-02-10"), s.LastCommit)
}

func TestCommit_AuthorKey(t *testing.T) {
	c := &Commit{AuthorEmail: "  Alice@Example.COM "}
	assert.Equal(t, "alice@example.com", c.AuthorKey())
}

func TestCommit_IsInitial(t *testing.T) {
	assert.True(t, (&Commit{}).IsInitial())
	assert.False(t, (&Commit{Parents: []string{"abc"}}).IsInitial())
}

func TestCommit_Day(t *testing.T) {
	c := &Commit{CommitDate: time.Date(2024, 3, 5, 23, 45, 0, 0, time.Local)}
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), c.Day())
}
