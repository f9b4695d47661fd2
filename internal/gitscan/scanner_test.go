package gitscan

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, output)
}

// commitFile writes content to name, stages it and commits with a fixed
// author identity and date.
func commitFile(t *testing.T, dir, name, content, message, authorName, authorEmail, date string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	runGit(t, dir, "add", name)

	cmd := exec.Command("git", "commit", "-q", "-m", message,
		"--author", authorName+" <"+authorEmail+">")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE="+date,
		"GIT_COMMITTER_DATE="+date,
	)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git commit: %s", output)
}

func day(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func TestScanRepository_ConsolidatesByEmail(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n\nfunc A() {}\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T10:00:00")
	commitFile(t, dir, "a.go", "package a\n\nfunc A() {}\n\nfunc B() {}\n",
		"Add B", "Alice Smith", "ALICE@example.com", "2024-03-02T11:00:00")

	scanner := NewScanner(func(string) bool { return true })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-02"), nil)
	require.NoError(t, err)

	// Both name variants collapse onto the normalized email. git log yields
	// newest first, so the newer display name wins.
	require.Len(t, stats, 1)
	alice, ok := stats["alice@example.com"]
	require.True(t, ok)
	assert.Equal(t, "Alice Smith", alice.Name)
	assert.Equal(t, 2, alice.CommitCount)
	assert.Equal(t, 2, alice.ActiveDays)
	// The initial commit contributes zero lines; the second adds two.
	assert.Equal(t, 2, alice.Added)
	assert.Equal(t, 0, alice.Removed)
}

func TestScanRepository_WindowIsInclusive(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T09:00:00")
	commitFile(t, dir, "a.go", "package a\n\nvar X = 1\n",
		"On the end date", "Alice", "alice@example.com", "2024-03-05T23:30:00")
	commitFile(t, dir, "a.go", "package a\n\nvar X = 2\n",
		"After the window", "Alice", "alice@example.com", "2024-03-06T00:30:00")

	scanner := NewScanner(func(string) bool { return true })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-05"), nil)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats["alice@example.com"].CommitCount)
}

func TestScanRepository_IncludesEarlyCommitOnStartDate(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	// A commit in the first hour of the window's start date must be kept no
	// matter what time of day the scan itself runs.
	commitFile(t, dir, "a.go", "package a\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T01:00:00")

	scanner := NewScanner(func(string) bool { return true })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-01"), nil)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats["alice@example.com"].CommitCount)
}

func TestScanRepository_ExcludesMergeMessages(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T09:00:00")
	commitFile(t, dir, "a.go", "package a\n\nvar X = 1\n",
		"Merge branch 'feature' into main", "Alice", "alice@example.com", "2024-03-02T09:00:00")

	scanner := NewScanner(func(string) bool { return true })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-02"), nil)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	alice := stats["alice@example.com"]
	assert.Equal(t, 1, alice.CommitCount)
	assert.Equal(t, 0, alice.Added)
}

func TestScanRepository_AuthorFilter(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T09:00:00")
	commitFile(t, dir, "b.go", "package a\n\nvar B = 1\n",
		"Bob's change", "Bob", "bob@example.com", "2024-03-02T09:00:00")

	scanner := NewScanner(func(string) bool { return true })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-02"), []string{"bob"})
	require.NoError(t, err)

	require.Len(t, stats, 1)
	_, ok := stats["bob@example.com"]
	assert.True(t, ok)
}

func TestScanRepository_ExtensionFilter(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n",
		"Initial commit", "Alice", "alice@example.com", "2024-03-01T09:00:00")
	commitFile(t, dir, "notes.txt", "just notes\nmore notes\n",
		"Add notes", "Alice", "alice@example.com", "2024-03-02T09:00:00")

	scanner := NewScanner(func(path string) bool { return filepath.Ext(path) == ".go" })
	stats, err := scanner.ScanRepository(dir, day("2024-03-01"), day("2024-03-02"), nil)
	require.NoError(t, err)

	alice := stats["alice@example.com"]
	assert.Equal(t, 2, alice.CommitCount)
	assert.Equal(t, 0, alice.Added)
}

func TestListCommits_MultilineMessage(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	commitFile(t, dir, "a.go", "package a\n",
		"Add feature\n\nWith a body spanning\nseveral lines", "Alice", "alice@example.com", "2024-03-01T09:00:00")

	scanner := NewScanner(func(string) bool { return true })
	commits, err := scanner.ListCommits(dir, day("2024-03-01"), day("2024-03-01"))
	require.NoError(t, err)

	require.Len(t, commits, 1)
	assert.Contains(t, commits[0].Message, "several lines")
	assert.Empty(t, commits[0].Parents)
	assert.Equal(t, "alice@example.com", commits[0].AuthorEmail)
}

func TestListCommits_MessageWithControlBytes(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	// Separator bytes inside a message body must not corrupt neighbouring
	// records.
	commitFile(t, dir, "a.go", "package a\n",
		"Contains \x1e and \x1f bytes", "Alice", "alice@example.com", "2024-03-01T09:00:00")
	commitFile(t, dir, "a.go", "package a\n\nvar X = 1\n",
		"Plain follow-up", "Bob", "bob@example.com", "2024-03-01T10:00:00")

	scanner := NewScanner(func(string) bool { return true })
	commits, err := scanner.ListCommits(dir, day("2024-03-01"), day("2024-03-01"))
	require.NoError(t, err)

	require.Len(t, commits, 2)
	for _, commit := range commits {
		assert.Len(t, commit.SHA, 40)
		assert.Contains(t, commit.AuthorEmail, "@example.com")
	}
}
