package services

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	gitlabapi "labscope/internal/gitlab"
	"labscope/internal/models"
	"labscope/pkg/config"
	"labscope/pkg/logger"
)

// IssueService fetches recent open issues for locally cloned GitLab projects
// and maps them to the export formats.
type IssueService struct {
	cfg      *config.Config
	client   *gitlabapi.Client
	analyzer *AnalyzeService
}

// NewIssueService creates a new issue service
func NewIssueService(cfg *config.Config, client *gitlabapi.Client) *IssueService {
	return &IssueService{
		cfg:      cfg,
		client:   client,
		analyzer: NewAnalyzeService(cfg),
	}
}

// DiscoverProjectPaths maps local clones back to their GitLab project paths
// via the origin remote, deduplicated. Repositories without a recognizable
// GitLab remote are skipped.
func (s *IssueService) DiscoverProjectPaths() ([]string, error) {
	repos, err := s.analyzer.DiscoverRepositories()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string
	for _, repoPath := range repos {
		remote, err := remoteOriginURL(repoPath)
		if err != nil {
			logger.Warnf("Error reading origin remote of %s: %v", repoPath, err)
			continue
		}
		projectPath, ok := ProjectPathFromRemote(remote)
		if !ok || seen[projectPath] {
			continue
		}
		seen[projectPath] = true
		paths = append(paths, projectPath)
	}
	return paths, nil
}

// CollectProjectIssues fetches the project's open issues created or updated
// in the trailing daysBack window.
func (s *IssueService) CollectProjectIssues(projectPath string, daysBack int) (*gitlab.Project, []*models.Issue, error) {
	project, err := s.client.GetProject(projectPath)
	if err != nil {
		return nil, nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -daysBack)
	raw, err := s.client.ListOpenIssues(project.ID, cutoff)
	if err != nil {
		return project, nil, err
	}

	issues := make([]*models.Issue, 0, len(raw))
	for _, issue := range raw {
		issues = append(issues, convertIssue(project, issue))
	}
	return project, issues, nil
}

// BuildJiraIssues maps raw issues onto the Jira import schema, embedding
// creator, assignee, description and discussion notes into the Jira
// description. Note fetching is best-effort; failures leave the notes out.
func (s *IssueService) BuildJiraIssues(project *gitlab.Project, issues []*gitlab.Issue) []*models.JiraIssue {
	jiraIssues := make([]*models.JiraIssue, 0, len(issues))
	for _, issue := range issues {
		notes, err := s.client.ListIssueNotes(project.ID, issue.IID)
		if err != nil {
			notes = nil
		}
		jiraIssues = append(jiraIssues, buildJiraIssue(project, issue, notes))
	}
	return jiraIssues
}

// CollectRawIssues returns the unconverted API issues for Jira export.
func (s *IssueService) CollectRawIssues(projectPath string, daysBack int) (*gitlab.Project, []*gitlab.Issue, error) {
	project, err := s.client.GetProject(projectPath)
	if err != nil {
		return nil, nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	issues, err := s.client.ListOpenIssues(project.ID, cutoff)
	return project, issues, err
}

// ProjectPathFromRemote derives the "namespace/project" path from an origin
// remote URL. Only remotes pointing at a GitLab host are accepted.
func ProjectPathFromRemote(remote string) (string, bool) {
	remote = strings.TrimSpace(remote)
	if !strings.Contains(remote, "gitlab") {
		return "", false
	}
	remote = strings.TrimSuffix(remote, ".git")

	if strings.HasPrefix(remote, "git@") {
		// scp-style: git@host:namespace/project
		parts := strings.SplitN(remote, ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	// URL-style: take the trailing namespace/project components.
	segments := strings.Split(remote, "/")
	if len(segments) < 2 {
		return "", false
	}
	return strings.Join(segments[len(segments)-2:], "/"), true
}

// MapStatusToJira maps GitLab issue state and labels to a Jira status.
func MapStatusToJira(state string, labels []string) string {
	labelText := strings.ToLower(strings.Join(labels, " "))
	switch {
	case state == "closed":
		return "Done"
	case containsAny(labelText, "wip", "in progress", "doing"):
		return "In Progress"
	case containsAny(labelText, "review", "testing", "qa"):
		return "In Review"
	default:
		return "To Do"
	}
}

// MapIssueType maps GitLab labels and title to a Jira issue type.
func MapIssueType(labels []string, title string) string {
	allText := strings.ToLower(strings.Join(labels, " ") + " " + title)
	switch {
	case containsAny(allText, "bug", "error", "fix", "defect"):
		return "Bug"
	case containsAny(allText, "epic"):
		return "Epic"
	case containsAny(allText, "spike", "research", "investigation"):
		return "Spike"
	case containsAny(allText, "feature", "story", "user story"):
		return "Story"
	default:
		return "Task"
	}
}

// MapPriority maps GitLab labels and title to a Jira priority.
func MapPriority(labels []string, title string) string {
	allText := strings.ToLower(strings.Join(labels, " ") + " " + title)
	switch {
	case containsAny(allText, "high", "urgent", "critical", "blocker"):
		return "High"
	case containsAny(allText, "low", "minor"):
		return "Low"
	default:
		return "Medium"
	}
}

// ExtractComponents picks component-looking labels, falling back to the
// repository name when none match.
func ExtractComponents(labels []string, repositoryName string) string {
	componentKeywords := []string{"frontend", "backend", "api", "ui", "database", "infrastructure", "auth"}

	var components []string
	for _, label := range labels {
		lower := strings.ToLower(label)
		if containsAny(lower, componentKeywords...) && !contains(components, label) {
			components = append(components, label)
		}
	}
	if len(components) == 0 && repositoryName != "" {
		components = append(components, repositoryName)
	}
	return strings.Join(components, ", ")
}

func convertIssue(project *gitlab.Project, issue *gitlab.Issue) *models.Issue {
	converted := &models.Issue{
		Repository:  project.Name,
		ProjectURL:  project.WebURL,
		ID:          issue.ID,
		IID:         issue.IID,
		Title:       issue.Title,
		Description: issue.Description,
		WebURL:      issue.WebURL,
		State:       issue.State,
		Labels:      issue.Labels,
		Upvotes:     issue.Upvotes,
		Downvotes:   issue.Downvotes,
	}

	if issue.CreatedAt != nil {
		converted.CreatedAt = issue.CreatedAt.Format(time.RFC3339)
	}
	if issue.UpdatedAt != nil {
		converted.UpdatedAt = issue.UpdatedAt.Format(time.RFC3339)
	}
	if issue.Author != nil {
		converted.Author = issue.Author.Name
		converted.AuthorUsername = issue.Author.Username
	} else {
		converted.Author = "Unknown"
	}
	for _, assignee := range issue.Assignees {
		converted.Assignees = append(converted.Assignees, assignee.Name)
		converted.AssigneeUsernames = append(converted.AssigneeUsernames, assignee.Username)
	}
	if issue.Milestone != nil {
		converted.Milestone = issue.Milestone.Title
	}
	if issue.DueDate != nil {
		converted.DueDate = issue.DueDate.String()
	}
	if issue.Weight != 0 {
		converted.Weight = strconv.Itoa(issue.Weight)
	}
	return converted
}

func buildJiraIssue(project *gitlab.Project, issue *gitlab.Issue, notes []*gitlab.Note) *models.JiraIssue {
	jira := &models.JiraIssue{
		IssueType:     MapIssueType(issue.Labels, issue.Title),
		Summary:       issue.Title,
		Description:   buildJiraDescription(issue, notes),
		Status:        MapStatusToJira(issue.State, issue.Labels),
		Priority:      MapPriority(issue.Labels, issue.Title),
		Labels:        strings.Join(issue.Labels, ", "),
		Components:    ExtractComponents(issue.Labels, project.Name),
		ExternalID:    fmt.Sprintf("gitlab-%d", issue.ID),
		OriginalURL:   issue.WebURL,
		Repository:    project.Name,
		GitLabIssueID: strconv.Itoa(issue.IID),
		Upvotes:       strconv.Itoa(issue.Upvotes),
		Downvotes:     strconv.Itoa(issue.Downvotes),
	}

	if issue.Author != nil {
		jira.Reporter = issue.Author.Username
	} else {
		jira.Reporter = "Unknown"
	}
	if len(issue.Assignees) > 0 {
		jira.Assignee = issue.Assignees[0].Username
	}
	if issue.Milestone != nil {
		jira.FixVersion = issue.Milestone.Title
	}
	if issue.Weight != 0 {
		jira.StoryPoints = strconv.Itoa(issue.Weight)
	}
	if issue.DueDate != nil {
		jira.DueDate = issue.DueDate.String()
	}
	if issue.CreatedAt != nil {
		jira.Created = issue.CreatedAt.Format(time.RFC3339)
	}
	if issue.UpdatedAt != nil {
		jira.Updated = issue.UpdatedAt.Format(time.RFC3339)
	}
	return jira
}

// buildJiraDescription assembles creator, assignees, the original
// description, discussion notes and the original link into one Jira
// description body.
func buildJiraDescription(issue *gitlab.Issue, notes []*gitlab.Note) string {
	var parts []string

	creator := "Created by: Unknown"
	if issue.Author != nil {
		creator = "Created by: " + formatUser(issue.Author.Name, issue.Author.Username)
	}
	if issue.CreatedAt != nil {
		creator += " on " + issue.CreatedAt.Format("2006-01-02 15:04:05")
	}
	parts = append(parts, creator)

	if len(issue.Assignees) > 0 {
		var names []string
		for _, assignee := range issue.Assignees {
			names = append(names, formatUser(assignee.Name, assignee.Username))
		}
		parts = append(parts, "Assigned to: "+strings.Join(names, ", "))
	}

	if description := strings.TrimSpace(issue.Description); description != "" {
		parts = append(parts, "Description:\n"+description)
	}

	var comments []string
	for _, note := range notes {
		body := strings.TrimSpace(note.Body)
		if body == "" {
			continue
		}
		timestamp := ""
		if note.CreatedAt != nil {
			timestamp = note.CreatedAt.Format("2006-01-02 15:04:05")
		}
		author := formatUser(note.Author.Name, note.Author.Username)
		comments = append(comments, fmt.Sprintf("[%s] %s:\n%s", timestamp, author, note.Body))
	}
	if len(comments) > 0 {
		parts = append(parts, "--- COMMENTS ---\n"+strings.Join(comments, "\n\n"))
	}

	parts = append(parts, "Original GitLab Issue: "+issue.WebURL)
	return strings.Join(parts, "\n\n")
}

func formatUser(name, username string) string {
	if name == "" {
		if username == "" {
			return "Unknown"
		}
		return username
	}
	if username != "" {
		return fmt.Sprintf("%s (%s)", name, username)
	}
	return name
}

func remoteOriginURL(repoPath string) (string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
