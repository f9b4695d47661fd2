package models

// Issue is a flattened GitLab issue used by the export formats.
type Issue struct {
	Repository        string   `json:"repository"`
	ProjectURL        string   `json:"project_url"`
	ID                int      `json:"issue_id"`
	IID               int      `json:"issue_iid"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	WebURL            string   `json:"web_url"`
	State             string   `json:"state"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
	Author            string   `json:"author"`
	AuthorUsername    string   `json:"author_username"`
	Assignees         []string `json:"assignees"`
	AssigneeUsernames []string `json:"assignee_usernames"`
	Labels            []string `json:"labels"`
	Milestone         string   `json:"milestone"`
	DueDate           string   `json:"due_date"`
	Weight            string   `json:"weight"`
	Upvotes           int      `json:"upvotes"`
	Downvotes         int      `json:"downvotes"`
}

// JiraIssue is an issue mapped onto the fixed Jira CSV import schema.
type JiraIssue struct {
	IssueType     string
	Summary       string
	Description   string
	Status        string
	Priority      string
	Reporter      string
	Assignee      string
	Labels        string
	Components    string
	FixVersion    string
	StoryPoints   string
	DueDate       string
	Created       string
	Updated       string
	ExternalID    string
	OriginalURL   string
	Repository    string
	GitLabIssueID string
	Upvotes       string
	Downvotes     string
}
