// Package gitlabapi wraps the GitLab REST client with the read-only calls
// this tool needs: project enumeration, branch activity probes and recent
// open issues.
package gitlabapi

import (
	"fmt"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"labscope/pkg/config"
	"labscope/pkg/logger"
)

// Client is a thin wrapper around the GitLab API client.
type Client struct {
	gl *gitlab.Client
}

// NewClient builds an authenticated client for the configured instance. The
// token must already be validated by the caller.
func NewClient(cfg *config.Config) (*Client, error) {
	gl, err := gitlab.NewClient(cfg.GitLab.Token, gitlab.WithBaseURL(cfg.GitLab.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client for %s: %w", cfg.GitLab.URL, err)
	}
	return &Client{gl: gl}, nil
}

// ListProjects returns all projects visible to the token, optionally
// restricted to a group (by path or ID).
func (c *Client) ListProjects(group string) ([]*gitlab.Project, error) {
	var projects []*gitlab.Project
	page := 1

	for {
		listOpts := gitlab.ListOptions{Page: page, PerPage: 100}

		var (
			batch []*gitlab.Project
			resp  *gitlab.Response
			err   error
		)
		if group != "" {
			batch, resp, err = c.gl.Groups.ListGroupProjects(group, &gitlab.ListGroupProjectsOptions{
				ListOptions:      listOpts,
				IncludeSubGroups: gitlab.Ptr(true),
			})
		} else {
			batch, resp, err = c.gl.Projects.ListProjects(&gitlab.ListProjectsOptions{
				ListOptions: listOpts,
			})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}

		projects = append(projects, batch...)
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return projects, nil
}

// GetProject fetches a single project by its namespace path.
func (c *Client) GetProject(pathWithNamespace string) (*gitlab.Project, error) {
	project, _, err := c.gl.Projects.GetProject(pathWithNamespace, nil)
	if err != nil {
		return nil, fmt.Errorf("could not access GitLab project %s: %w", pathWithNamespace, err)
	}
	return project, nil
}

// LastCommitSince checks, branch by branch, whether the project has at least
// one commit after the given date, short-circuiting on the first branch with
// a hit. Returns the matching commit's timestamp when found. This is an N+1
// call pattern, slow in proportion to projects × branches.
func (c *Client) LastCommitSince(projectID int, since time.Time) (*time.Time, bool, error) {
	branches, err := c.listBranches(projectID)
	if err != nil {
		return nil, false, err
	}

	for _, branch := range branches {
		commits, _, err := c.gl.Commits.ListCommits(projectID, &gitlab.ListCommitsOptions{
			ListOptions: gitlab.ListOptions{PerPage: 1},
			RefName:     gitlab.Ptr(branch.Name),
			Since:       gitlab.Ptr(since),
		})
		if err != nil {
			logger.Warnf("Error checking branch %s of project %d: %v", branch.Name, projectID, err)
			continue
		}
		if len(commits) > 0 {
			return commits[0].CreatedAt, true, nil
		}
	}

	return nil, false, nil
}

func (c *Client) listBranches(projectID int) ([]*gitlab.Branch, error) {
	var branches []*gitlab.Branch
	page := 1

	for {
		batch, resp, err := c.gl.Branches.ListBranches(projectID, &gitlab.ListBranchesOptions{
			ListOptions: gitlab.ListOptions{Page: page, PerPage: 100},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list branches for project %d: %w", projectID, err)
		}

		branches = append(branches, batch...)
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return branches, nil
}

// ListOpenIssues returns all open issues of a project created or updated on
// or after the cutoff date.
func (c *Client) ListOpenIssues(projectID int, cutoff time.Time) ([]*gitlab.Issue, error) {
	var issues []*gitlab.Issue
	page := 1

	for {
		batch, resp, err := c.gl.Issues.ListProjectIssues(projectID, &gitlab.ListProjectIssuesOptions{
			ListOptions: gitlab.ListOptions{Page: page, PerPage: 100},
			State:       gitlab.Ptr("opened"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for project %d: %w", projectID, err)
		}

		for _, issue := range batch {
			if issueIsRecent(issue, cutoff) {
				issues = append(issues, issue)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return issues, nil
}

// ListIssueNotes returns the discussion notes of an issue, oldest first.
func (c *Client) ListIssueNotes(projectID, issueIID int) ([]*gitlab.Note, error) {
	var notes []*gitlab.Note
	page := 1

	for {
		batch, resp, err := c.gl.Notes.ListIssueNotes(projectID, issueIID, &gitlab.ListIssueNotesOptions{
			ListOptions: gitlab.ListOptions{Page: page, PerPage: 100},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list notes for issue %d: %w", issueIID, err)
		}

		notes = append(notes, batch...)
		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return notes, nil
}

// issueIsRecent compares by calendar day so the cutoff date itself counts.
func issueIsRecent(issue *gitlab.Issue, cutoff time.Time) bool {
	cutoffDay := cutoff.Format("2006-01-02")
	if issue.CreatedAt != nil && issue.CreatedAt.Format("2006-01-02") >= cutoffDay {
		return true
	}
	if issue.UpdatedAt != nil && issue.UpdatedAt.Format("2006-01-02") >= cutoffDay {
		return true
	}
	return false
}
