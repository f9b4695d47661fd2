package models

// Project summarizes a GitLab project discovered through the API.
type Project struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path"`
	WebURL            string `json:"web_url"`
	HTTPCloneURL      string `json:"http_clone_url"`
	LastCommitAt      string `json:"last_commit"`
}
