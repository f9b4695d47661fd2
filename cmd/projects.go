package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	gitlabapi "labscope/internal/gitlab"
	"labscope/internal/models"
	"labscope/internal/reports"
	"labscope/internal/services"
	"labscope/pkg/logger"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Enumerate GitLab projects and optionally clone the active ones",
	Long: `Lists projects from the GitLab instance (optionally one group), checks each
project branch by branch for commit activity since a date, writes the
repository list file and optionally clones or updates the active projects
under the projects directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireToken(); err != nil {
			return err
		}

		group, _ := cmd.Flags().GetString("group")
		activeSinceStr, _ := cmd.Flags().GetString("active-since")
		doClone, _ := cmd.Flags().GetBool("clone")

		if group == "" {
			group = cfg.GitLab.Group
		}
		activeSince, err := time.Parse("2006-01-02", activeSinceStr)
		if err != nil {
			return fmt.Errorf("invalid --active-since date %q, expected YYYY-MM-DD", activeSinceStr)
		}

		client, err := gitlabapi.NewClient(cfg)
		if err != nil {
			return err
		}
		logger.Infof("Connected to GitLab instance: %s", cfg.GitLab.URL)

		projects, err := client.ListProjects(group)
		if err != nil {
			return err
		}
		logger.Infof("Checking activity of %d projects since %s", len(projects), activeSinceStr)

		var active []*models.Project
		for _, project := range projects {
			if cfg.ShouldExcludeRepository(project.Name) {
				logger.Infof("Skipping excluded repository: %s", project.PathWithNamespace)
				continue
			}

			lastCommit, isActive, err := client.LastCommitSince(project.ID, activeSince)
			if err != nil {
				// Per-project API failures skip the project, not the run.
				logger.Warnf("Error checking %s: %v", project.PathWithNamespace, err)
				continue
			}
			if !isActive {
				logger.Debugf("Inactive: %s (no commits since %s)", project.PathWithNamespace, activeSinceStr)
				continue
			}

			entry := &models.Project{
				ID:                project.ID,
				Name:              project.Name,
				PathWithNamespace: project.PathWithNamespace,
				WebURL:            project.WebURL,
				HTTPCloneURL:      project.HTTPURLToRepo,
			}
			if lastCommit != nil {
				entry.LastCommitAt = lastCommit.Format(time.RFC3339)
			}
			active = append(active, entry)
			logger.Infof("Active: %s (last commit: %s)", project.PathWithNamespace, entry.LastCommitAt)
		}

		if err := os.MkdirAll(cfg.Paths.ProjectsDir, 0755); err != nil {
			return err
		}
		listPath, err := reports.WriteRepositoryList(cfg.Paths.ProjectsDir, cfg.GitLab.URL, reports.Timestamp(time.Now()), active)
		if err != nil {
			return err
		}
		logger.Infof("Repository list saved to: %s", listPath)

		if !doClone {
			return nil
		}

		cloner := services.NewCloneService(cfg)
		cloned, failed := 0, 0
		for _, project := range projects {
			if !containsProject(active, project.ID) {
				continue
			}
			if _, err := cloner.CloneOrUpdate(project); err != nil {
				logger.Errorf("Error cloning repository %s: %v", project.PathWithNamespace, err)
				failed++
				continue
			}
			cloned++
		}
		logger.Infof("Cloning summary: %d succeeded, %d failed", cloned, failed)
		return nil
	},
}

func containsProject(projects []*models.Project, id int) bool {
	for _, project := range projects {
		if project.ID == id {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.Flags().String("group", "", "Restrict to one GitLab group (default from GITLAB_GROUP)")
	projectsCmd.Flags().String("active-since", time.Now().AddDate(0, 0, -60).Format("2006-01-02"), "Only keep projects with commits since this date")
	projectsCmd.Flags().Bool("clone", false, "Clone or update the active projects locally")
}
