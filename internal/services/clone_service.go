package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"labscope/pkg/config"
	"labscope/pkg/logger"
)

// CloneService materializes GitLab projects on local disk, nested by
// namespace under the configured projects directory.
type CloneService struct {
	cfg *config.Config
}

// NewCloneService creates a new clone service
func NewCloneService(cfg *config.Config) *CloneService {
	return &CloneService{cfg: cfg}
}

// CloneOrUpdate clones the project if it is not present locally, or
// fast-forward-updates it with a pull when it is. Returns the local path.
func (s *CloneService) CloneOrUpdate(project *gitlab.Project) (string, error) {
	repoPath, err := s.LocalPath(project.PathWithNamespace)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(repoPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create namespace directory: %w", err)
	}

	if s.isRepositoryCloned(repoPath) {
		logger.Infof("Updating existing repository: %s", project.PathWithNamespace)
		return repoPath, s.pullRepository(repoPath)
	}

	logger.Infof("Cloning repository: %s", project.PathWithNamespace)
	return repoPath, s.cloneRepository(repoPath, project)
}

// LocalPath maps a namespace path like "group/sub/project" to
// "<projects-dir>/group/sub_project", flattening nested project paths.
func (s *CloneService) LocalPath(pathWithNamespace string) (string, error) {
	parts := strings.Split(pathWithNamespace, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid repository path format: %s", pathWithNamespace)
	}
	namespace := parts[0]
	project := strings.Join(parts[1:], "_")
	return filepath.Join(s.cfg.Paths.ProjectsDir, namespace, project), nil
}

// isRepositoryCloned checks if a repository is already cloned
func (s *CloneService) isRepositoryCloned(repoPath string) bool {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	return err == nil && info.IsDir()
}

// cloneRepository performs a full clone of the repository
func (s *CloneService) cloneRepository(repoPath string, project *gitlab.Project) error {
	// Remove directory if it exists but is not a git repo
	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("failed to clean repository directory: %w", err)
	}

	cmd := exec.Command("git", "clone", s.authenticatedURL(project.HTTPURLToRepo), repoPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to clone repository %s: %w", project.PathWithNamespace, err)
	}
	return nil
}

// pullRepository performs a git pull on an existing repository
func (s *CloneService) pullRepository(repoPath string) error {
	cmd := exec.Command("git", "pull", "--ff-only")
	cmd.Dir = repoPath
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to pull repository: %w", err)
	}
	return nil
}

// authenticatedURL embeds the access token into the HTTPS clone URL.
func (s *CloneService) authenticatedURL(cloneURL string) string {
	return strings.Replace(cloneURL, "https://", "https://oauth2:"+s.cfg.GitLab.Token+"@", 1)
}
