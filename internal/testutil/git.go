package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bjulian5/stackpr/internal/git"
)

// NewTestGitClient creates a new git client in a temporary directory with an initial commit
func NewTestGitClient(t *testing.T) *git.Client {
	tempDir := t.TempDir()

	RunGit(t, tempDir, "init", "--initial-branch=main")
	// Set user name and email for reproducible commits
	RunGit(t, tempDir, "config", "user.email", "test@example.com")
	RunGit(t, tempDir, "config", "user.name", "Test User")

	gitClient, err := git.NewClientAt(tempDir, nil)
	require.NoError(t, err)

	_ = CreateCommit(t, gitClient, "Initial commit", "")
	return gitClient
}

// NewBareRemote creates a bare repository and registers it as remote "origin"
// of the client's repository
func NewBareRemote(t *testing.T, gitClient *git.Client) string {
	remoteDir := t.TempDir()
	RunGit(t, remoteDir, "init", "--bare", "--initial-branch=main")
	RunGit(t, gitClient.GitRoot(), "remote", "add", "origin", remoteDir)
	return remoteDir
}

// CreateCommit creates a commit touching a file named after the title
func CreateCommit(t *testing.T, gitClient *git.Client, title, body string) string {
	message := git.Message(title, body)

	// Use title + body for uniqueness, the commit date is pinned
	testFile := filepath.Join(gitClient.GitRoot(), fmt.Sprintf("file-%s.txt", strings.ReplaceAll(title, " ", "-")))
	err := os.WriteFile(testFile, fmt.Appendf(nil, "%s\n%s", title, body), 0644)
	require.NoError(t, err)

	RunGit(t, gitClient.GitRoot(), "add", ".")
	RunGit(t, gitClient.GitRoot(), "commit", "-m", message)
	return RunGit(t, gitClient.GitRoot(), "rev-parse", "HEAD")
}

// RunGit runs a git command in dir and returns its trimmed output
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=2024-01-01T00:00:00Z",
		"GIT_COMMITTER_DATE=2024-01-01T00:00:00Z",
	)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed: %s", strings.Join(args, " "), string(output))
	return strings.TrimSpace(string(output))
}
