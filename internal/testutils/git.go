package testutils

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// FixtureBranch is the extra branch CreateRemoteRepo publishes alongside main.
const FixtureBranch = "feature/extra"

// FixtureFile exists only on FixtureBranch, so tests can tell which branch's
// content the working tree holds.
const FixtureFile = "feature.txt"

// CreateRemoteRepo initializes a Git repository with a main branch and a
// divergent FixtureBranch, then switches back to main. The returned path can
// be used as a clone or fetch remote over the file transport.
func CreateRemoteRepo(t *testing.T) (repoPath string) {
	t.Helper()

	repoPath = t.TempDir()

	RunGit(t, repoPath, "init", "-q", "-b", "main")
	RunGit(t, repoPath, "config", "user.name", "Test User")
	RunGit(t, repoPath, "config", "user.email", "test@example.com")
	RunGit(t, repoPath, "config", "commit.gpgsign", "false")

	WriteFile(t, repoPath, "README.md", "# Test Repository\n")
	RunGit(t, repoPath, "add", "README.md")
	RunGit(t, repoPath, "commit", "-q", "-m", "Initial commit")

	RunGit(t, repoPath, "checkout", "-q", "-b", FixtureBranch)
	WriteFile(t, repoPath, FixtureFile, "content only on "+FixtureBranch+"\n")
	RunGit(t, repoPath, "add", FixtureFile)
	RunGit(t, repoPath, "commit", "-q", "-m", "Add feature file")

	RunGit(t, repoPath, "checkout", "-q", "main")

	return repoPath
}

// CloneRepo clones the given repository into a fresh temporary directory and
// configures a commit identity so tests can commit in the clone.
func CloneRepo(t *testing.T, remote string) (repoPath string) {
	t.Helper()

	repoPath = filepath.Join(t.TempDir(), "clone")
	RunGit(t, "", "clone", "-q", remote, repoPath)
	RunGit(t, repoPath, "config", "user.name", "Test User")
	RunGit(t, repoPath, "config", "user.email", "test@example.com")

	return repoPath
}

// RunGit executes a git command and fails the test on error. An empty workDir
// runs the command from the process working directory.
func RunGit(t *testing.T, workDir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed: %s", strings.Join(args, " "), output)

	return strings.TrimSpace(string(output))
}

// WriteFile writes a file relative to the repository root.
func WriteFile(t *testing.T, repoPath, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0o644)
	require.NoError(t, err, "failed to write %s", name)
}

// CurrentBranch returns the checked-out branch name, or an empty string when
// HEAD is detached.
func CurrentBranch(t *testing.T, repoPath string) string {
	t.Helper()

	cmd := exec.Command("git", "symbolic-ref", "--quiet", "--short", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// CurrentCommit returns the commit id HEAD resolves to.
func CurrentCommit(t *testing.T, repoPath string) string {
	t.Helper()
	return RunGit(t, repoPath, "rev-parse", "--verify", "HEAD")
}

// LocalBranches lists the repository's local branch names.
func LocalBranches(t *testing.T, repoPath string) []string {
	t.Helper()

	output := RunGit(t, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

// FileExists reports whether a file exists relative to the repository root.
func FileExists(t *testing.T, repoPath, name string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(repoPath, name))
	return err == nil
}
