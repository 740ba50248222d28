package git

import (
	"context"
	"errors"
	"strings"
)

// ErrDetachedHead is returned by CurrentBranch when HEAD points directly at a
// commit instead of a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// Client is the narrow git capability surface the checkout protocol consumes.
// Keeping this interface minimal lets the orchestration logic run against a
// fake implementation without a real git binary.
type Client interface {
	// Repository state
	CurrentBranch(ctx context.Context, repoPath string) (string, error)
	CurrentCommit(ctx context.Context, repoPath string) (string, error)
	IsClean(ctx context.Context, repoPath string) (bool, error)

	// Remote interaction
	FetchBranch(ctx context.Context, repoPath, remote, branch string) error
	RemoteRefExists(ctx context.Context, repoPath, remote, branch string) (bool, error)

	// Branch manipulation
	CreateAndSwitch(ctx context.Context, repoPath, branch, startRef string) error
	Switch(ctx context.Context, repoPath, branch string) error
	SwitchDetached(ctx context.Context, repoPath, commit string) error
	DeleteBranch(ctx context.Context, repoPath, branch string) error
}

// CommandClient is the production implementation that shells out to git
// through a Commander.
type CommandClient struct {
	commander Commander
}

// NewClient returns a Client backed by the default live commander.
func NewClient() *CommandClient {
	return NewClientWithCommander(DefaultCommander)
}

// NewClientWithCommander returns a Client backed by the given commander.
func NewClientWithCommander(commander Commander) *CommandClient {
	return &CommandClient{commander: commander}
}

// CurrentBranch returns the name of the currently checked-out branch.
// Returns ErrDetachedHead when the repository is in detached HEAD state.
func (c *CommandClient) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	if repoPath == "" {
		return "", errors.New("repository path cannot be empty")
	}

	stdout, _, err := c.commander.Run(ctx, repoPath, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil {
		// symbolic-ref exits 1 with no output when HEAD is detached.
		var gitErr *GitError
		if errors.As(err, &gitErr) && gitErr.ExitCode == 1 && strings.TrimSpace(gitErr.Stderr) == "" {
			return "", ErrDetachedHead
		}
		return "", err
	}

	return strings.TrimSpace(string(stdout)), nil
}

// CurrentCommit returns the full commit id HEAD resolves to.
func (c *CommandClient) CurrentCommit(ctx context.Context, repoPath string) (string, error) {
	if repoPath == "" {
		return "", errors.New("repository path cannot be empty")
	}

	stdout, _, err := c.commander.Run(ctx, repoPath, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(stdout)), nil
}
