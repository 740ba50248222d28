package git

import (
	"context"
	"errors"
	"strings"
)

// CreateAndSwitch force-creates a local branch at startRef and makes it the
// current branch as a single git operation. Using checkout -B means there is
// no intermediate state where the branch exists but is not checked out, and a
// stale branch with the same name cannot collide mid-operation.
func (c *CommandClient) CreateAndSwitch(ctx context.Context, repoPath, branch, startRef string) error {
	if repoPath == "" {
		return errors.New("repository path cannot be empty")
	}
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}
	if startRef == "" {
		return errors.New("start ref cannot be empty")
	}

	_, _, err := c.commander.Run(ctx, repoPath, "checkout", "-B", branch, startRef)
	return err
}

// Switch checks out an existing local branch.
func (c *CommandClient) Switch(ctx context.Context, repoPath, branch string) error {
	if repoPath == "" {
		return errors.New("repository path cannot be empty")
	}
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}

	_, _, err := c.commander.Run(ctx, repoPath, "checkout", branch)
	return err
}

// SwitchDetached checks out a commit directly, leaving HEAD detached.
func (c *CommandClient) SwitchDetached(ctx context.Context, repoPath, commit string) error {
	if repoPath == "" {
		return errors.New("repository path cannot be empty")
	}
	if commit == "" {
		return errors.New("commit id cannot be empty")
	}

	_, _, err := c.commander.Run(ctx, repoPath, "checkout", "--detach", commit)
	return err
}

// DeleteBranch force-deletes a local branch. The branch being deleted must
// not be the current branch.
func (c *CommandClient) DeleteBranch(ctx context.Context, repoPath, branch string) error {
	if repoPath == "" {
		return errors.New("repository path cannot be empty")
	}
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}

	_, _, err := c.commander.Run(ctx, repoPath, "branch", "-D", branch)
	return err
}

// LocalBranches lists the repository's local branch names. Not part of the
// Client interface; the protocol itself never needs it, but status reporting
// does.
func (c *CommandClient) LocalBranches(ctx context.Context, repoPath string) ([]string, error) {
	if repoPath == "" {
		return nil, errors.New("repository path cannot be empty")
	}

	stdout, _, err := c.commander.Run(ctx, repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}

	output := strings.TrimSpace(string(stdout))
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}
