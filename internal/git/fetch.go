package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FetchBranch fetches exactly refs/heads/<branch> from the remote into
// refs/remotes/<remote>/<branch>. The narrow refspec avoids pulling the whole
// remote when only one branch is needed.
func (c *CommandClient) FetchBranch(ctx context.Context, repoPath, remote, branch string) error {
	if repoPath == "" {
		return errors.New("repository path cannot be empty")
	}
	if remote == "" {
		return errors.New("remote name cannot be empty")
	}
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}

	refspec := fmt.Sprintf("refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch)
	_, _, err := c.commander.Run(ctx, repoPath, "fetch", remote, refspec)
	return err
}

// RemoteRefExists reports whether the remote-tracking ref for the given
// branch exists locally. Used after a fetch to distinguish "branch missing on
// the remote" from transport failures.
func (c *CommandClient) RemoteRefExists(ctx context.Context, repoPath, remote, branch string) (bool, error) {
	if repoPath == "" {
		return false, errors.New("repository path cannot be empty")
	}

	ref := fmt.Sprintf("refs/remotes/%s/%s", remote, branch)

	// rev-parse --verify --quiet exits 1 when the ref does not exist, which
	// is an answer here rather than an error.
	err := c.commander.RunQuiet(ctx, repoPath, "rev-parse", "--verify", "--quiet", ref)
	if err != nil {
		var gitErr *GitError
		if errors.As(err, &gitErr) && gitErr.ExitCode == 1 {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// IsMissingRemoteRef reports whether a fetch failure means the remote branch
// does not exist, as opposed to a network or transport problem.
func IsMissingRemoteRef(err error) bool {
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		return false
	}

	stderr := gitErr.Stderr
	return strings.Contains(stderr, "couldn't find remote ref") ||
		strings.Contains(stderr, "invalid refspec") ||
		strings.Contains(stderr, "unknown revision")
}

// transientMarkers are stderr fragments that indicate a network level failure
// worth retrying. A missing ref or an auth failure fails the same way every
// time and is never transient.
var transientMarkers = []string{
	"could not resolve host",
	"connection timed out",
	"connection refused",
	"operation timed out",
	"the remote end hung up",
	"early eof",
	"rpc failed",
}

// IsRetryable reports whether the failure looks transient.
func (e *GitError) IsRetryable() bool {
	stderr := strings.ToLower(e.Stderr)
	for _, marker := range transientMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
