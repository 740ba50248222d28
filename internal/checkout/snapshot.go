package checkout

import (
	"context"
	"errors"

	detourErrors "github.com/detourdev/detour/internal/errors"
	"github.com/detourdev/detour/internal/git"
)

// DetachedRef is the sentinel stored in Snapshot.OriginalRef when the
// repository started in detached HEAD state. It is never a valid branch name.
const DetachedRef = "(detached)"

// Snapshot captures the repository's identity before any mutation. It is
// created once per protocol invocation, consumed only during restoration, and
// never modified after creation.
type Snapshot struct {
	// OriginalRef is the branch that was checked out, or DetachedRef.
	OriginalRef string
	// OriginalCommit is the commit HEAD resolved to. Always populated.
	OriginalCommit string
	// Detached reports whether HEAD pointed directly at a commit.
	Detached bool
}

// RestoreTarget returns the ref restoration must switch back to.
func (s Snapshot) RestoreTarget() string {
	if s.Detached {
		return s.OriginalCommit
	}
	return s.OriginalRef
}

// CaptureSnapshot reads the current branch and commit id. A failure here is a
// precondition failure: the protocol aborts before mutating anything it could
// not put back.
func CaptureSnapshot(ctx context.Context, client git.Client, repoPath string) (Snapshot, error) {
	commit, err := client.CurrentCommit(ctx, repoPath)
	if err != nil {
		return Snapshot{}, detourErrors.ErrSnapshot(repoPath, err)
	}

	branch, err := client.CurrentBranch(ctx, repoPath)
	if errors.Is(err, git.ErrDetachedHead) {
		return Snapshot{
			OriginalRef:    DetachedRef,
			OriginalCommit: commit,
			Detached:       true,
		}, nil
	}
	if err != nil {
		return Snapshot{}, detourErrors.ErrSnapshot(repoPath, err)
	}

	return Snapshot{
		OriginalRef:    branch,
		OriginalCommit: commit,
	}, nil
}
