package checkout

import (
	"context"

	detourErrors "github.com/detourdev/detour/internal/errors"
	"github.com/detourdev/detour/internal/git"
)

// EnsureClean refuses to proceed when the working tree has uncommitted
// tracked or staged changes. Switching branches under uncommitted edits risks
// silent data loss or merge confusion on restore; the protocol does not stash
// because stash conflict semantics are themselves failure-prone.
func EnsureClean(ctx context.Context, client git.Client, repoPath string) error {
	clean, err := client.IsClean(ctx, repoPath)
	if err != nil {
		return detourErrors.ErrSnapshot(repoPath, err)
	}
	if !clean {
		return detourErrors.ErrDirtyWorkingTree(repoPath)
	}
	return nil
}
