// Package checkout implements the temporary-checkout protocol: fetch a remote
// branch, run a caller-supplied operation against its content on a throwaway
// local branch, and put the repository back exactly where it started. Once
// the working tree has switched, restoration runs no matter how the operation
// ends, including panics.
package checkout

import (
	"context"
	"fmt"
	"time"

	detourErrors "github.com/detourdev/detour/internal/errors"
	"github.com/detourdev/detour/internal/git"
	"github.com/detourdev/detour/internal/logger"
	"github.com/detourdev/detour/internal/retry"
)

// DefaultRemote is used when Options.Remote is empty.
const DefaultRemote = "origin"

// Operation is the caller-supplied work to run while the temporary branch is
// checked out. The protocol treats it as opaque: its error is passed through
// unchanged and never swallowed by restoration.
type Operation func(ctx context.Context) error

// TempBranch names the throwaway branch created for one protocol invocation.
type TempBranch struct {
	Name      string
	CreatedAt time.Time
}

// NewTempBranch derives a collision-free temporary branch name from the
// target branch.
func NewTempBranch(target string) TempBranch {
	now := time.Now()
	return TempBranch{
		Name:      git.TempBranchName(target, now),
		CreatedAt: now,
	}
}

// Options configure one protocol invocation.
type Options struct {
	// RepoPath is the path to the repository clone to operate in.
	RepoPath string
	// Branch is the remote branch whose content the operation needs.
	Branch string
	// Remote names the remote to fetch from. Empty means DefaultRemote.
	Remote string
}

// Result carries what the protocol did. It is populated progressively, so on
// error the caller can still see how far the protocol got and whether
// restoration left anything behind.
type Result struct {
	Snapshot   Snapshot
	TempBranch string
	Restore    RestoreReport
}

// Protocol phases, in order. Logged at debug level as the state machine
// advances.
const (
	phaseSnapshotted   = "snapshotted"
	phaseVerifiedClean = "verified_clean"
	phaseFetched       = "fetched"
	phaseSwitched      = "switched"
	phaseRestoring     = "restoring"
	phaseDone          = "done"
)

// Run executes op against the content of the named remote branch.
//
// The sequence is snapshot, cleanliness check, narrow fetch, switch to a
// fresh temporary branch, operation, restore. Any failure before the switch
// aborts with the working tree untouched and nothing to clean up. From the
// switch onward restoration always runs; its outcome is reported in
// Result.Restore and never overrides the returned error.
func Run(ctx context.Context, client git.Client, opts Options, op Operation) (Result, error) {
	var result Result

	if opts.RepoPath == "" {
		return result, fmt.Errorf("repository path cannot be empty")
	}
	if opts.Branch == "" {
		return result, fmt.Errorf("branch cannot be empty")
	}
	if op == nil {
		return result, fmt.Errorf("operation cannot be nil")
	}
	remote := opts.Remote
	if remote == "" {
		remote = DefaultRemote
	}

	log := logger.WithComponent("checkout").With("repo", opts.RepoPath, "branch", opts.Branch)

	snapshot, err := CaptureSnapshot(ctx, client, opts.RepoPath)
	if err != nil {
		return result, err
	}
	result.Snapshot = snapshot
	log.Debug("protocol state",
		"phase", phaseSnapshotted,
		"original_ref", snapshot.OriginalRef,
		"original_commit", snapshot.OriginalCommit)

	if err := EnsureClean(ctx, client, opts.RepoPath); err != nil {
		return result, err
	}
	log.Debug("protocol state", "phase", phaseVerifiedClean)

	// Transient transport failures are retried; a missing ref is permanent
	// and reported as such.
	err = retry.Do(ctx, retry.GetConfig(), func(ctx context.Context) error {
		return client.FetchBranch(ctx, opts.RepoPath, remote, opts.Branch)
	})
	if err != nil {
		if git.IsMissingRemoteRef(err) {
			return result, detourErrors.ErrBranchNotFound(remote, opts.Branch)
		}
		return result, detourErrors.ErrRemoteFetch(remote, opts.Branch, err)
	}

	// Some transports report a successful fetch even when the refspec matched
	// nothing, so verify the tracking ref actually materialized.
	exists, err := client.RemoteRefExists(ctx, opts.RepoPath, remote, opts.Branch)
	if err != nil {
		return result, detourErrors.ErrRemoteFetch(remote, opts.Branch, err)
	}
	if !exists {
		return result, detourErrors.ErrBranchNotFound(remote, opts.Branch)
	}
	log.Debug("protocol state", "phase", phaseFetched)

	temp := NewTempBranch(opts.Branch)
	result.TempBranch = temp.Name
	startRef := fmt.Sprintf("refs/remotes/%s/%s", remote, opts.Branch)

	if err := client.CreateAndSwitch(ctx, opts.RepoPath, temp.Name, startRef); err != nil {
		// The tree may be half-switched at this point, so restoration runs
		// even though the operation never did.
		result.Restore = Restore(ctx, client, opts.RepoPath, snapshot, &temp)
		return result, detourErrors.ErrCheckout(temp.Name, err)
	}
	log.Debug("protocol state", "phase", phaseSwitched, "temp_branch", temp.Name)

	var opErr error
	func() {
		defer func() {
			log.Debug("protocol state", "phase", phaseRestoring)
			result.Restore = Restore(ctx, client, opts.RepoPath, snapshot, &temp)
		}()
		opErr = op(ctx)
	}()

	log.Debug("protocol state",
		"phase", phaseDone,
		"branch_restored", result.Restore.BranchRestored,
		"temp_deleted", result.Restore.TempDeleted)
	return result, opErr
}
