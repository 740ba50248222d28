package checkout

import (
	"context"
	"fmt"

	"github.com/detourdev/detour/internal/git"
)

// fakeClient models just enough repository state to drive the protocol:
// the checked-out ref, cleanliness, local branches, and which branches the
// remote advertises. Every call is recorded so tests can assert what the
// protocol did and in what order.
type fakeClient struct {
	branch   string
	commit   string
	detached bool
	clean    bool

	// remoteHeads lists branches that exist on the remote. Fetching anything
	// else fails the way a real fetch does.
	remoteHeads map[string]bool
	// trackingRefs holds remote-tracking refs materialized by fetches,
	// keyed "remote/branch".
	trackingRefs map[string]bool
	branches     map[string]bool

	commitErr   error
	branchErr   error
	statusErr   error
	fetchErr    error
	refErr      error
	checkoutErr error
	switchErr   error
	deleteErr   error

	calls []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		branch:       "main",
		commit:       "abc123def456",
		clean:        true,
		remoteHeads:  map[string]bool{"feature/auth": true, "main": true},
		trackingRefs: map[string]bool{},
		branches:     map[string]bool{"main": true},
	}
}

func (f *fakeClient) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) called(prefix string) bool {
	for _, call := range f.calls {
		if call == prefix || len(call) > len(prefix) && call[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (f *fakeClient) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	f.record("current-branch")
	if f.branchErr != nil {
		return "", f.branchErr
	}
	if f.detached {
		return "", git.ErrDetachedHead
	}
	return f.branch, nil
}

func (f *fakeClient) CurrentCommit(ctx context.Context, repoPath string) (string, error) {
	f.record("current-commit")
	if f.commitErr != nil {
		return "", f.commitErr
	}
	return f.commit, nil
}

func (f *fakeClient) IsClean(ctx context.Context, repoPath string) (bool, error) {
	f.record("status")
	if f.statusErr != nil {
		return false, f.statusErr
	}
	return f.clean, nil
}

func (f *fakeClient) FetchBranch(ctx context.Context, repoPath, remote, branch string) error {
	f.record("fetch %s %s", remote, branch)
	if f.fetchErr != nil {
		return f.fetchErr
	}
	if !f.remoteHeads[branch] {
		return &git.GitError{
			Command:  "git",
			Args:     []string{"fetch", remote},
			Stderr:   fmt.Sprintf("fatal: couldn't find remote ref refs/heads/%s", branch),
			ExitCode: 128,
		}
	}
	f.trackingRefs[remote+"/"+branch] = true
	return nil
}

func (f *fakeClient) RemoteRefExists(ctx context.Context, repoPath, remote, branch string) (bool, error) {
	f.record("ref-exists %s %s", remote, branch)
	if f.refErr != nil {
		return false, f.refErr
	}
	return f.trackingRefs[remote+"/"+branch], nil
}

func (f *fakeClient) CreateAndSwitch(ctx context.Context, repoPath, branch, startRef string) error {
	f.record("create-and-switch %s %s", branch, startRef)
	if f.checkoutErr != nil {
		return f.checkoutErr
	}
	f.branches[branch] = true
	f.branch = branch
	f.detached = false
	return nil
}

func (f *fakeClient) Switch(ctx context.Context, repoPath, branch string) error {
	f.record("switch %s", branch)
	if f.switchErr != nil {
		return f.switchErr
	}
	if !f.branches[branch] {
		return &git.GitError{
			Command:  "git",
			Args:     []string{"checkout", branch},
			Stderr:   fmt.Sprintf("error: pathspec '%s' did not match", branch),
			ExitCode: 1,
		}
	}
	f.branch = branch
	f.detached = false
	return nil
}

func (f *fakeClient) SwitchDetached(ctx context.Context, repoPath, commit string) error {
	f.record("switch-detached %s", commit)
	if f.switchErr != nil {
		return f.switchErr
	}
	f.commit = commit
	f.detached = true
	f.branch = ""
	return nil
}

func (f *fakeClient) DeleteBranch(ctx context.Context, repoPath, branch string) error {
	f.record("delete %s", branch)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if f.branch == branch {
		return &git.GitError{
			Command:  "git",
			Args:     []string{"branch", "-D", branch},
			Stderr:   fmt.Sprintf("error: Cannot delete branch '%s' checked out", branch),
			ExitCode: 1,
		}
	}
	delete(f.branches, branch)
	return nil
}

var _ git.Client = (*fakeClient)(nil)
