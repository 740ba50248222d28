package git

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchBranch(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.expectRun("/repo", "fetch origin refs/heads/feature/auth:refs/remotes/origin/feature/auth", "")

	client := NewClientWithCommander(commander)
	err := client.FetchBranch(context.Background(), "/repo", "origin", "feature/auth")

	require.NoError(t, err)
	commander.AssertExpectations(t)
}

func TestFetchBranch_Validation(t *testing.T) {
	t.Parallel()

	client := NewClientWithCommander(new(MockCommander))
	ctx := context.Background()

	assert.Error(t, client.FetchBranch(ctx, "", "origin", "main"))
	assert.Error(t, client.FetchBranch(ctx, "/repo", "", "main"))
	assert.Error(t, client.FetchBranch(ctx, "/repo", "origin", ""))
}

func TestFetchBranch_Failure(t *testing.T) {
	t.Parallel()

	gitErr := &GitError{
		Command:  "git",
		Args:     []string{"fetch", "origin", "refs/heads/main:refs/remotes/origin/main"},
		Stderr:   "fatal: unable to access 'https://example.com/repo.git/': Could not resolve host",
		ExitCode: 128,
	}

	commander := new(MockCommander)
	commander.expectRunError("/repo", "fetch origin refs/heads/main:refs/remotes/origin/main", gitErr)

	client := NewClientWithCommander(commander)
	err := client.FetchBranch(context.Background(), "/repo", "origin", "main")

	require.Error(t, err)
	assert.False(t, IsMissingRemoteRef(err))
}

func TestRemoteRefExists(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.On("RunQuiet", "/repo", "rev-parse --verify --quiet refs/remotes/origin/main").Return(nil)

	client := NewClientWithCommander(commander)
	exists, err := client.RemoteRefExists(context.Background(), "/repo", "origin", "main")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRemoteRefExists_Missing(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.On("RunQuiet", "/repo", "rev-parse --verify --quiet refs/remotes/origin/ghost").
		Return(&GitError{Command: "git", Args: []string{"rev-parse"}, ExitCode: 1})

	client := NewClientWithCommander(commander)
	exists, err := client.RemoteRefExists(context.Background(), "/repo", "origin", "ghost")

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRemoteRefExists_Failure(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.On("RunQuiet", "/repo", "rev-parse --verify --quiet refs/remotes/origin/main").
		Return(&GitError{Command: "git", Args: []string{"rev-parse"}, Stderr: "fatal: not a git repository", ExitCode: 128})

	client := NewClientWithCommander(commander)
	_, err := client.RemoteRefExists(context.Background(), "/repo", "origin", "main")

	assert.Error(t, err)
}

func TestIsMissingRemoteRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		missing bool
	}{
		{
			name:    "missing remote ref",
			err:     &GitError{Stderr: "fatal: couldn't find remote ref refs/heads/ghost"},
			missing: true,
		},
		{
			name:    "invalid refspec",
			err:     &GitError{Stderr: "fatal: invalid refspec 'refs/heads/:refs/remotes/origin/'"},
			missing: true,
		},
		{
			name:    "network failure",
			err:     &GitError{Stderr: "fatal: unable to access: Could not resolve host"},
			missing: false,
		},
		{
			name:    "not a git error",
			err:     fmt.Errorf("plain error"),
			missing: false,
		},
		{
			name:    "nil",
			err:     nil,
			missing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.missing, IsMissingRemoteRef(tt.err))
		})
	}
}

func TestGitError_IsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stderr    string
		retryable bool
	}{
		{"dns failure", "fatal: Could not resolve host: example.com", true},
		{"connection refused", "fatal: unable to access: Connection refused", true},
		{"hung up", "fatal: The remote end hung up unexpectedly", true},
		{"rpc failure", "error: RPC failed; curl 18 transfer closed", true},
		{"missing ref", "fatal: couldn't find remote ref refs/heads/ghost", false},
		{"auth failure", "fatal: Authentication failed", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gitErr := &GitError{Stderr: tt.stderr, ExitCode: 128}
			assert.Equal(t, tt.retryable, gitErr.IsRetryable())
		})
	}
}
