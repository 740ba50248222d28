package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		output      string
		wantAny     bool
		wantTracked bool
	}{
		{"empty", "", false, false},
		{"whitespace only", "\n", false, false},
		{"modified file", " M internal/git/client.go\n", true, true},
		{"staged file", "A  new_file.go\n", true, true},
		{"untracked only", "?? scratch.txt\n?? notes.md\n", true, false},
		{"mixed", "?? scratch.txt\n M main.go\n", true, true},
		{"deleted", " D removed.go\n", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hasAny, hasTracked := parseStatus(tt.output)
			assert.Equal(t, tt.wantAny, hasAny)
			assert.Equal(t, tt.wantTracked, hasTracked)
		})
	}
}

func TestIsClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		output string
		clean  bool
	}{
		{"clean tree", "", true},
		{"untracked files only", "?? scratch.txt\n", true},
		{"modified file", " M main.go\n", false},
		{"staged file", "M  main.go\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			commander := new(MockCommander)
			commander.expectRun("/repo", "status --porcelain", tt.output)

			client := NewClientWithCommander(commander)
			clean, err := client.IsClean(context.Background(), "/repo")

			require.NoError(t, err)
			assert.Equal(t, tt.clean, clean)
		})
	}
}

func TestIsClean_StatusFails(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.expectRunError("/repo", "status --porcelain",
		&GitError{Command: "git", Args: []string{"status", "--porcelain"}, Stderr: "fatal: not a git repository", ExitCode: 128})

	client := NewClientWithCommander(commander)
	_, err := client.IsClean(context.Background(), "/repo")

	assert.Error(t, err)
}

func TestCheckChanges(t *testing.T) {
	t.Parallel()

	commander := new(MockCommander)
	commander.expectRun("/repo", "status --porcelain", "?? scratch.txt\n M main.go\n")

	client := NewClientWithCommander(commander)
	hasAny, hasTracked, err := client.CheckChanges(context.Background(), "/repo")

	require.NoError(t, err)
	assert.True(t, hasAny)
	assert.True(t, hasTracked)
}
