package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/detourdev/detour/internal/git"
	"github.com/detourdev/detour/internal/styles"
)

// RepoStatus is what `detour status` reports about a repository.
type RepoStatus struct {
	Branch       string   `json:"branch,omitempty"`
	Detached     bool     `json:"detached"`
	Commit       string   `json:"commit"`
	Clean        bool     `json:"clean"`
	TempBranches []string `json:"temp_branches,omitempty"`
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var repoPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show repository state and leftover temporary branches",
		Long: `Report the current branch, working tree cleanliness, and any temporary
branches left behind by interrupted runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), repoPath, asJSON)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "Path to the repository clone")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func runStatus(ctx context.Context, repoPath string, asJSON bool) error {
	repo, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("failed to resolve repository path: %w", err)
	}

	status, err := collectStatus(ctx, git.NewClient(), repo)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	}

	printStatus(status)
	return nil
}

func collectStatus(ctx context.Context, client *git.CommandClient, repo string) (*RepoStatus, error) {
	var status RepoStatus

	branch, err := client.CurrentBranch(ctx, repo)
	switch {
	case errors.Is(err, git.ErrDetachedHead):
		status.Detached = true
	case err != nil:
		return nil, err
	default:
		status.Branch = branch
	}

	commit, err := client.CurrentCommit(ctx, repo)
	if err != nil {
		return nil, err
	}
	status.Commit = commit

	clean, err := client.IsClean(ctx, repo)
	if err != nil {
		return nil, err
	}
	status.Clean = clean

	branches, err := client.LocalBranches(ctx, repo)
	if err != nil {
		return nil, err
	}
	for _, name := range branches {
		if git.IsTempBranch(name) {
			status.TempBranches = append(status.TempBranches, name)
		}
	}

	return &status, nil
}

func printStatus(status *RepoStatus) {
	if status.Detached {
		fmt.Printf("HEAD:   detached at %s\n", status.Commit)
	} else {
		fmt.Printf("Branch: %s\n", status.Branch)
		fmt.Printf("Commit: %s\n", status.Commit)
	}

	if status.Clean {
		fmt.Printf("Tree:   %s\n", styles.Render(&styles.Success, "clean"))
	} else {
		fmt.Printf("Tree:   %s\n", styles.Render(&styles.Warning, "dirty"))
	}

	if len(status.TempBranches) == 0 {
		return
	}

	fmt.Println(styles.Render(&styles.Warning, "Leftover temporary branches from interrupted runs:"))
	for _, name := range status.TempBranches {
		fmt.Printf("  %s\n", name)
		fmt.Printf("  %s\n", styles.Render(&styles.Dimmed, "git branch -D "+name))
	}
}
