package commands

import (
	"testing"

	"github.com/detourdev/detour/internal/git"
	"github.com/detourdev/detour/internal/testutils"
)

func TestNewStatusCmd(t *testing.T) {
	cmd := NewStatusCmd()

	if cmd.Use != "status" {
		t.Errorf("unexpected Use: %q", cmd.Use)
	}
	if cmd.Flags().Lookup("repo") == nil {
		t.Fatal("expected --repo flag")
	}
	if cmd.Flags().Lookup("json") == nil {
		t.Fatal("expected --json flag")
	}
}

func TestCollectStatus_CleanRepo(t *testing.T) {
	remote := testutils.CreateRemoteRepo(t)
	repo := testutils.CloneRepo(t, remote)

	status, err := collectStatus(t.Context(), git.NewClient(), repo)
	if err != nil {
		t.Fatalf("collectStatus failed: %v", err)
	}

	if status.Branch != "main" {
		t.Errorf("expected branch main, got %q", status.Branch)
	}
	if status.Detached {
		t.Error("expected attached HEAD")
	}
	if !status.Clean {
		t.Error("expected clean tree")
	}
	if len(status.TempBranches) != 0 {
		t.Errorf("expected no temp branches, got %v", status.TempBranches)
	}
}

func TestCollectStatus_Detached(t *testing.T) {
	remote := testutils.CreateRemoteRepo(t)
	repo := testutils.CloneRepo(t, remote)
	testutils.RunGit(t, repo, "checkout", "-q", "--detach", "HEAD")

	status, err := collectStatus(t.Context(), git.NewClient(), repo)
	if err != nil {
		t.Fatalf("collectStatus failed: %v", err)
	}

	if !status.Detached {
		t.Error("expected detached HEAD")
	}
	if status.Branch != "" {
		t.Errorf("expected empty branch, got %q", status.Branch)
	}
	if status.Commit == "" {
		t.Error("expected commit to be populated")
	}
}

func TestCollectStatus_Dirty(t *testing.T) {
	remote := testutils.CreateRemoteRepo(t)
	repo := testutils.CloneRepo(t, remote)
	testutils.WriteFile(t, repo, "README.md", "local edit\n")

	status, err := collectStatus(t.Context(), git.NewClient(), repo)
	if err != nil {
		t.Fatalf("collectStatus failed: %v", err)
	}

	if status.Clean {
		t.Error("expected dirty tree")
	}
}

func TestCollectStatus_LeftoverTempBranch(t *testing.T) {
	remote := testutils.CreateRemoteRepo(t)
	repo := testutils.CloneRepo(t, remote)
	testutils.RunGit(t, repo, "branch", "detour-feature-1700000000000-1")

	status, err := collectStatus(t.Context(), git.NewClient(), repo)
	if err != nil {
		t.Fatalf("collectStatus failed: %v", err)
	}

	if len(status.TempBranches) != 1 || status.TempBranches[0] != "detour-feature-1700000000000-1" {
		t.Errorf("expected leftover temp branch, got %v", status.TempBranches)
	}
}
