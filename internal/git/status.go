package git

import (
	"context"
	"errors"
	"strings"
)

// parseStatus inspects git status --porcelain output and reports whether any
// changes exist, and whether any of them touch tracked or staged files.
// Untracked files show up as "??" lines and do not count as tracked changes.
func parseStatus(output string) (hasAnyChanges, hasTrackedChanges bool) {
	output = strings.TrimSpace(output)
	if output == "" {
		return false, false
	}

	hasAnyChanges = true
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "??") {
			hasTrackedChanges = true
			break
		}
	}

	return hasAnyChanges, hasTrackedChanges
}

// IsClean reports whether the working tree has no uncommitted tracked or
// staged modifications relative to the current commit. Untracked files do not
// make a tree dirty; they survive branch switches untouched.
func (c *CommandClient) IsClean(ctx context.Context, repoPath string) (bool, error) {
	if repoPath == "" {
		return false, errors.New("repository path cannot be empty")
	}

	stdout, _, err := c.commander.Run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false, err
	}

	_, hasTrackedChanges := parseStatus(string(stdout))
	return !hasTrackedChanges, nil
}

// CheckChanges runs git status once and returns both tracked and any changes.
func (c *CommandClient) CheckChanges(ctx context.Context, repoPath string) (hasAnyChanges, hasTrackedChanges bool, err error) {
	if repoPath == "" {
		return false, false, errors.New("repository path cannot be empty")
	}

	stdout, _, err := c.commander.Run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false, false, err
	}

	hasAnyChanges, hasTrackedChanges = parseStatus(string(stdout))
	return hasAnyChanges, hasTrackedChanges, nil
}
