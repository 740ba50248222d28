package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/detourdev/detour/internal/logger"
)

// MaxOutputBytes caps captured stdout/stderr per command. Commands with
// pathological output (a show of a huge blob, for instance) would otherwise
// grow memory without bound.
const MaxOutputBytes = 32 << 20

// Commander abstracts git command execution to enable dependency injection and testing.
// This abstraction prevents tight coupling to the git binary and allows
// mock implementations to replace real git execution for isolated testing.
type Commander interface {
	// Run executes a git command with the given arguments in the specified working directory.
	// Returns stdout, stderr, and any execution error. A non-zero exit is
	// reported as a *GitError carrying stderr and the exit code.
	Run(ctx context.Context, workDir string, args ...string) (stdout, stderr []byte, err error)

	// RunQuiet executes a git command without logging failures.
	// This is useful for probes where a non-zero exit is an expected answer
	// (ref existence checks) and should not show up as an error in logs.
	RunQuiet(ctx context.Context, workDir string, args ...string) error
}

// GitError represents a non-zero exit from a git command.
type GitError struct {
	Command  string
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s failed (exit %d): %s", strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// limitedBuffer accumulates command output up to MaxOutputBytes and silently
// drops the rest. Write never fails so the command itself is not disturbed.
type limitedBuffer struct {
	buf       strings.Builder
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	remaining := MaxOutputBytes - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remaining {
		b.buf.Write(p[:remaining])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }
func (b *limitedBuffer) Bytes() []byte  { return []byte(b.buf.String()) }

// LiveCommander provides production git command execution with structured
// logging and bounded output capture.
type LiveCommander struct{}

// NewLiveCommander creates a new instance of LiveCommander.
func NewLiveCommander() *LiveCommander {
	return &LiveCommander{}
}

// Run executes a git command with structured logging and error handling.
func (c *LiveCommander) Run(ctx context.Context, workDir string, args ...string) (stdout, stderr []byte, err error) {
	log := logger.WithComponent("git_commander")
	start := time.Now()

	log.GitCommand("git", args)
	cmd := exec.CommandContext(ctx, "git", args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var outBuf, errBuf limitedBuffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	duration := time.Since(start)

	if runErr != nil {
		gitErr := &GitError{
			Command:  "git",
			Args:     args,
			Stderr:   errBuf.String(),
			ExitCode: exitCode(runErr),
		}

		log.GitResult("git", false, errBuf.String(), "duration", duration, "workdir", workDir)
		return outBuf.Bytes(), errBuf.Bytes(), gitErr
	}

	log.GitResult("git", true, outBuf.String(), "duration", duration, "workdir", workDir)
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// RunQuiet executes a git command without logging failures.
// Successful operations are still logged at debug level.
func (c *LiveCommander) RunQuiet(ctx context.Context, workDir string, args ...string) error {
	log := logger.WithComponent("git_commander")
	start := time.Now()

	log.GitCommand("git", args)
	cmd := exec.CommandContext(ctx, "git", args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var outBuf, errBuf limitedBuffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		// No failure logging here; the caller expects failures and will
		// handle them.
		return &GitError{
			Command:  "git",
			Args:     args,
			Stderr:   errBuf.String(),
			ExitCode: exitCode(err),
		}
	}

	log.GitResult("git", true, outBuf.String(), "duration", time.Since(start), "workdir", workDir)
	return nil
}

// exitCode extracts the process exit code, or -1 when the command never ran.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// DefaultCommander provides a default instance of LiveCommander for production use.
var DefaultCommander Commander = NewLiveCommander()
