package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/detourdev/detour/internal/checkout"
	"github.com/detourdev/detour/internal/config"
	"github.com/detourdev/detour/internal/git"
	"github.com/detourdev/detour/internal/logger"
	"github.com/detourdev/detour/internal/repolock"
	"github.com/detourdev/detour/internal/styles"
)

// ExitCodeError carries the wrapped command's exit code so main can mirror
// it instead of collapsing every failure to 1.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string {
	return e.Err.Error()
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// NewExecCmd creates the exec command
func NewExecCmd() *cobra.Command {
	var repoPath string
	var remote string

	cmd := &cobra.Command{
		Use:   "exec <branch> -- <command>",
		Short: "Run a command against a remote branch's content",
		Long: `Fetch a remote branch, check it out on a throwaway local branch, run the
command, and restore the original checkout afterwards.

Examples:
  detour exec feature/auth -- go test ./...      # Test another branch
  detour exec main -- make build                 # Build main without switching
  detour exec pr-42 --remote fork -- npm test    # Use a different remote`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse args using ArgsLenAtDash: before -- is the branch, after is
			// the command.
			dashPos := cmd.ArgsLenAtDash()
			if dashPos < 0 {
				return errors.New("no command specified after --")
			}
			branchArgs := args[:dashPos]
			command := args[dashPos:]
			if len(branchArgs) != 1 {
				return errors.New("exactly one branch must be given before --")
			}
			if len(command) == 0 {
				return errors.New("no command specified after --")
			}
			return runExec(cmd.Context(), repoPath, remote, branchArgs[0], command)
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "Path to the repository clone")
	cmd.Flags().StringVar(&remote, "remote", "", "Remote to fetch from (default from config)")
	cmd.Flags().BoolP("help", "h", false, "Help for exec")

	return cmd
}

func runExec(ctx context.Context, repoPath, remote, branch string, command []string) error {
	repo, err := filepath.Abs(repoPath)
	if err != nil {
		return fmt.Errorf("failed to resolve repository path: %w", err)
	}

	remote = resolveRemote(remote, repo)

	lock, err := repolock.Acquire(repo)
	if err != nil {
		return err
	}
	defer lock.Release()

	logger.Info("running command on temporary checkout",
		"repo", repo, "branch", branch, "remote", remote, "command", strings.Join(command, " "))

	client := git.NewClient()
	result, err := checkout.Run(ctx, client, checkout.Options{
		RepoPath: repo,
		Branch:   branch,
		Remote:   remote,
	}, func(ctx context.Context) error {
		return runCommand(ctx, repo, command)
	})

	reportRestore(result.Restore)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitCodeError{Code: exitErr.ExitCode(), Err: err}
		}
		return err
	}

	fmt.Fprintln(os.Stderr, styles.Render(&styles.Success, "Command succeeded; original checkout restored"))
	return nil
}

// resolveRemote picks the remote with flag > repository file > config
// precedence.
func resolveRemote(flagValue, repo string) string {
	if flagValue != "" {
		return flagValue
	}

	fileCfg, err := config.LoadFromFile(repo)
	if err != nil {
		logger.Warn("ignoring unreadable repository config", "error", err)
	} else if fileCfg.Remote != "" {
		return fileCfg.Remote
	}

	return config.GetString("git.default_remote")
}

func runCommand(ctx context.Context, repo string, command []string) error {
	if timeout := config.GetDuration("checkout.operation_timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec
	cmd.Dir = repo
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// reportRestore surfaces restoration problems on stderr. They never change
// the command's outcome, but the user has to know when manual cleanup is
// needed.
func reportRestore(report checkout.RestoreReport) {
	if !report.NeedsManualIntervention() {
		return
	}

	fmt.Fprintln(os.Stderr, styles.Render(&styles.Warning, "Warning: restoration was incomplete. Run the following to recover:"))
	for _, step := range report.ManualSteps {
		fmt.Fprintf(os.Stderr, "  %s\n", styles.Render(&styles.Dimmed, step))
	}
}
