package checkout

import (
	"context"
	"fmt"

	"github.com/detourdev/detour/internal/git"
	"github.com/detourdev/detour/internal/logger"
)

// RestoreReport describes the outcome of best-effort restoration. It is a
// side channel: restoration problems are recorded here and logged, and never
// replace the protocol's primary result.
type RestoreReport struct {
	// BranchRestored reports whether the repository was switched back to its
	// original branch or commit.
	BranchRestored bool
	BranchError    error

	// TempDeleted reports whether the temporary branch was removed. True when
	// there was no temporary branch to remove.
	TempDeleted bool
	DeleteError error

	// ManualSteps holds the exact git commands a user must run by hand for
	// every restoration step that failed.
	ManualSteps []string
}

// NeedsManualIntervention reports whether any restoration step failed.
func (r RestoreReport) NeedsManualIntervention() bool {
	return len(r.ManualSteps) > 0
}

// Restore switches the repository back to the snapshotted branch or commit
// and deletes the temporary branch. The two steps are independent and both
// best-effort: a failed switch does not skip the delete, and neither failure
// is returned as an error. Failures are logged together with the manual git
// command that recovers from them.
func Restore(ctx context.Context, client git.Client, repoPath string, snapshot Snapshot, temp *TempBranch) RestoreReport {
	log := logger.WithComponent("restore").With("repo", repoPath)
	var report RestoreReport

	var switchErr error
	if snapshot.Detached {
		switchErr = client.SwitchDetached(ctx, repoPath, snapshot.OriginalCommit)
	} else {
		switchErr = client.Switch(ctx, repoPath, snapshot.OriginalRef)
	}
	if switchErr != nil {
		manual := fmt.Sprintf("git checkout %s", snapshot.RestoreTarget())
		report.BranchError = switchErr
		report.ManualSteps = append(report.ManualSteps, manual)
		log.Error("failed to restore original checkout",
			"target", snapshot.RestoreTarget(),
			"error", switchErr,
			"manual_fix", manual)
	} else {
		report.BranchRestored = true
		log.Debug("restored original checkout", "target", snapshot.RestoreTarget())
	}

	if temp == nil {
		report.TempDeleted = true
		return report
	}

	if err := client.DeleteBranch(ctx, repoPath, temp.Name); err != nil {
		manual := fmt.Sprintf("git branch -D %s", temp.Name)
		report.DeleteError = err
		report.ManualSteps = append(report.ManualSteps, manual)
		log.Error("failed to delete temporary branch",
			"branch", temp.Name,
			"error", err,
			"manual_fix", manual)
	} else {
		report.TempDeleted = true
		log.Debug("deleted temporary branch", "branch", temp.Name)
	}

	return report
}
