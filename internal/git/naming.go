package git

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// TempBranchPrefix marks branches owned by the checkout protocol.
const TempBranchPrefix = "detour-"

// tempBranchSeq disambiguates temporary branch names created within the same
// timestamp tick.
var tempBranchSeq atomic.Uint64

var multiHyphen = regexp.MustCompile(`-+`)

// SanitizeBranchName converts a branch name to a single path segment safe for
// embedding into another branch name.
//
// Examples:
//   - "fix/123" -> "fix-123"
//   - "feature/user/auth" -> "feature-user-auth"
//   - "bugfix/issue#456" -> "bugfix-issue-456"
func SanitizeBranchName(name string) string {
	if name == "" {
		return ""
	}

	sanitized := name

	// Path separators first; these would turn the derived name into a
	// hierarchical ref.
	sanitized = strings.ReplaceAll(sanitized, "/", "-")
	sanitized = strings.ReplaceAll(sanitized, "\\", "-")

	// Characters git refuses or that confuse shells.
	for _, char := range []string{":", "*", "?", "\"", "<", ">", "|", "#", "~", "^", " ", "\t"} {
		sanitized = strings.ReplaceAll(sanitized, char, "-")
	}

	sanitized = multiHyphen.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		return "branch"
	}

	return sanitized
}

// TempBranchName derives a collision-resistant temporary branch name from the
// target branch name and a timestamp. A process-local sequence number keeps
// two derivations within the same millisecond distinct.
func TempBranchName(target string, now time.Time) string {
	seq := tempBranchSeq.Add(1)
	return fmt.Sprintf("%s%s-%d-%d", TempBranchPrefix, SanitizeBranchName(target), now.UnixMilli(), seq)
}

// IsTempBranch reports whether a branch name was generated by TempBranchName.
func IsTempBranch(name string) bool {
	return strings.HasPrefix(name, TempBranchPrefix)
}
