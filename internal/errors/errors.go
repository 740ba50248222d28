package errors

import (
	"errors"
	"fmt"
)

// Error codes for programmatic handling
const (
	// Protocol precondition errors
	ErrCodeSnapshot         = "SNAPSHOT"
	ErrCodeDirtyWorkingTree = "DIRTY_WORKING_TREE"

	// Remote errors
	ErrCodeRemoteFetch    = "REMOTE_FETCH"
	ErrCodeBranchNotFound = "BRANCH_NOT_FOUND"

	// Checkout errors
	ErrCodeCheckout = "CHECKOUT"

	// Git execution errors
	ErrCodeGitCommand = "GIT_COMMAND"

	// Concurrency errors
	ErrCodeRepoLocked = "REPO_LOCKED"

	// Configuration errors
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// DetourError represents a standardized error with code and context.
//
// DetourError provides structured error handling for detour operations with:
//   - Code: standardized error code for programmatic handling
//   - Message: human-readable error description
//   - Cause: underlying error that caused this error (optional)
//   - Context: additional contextual information as key-value pairs
//   - Operation: the operation that failed (optional)
//
// Example usage:
//
//	err := ErrBranchNotFound("origin", "feature/auth")
//	if IsDetourError(err, ErrCodeBranchNotFound) {
//	  // Handle missing branch
//	}
type DetourError struct {
	Code      string                 // Standardized error code (see ErrCode* constants)
	Message   string                 // Human-readable error message
	Cause     error                  // Underlying error that caused this error
	Context   map[string]interface{} // Additional contextual information
	Operation string                 // The operation that failed
}

// Error implements the error interface
func (e *DetourError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *DetourError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *DetourError) Is(target error) bool {
	if t, ok := target.(*DetourError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error
func (e *DetourError) WithContext(key string, value interface{}) *DetourError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewDetourError creates a new standardized error
func NewDetourError(code, message string, cause error) *DetourError {
	return &DetourError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDetourErrorf creates a new standardized error with formatted message
func NewDetourErrorf(code string, cause error, format string, args ...interface{}) *DetourError {
	return &DetourError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error factory functions for the protocol's error taxonomy

// ErrSnapshot indicates the repository's current state could not be determined.
// This aborts the protocol before any mutation occurs.
func ErrSnapshot(path string, cause error) *DetourError {
	return NewDetourErrorf(ErrCodeSnapshot, cause, "failed to capture repository state at: %s", path).
		WithContext("path", path)
}

// ErrDirtyWorkingTree indicates uncommitted changes block the protocol.
func ErrDirtyWorkingTree(path string) *DetourError {
	return NewDetourErrorf(ErrCodeDirtyWorkingTree, nil, "working tree has uncommitted changes at: %s", path).
		WithContext("path", path)
}

// ErrRemoteFetch indicates a network or transport failure while fetching.
func ErrRemoteFetch(remote, branch string, cause error) *DetourError {
	return NewDetourErrorf(ErrCodeRemoteFetch, cause, "failed to fetch %s from remote %s", branch, remote).
		WithContext("remote", remote).
		WithContext("branch", branch)
}

// ErrBranchNotFound indicates the target branch does not exist on the remote.
func ErrBranchNotFound(remote, branch string) *DetourError {
	return NewDetourErrorf(ErrCodeBranchNotFound, nil, "branch %s not found on remote %s", branch, remote).
		WithContext("remote", remote).
		WithContext("branch", branch)
}

// ErrCheckout indicates the temporary branch could not be created or switched to.
func ErrCheckout(branch string, cause error) *DetourError {
	return NewDetourErrorf(ErrCodeCheckout, cause, "failed to check out temporary branch: %s", branch).
		WithContext("branch", branch)
}

// ErrGitCommand wraps a failed git invocation.
func ErrGitCommand(operation string, cause error) *DetourError {
	return NewDetourErrorf(ErrCodeGitCommand, cause, "git %s failed", operation).
		WithContext("operation", operation)
}

// ErrRepoLocked indicates another detour invocation holds the repository lock.
func ErrRepoLocked(path string, pid int) *DetourError {
	return NewDetourErrorf(ErrCodeRepoLocked, nil, "another detour operation (PID %d) is running against: %s", pid, path).
		WithContext("path", path).
		WithContext("pid", pid)
}

// ErrConfigInvalid indicates configuration could not be loaded or parsed.
func ErrConfigInvalid(source string, cause error) *DetourError {
	return NewDetourErrorf(ErrCodeConfigInvalid, cause, "invalid configuration: %s", source).
		WithContext("source", source)
}

// IsDetourError checks if an error carries the given detour error code
func IsDetourError(err error, code string) bool {
	var detourErr *DetourError
	if errors.As(err, &detourErr) {
		return detourErr.Code == code
	}
	return false
}

// GetErrorCode returns the detour error code from any error, or ""
func GetErrorCode(err error) string {
	var detourErr *DetourError
	if errors.As(err, &detourErr) {
		return detourErr.Code
	}
	return ""
}

// GetErrorContext returns the context map from a detour error, or nil
func GetErrorContext(err error) map[string]interface{} {
	var detourErr *DetourError
	if errors.As(err, &detourErr) {
		return detourErr.Context
	}
	return nil
}
