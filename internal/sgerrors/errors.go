// Package sgerrors defines the error kinds raised across the engine (see
// the error handling design: each kind is a concrete type so callers can
// distinguish them with errors.As rather than string matching).
package sgerrors

import "fmt"

// RepositoryInitFailedError is raised when archive extraction, a clone,
// or trunk detection fails during repository initialization.
type RepositoryInitFailedError struct {
	Detail string
	Cause  error
}

func (e *RepositoryInitFailedError) Error() string {
	return fmt.Sprintf("repository init failed: %s", e.Detail)
}

func (e *RepositoryInitFailedError) Unwrap() error { return e.Cause }

// RepositoryNotFoundError is raised when a repo-keyed operation is given
// an unknown id.
type RepositoryNotFoundError struct {
	ID string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s", e.ID)
}

// WorkpadNotFoundError is raised when a pad-keyed operation is given an
// unknown id.
type WorkpadNotFoundError struct {
	ID string
}

func (e *WorkpadNotFoundError) Error() string {
	return fmt.Sprintf("workpad not found: %s", e.ID)
}

// CannotPromoteError is raised when promote is called on a workpad that
// cannot fast-forward, or whose recorded test result is red.
type CannotPromoteError struct {
	PadID  string
	Reason string
}

func (e *CannotPromoteError) Error() string {
	return fmt.Sprintf("cannot promote %s: %s", e.PadID, e.Reason)
}

// PatchConflictError is raised when a patch check refuses to apply.
type PatchConflictError struct {
	Detail string
	Cause  error
}

func (e *PatchConflictError) Error() string {
	return fmt.Sprintf("patch conflict: %s", e.Detail)
}

func (e *PatchConflictError) Unwrap() error { return e.Cause }

// PatchApplyFailedError wraps a git error encountered while applying an
// already-validated patch.
type PatchApplyFailedError struct {
	Detail string
	Cause  error
}

func (e *PatchApplyFailedError) Error() string {
	return fmt.Sprintf("patch apply failed: %s", e.Detail)
}

func (e *PatchApplyFailedError) Unwrap() error { return e.Cause }

// PatchValidationError is raised by validate for structurally invalid
// input that never reaches git.
type PatchValidationError struct {
	Detail string
}

func (e *PatchValidationError) Error() string {
	return fmt.Sprintf("patch validation error: %s", e.Detail)
}

// BudgetExceededError is raised by any AI operation whose estimated cost
// would push the day's projected spend past the cap.
type BudgetExceededError struct {
	Remaining float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: %.4f USD remaining today", e.Remaining)
}

// AIError wraps a failure from the abstract AI channel. The orchestrator
// converts this into a zero-cost fallback response rather than
// propagating it to the caller.
type AIError struct {
	Detail string
	Cause  error
}

func (e *AIError) Error() string {
	return fmt.Sprintf("ai channel error: %s", e.Detail)
}

func (e *AIError) Unwrap() error { return e.Cause }
