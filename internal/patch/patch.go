package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sologit/sologit/internal/fileutil"
	"github.com/sologit/sologit/internal/gitwrap"
	"github.com/sologit/sologit/internal/metrics"
	"github.com/sologit/sologit/internal/repoengine"
	"github.com/sologit/sologit/internal/sgerrors"
	"github.com/sologit/sologit/internal/workpadengine"
)

// Engine implements the patch validation/application pipeline on top of
// the Workpad Engine, which owns the actual git mutation.
type Engine struct {
	workpads *workpadengine.Engine
	repos    *repoengine.Engine
}

// New builds a Patch Engine against the given repository and workpad
// engines.
func New(repos *repoengine.Engine, workpads *workpadengine.Engine) *Engine {
	return &Engine{workpads: workpads, repos: repos}
}

func (e *Engine) scratchWrite(repoPath, padID, text string) (string, func(), error) {
	dir := fileutil.SologitSubdir(repoPath, "patch-scratch")
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", func() {}, err
	}
	path := filepath.Join(dir, fmt.Sprintf("validate-%s.patch", padID))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", func() {}, err
	}
	return path, func() { os.Remove(path) }, nil
}

// Validate switches to the workpad's branch and dry-runs `git apply
// --check`, surfacing a PatchConflictError when it refuses to apply.
func (e *Engine) Validate(padID, text string) error {
	w, err := e.workpads.Get(padID)
	if err != nil {
		return err
	}
	repo, err := e.repos.Get(w.RepoID)
	if err != nil {
		return err
	}
	if err := e.workpads.Switch(padID); err != nil {
		return err
	}

	path, cleanup, err := e.scratchWrite(repo.Path, padID, text)
	if err != nil {
		return err
	}
	defer cleanup()

	r := gitwrap.NewRepo(repo.Path)
	if err := r.ApplyCheck(path); err != nil {
		return &sgerrors.PatchConflictError{Detail: err.Error(), Cause: err}
	}
	return nil
}

// Apply validates (unless disabled) and delegates to the Workpad
// Engine's ApplyPatch. Files matched entirely by the repository's ignore
// patterns are skipped without creating a checkpoint.
func (e *Engine) Apply(padID, text, message string, validate bool) (string, error) {
	if ignored, err := e.allFilesIgnored(padID, text); err == nil && ignored {
		metrics.RecordPatchOutcome("skipped_ignored")
		return "", nil
	}
	if validate {
		if err := e.Validate(padID, text); err != nil {
			metrics.RecordPatchOutcome("rejected")
			return "", err
		}
	}
	checkpointID, err := e.workpads.ApplyPatch(padID, text, message)
	if err != nil {
		metrics.RecordPatchOutcome("rejected")
		if _, ok := err.(*sgerrors.PatchApplyFailedError); ok {
			return "", err
		}
		return "", &sgerrors.PatchApplyFailedError{Detail: err.Error(), Cause: err}
	}
	metrics.RecordPatchOutcome("applied")
	return checkpointID, nil
}

// Preview computes stats and runs Validate without mutating anything
// beyond the scratch file it cleans up itself.
func (e *Engine) Preview(padID, text string) (*PreviewResult, error) {
	stats := ComputeStats(text)
	err := e.Validate(padID, text)
	hasConflicts := false
	var conflictFiles []string
	if err != nil {
		if _, ok := err.(*sgerrors.PatchConflictError); ok {
			hasConflicts = true
			conflictFiles = stats.FilesList
		} else {
			return nil, err
		}
	}
	return &PreviewResult{
		CanApply:       !hasConflicts,
		HasConflicts:   hasConflicts,
		ConflictFiles:  conflictFiles,
		Stats:          stats,
		Recommendation: recommend(hasConflicts, stats.Complexity),
	}, nil
}

// DetectConflicts returns the affected files when Validate fails, or an
// empty list on success.
func (e *Engine) DetectConflicts(padID, text string) ([]string, error) {
	err := e.Validate(padID, text)
	if err == nil {
		return nil, nil
	}
	if _, ok := err.(*sgerrors.PatchConflictError); ok {
		return ComputeStats(text).FilesList, nil
	}
	return nil, err
}

// DetectConflictsDetailed returns the richer conflict report.
func (e *Engine) DetectConflictsDetailed(padID, text string) (*ConflictsDetailed, error) {
	err := e.Validate(padID, text)
	if err == nil {
		return &ConflictsDetailed{HasConflicts: false, CanApply: true}, nil
	}
	conflictErr, ok := err.(*sgerrors.PatchConflictError)
	if !ok {
		return nil, err
	}
	files := ComputeStats(text).FilesList
	details := make([]string, 0, len(files))
	for _, f := range files {
		details = append(details, fmt.Sprintf("%s: %s", f, conflictErr.Detail))
	}
	return &ConflictsDetailed{
		HasConflicts:     true,
		ConflictingFiles: files,
		ConflictDetails:  details,
		CanApply:         false,
		ErrorMessage:     conflictErr.Detail,
	}, nil
}

// ApplyInteractive pipelines validateSyntax -> preview -> (apply|reason),
// returning a tagged result instead of raising exceptions for control
// flow.
func (e *Engine) ApplyInteractive(padID, text, message string, dryRun bool) (*InteractiveResult, error) {
	syntax := ValidateSyntax(text)
	if !syntax.Valid {
		return &InteractiveResult{Applied: false, Reason: ReasonInvalidSyntax, Errors: syntax.Errors}, nil
	}

	preview, err := e.Preview(padID, text)
	if err != nil {
		return nil, err
	}
	if preview.HasConflicts {
		return &InteractiveResult{Applied: false, Reason: ReasonHasConflicts, Preview: preview}, nil
	}
	if dryRun {
		return &InteractiveResult{Applied: false, Reason: ReasonDryRun, Preview: preview}, nil
	}

	checkpointID, err := e.Apply(padID, text, message, false)
	if err != nil {
		return &InteractiveResult{Applied: false, Reason: ReasonApplicationFailed, Preview: preview, Errors: []string{err.Error()}}, nil
	}
	return &InteractiveResult{Applied: true, Reason: ReasonSuccess, Preview: preview, CheckpointID: checkpointID}, nil
}

// CreateFromFiles switches to the workpad's branch, writes the given
// path->content map to disk, and computes `git diff HEAD -- <paths>`.
func (e *Engine) CreateFromFiles(padID string, files map[string]string) (string, error) {
	w, err := e.workpads.Get(padID)
	if err != nil {
		return "", err
	}
	repo, err := e.repos.Get(w.RepoID)
	if err != nil {
		return "", err
	}
	if err := e.workpads.Switch(padID); err != nil {
		return "", err
	}

	paths := make([]string, 0, len(files))
	for relPath, content := range files {
		full := filepath.Join(repo.Path, relPath)
		if err := fileutil.EnsureDir(filepath.Dir(full)); err != nil {
			return "", err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return "", err
		}
		paths = append(paths, relPath)
	}

	r := gitwrap.NewRepo(repo.Path)
	return r.DiffHeadPaths(paths)
}

// allFilesIgnored reports whether every file touched by patch text is
// matched by the repository's .sologitignore, in which case the caller
// should skip creating a checkpoint for a no-op change.
func (e *Engine) allFilesIgnored(padID, text string) (bool, error) {
	w, err := e.workpads.Get(padID)
	if err != nil {
		return false, err
	}
	repo, err := e.repos.Get(w.RepoID)
	if err != nil {
		return false, err
	}
	files := ComputeStats(text).FilesList
	matcher, err := loadIgnoreMatcher(repo.Path)
	if err != nil {
		return false, nil
	}
	return filesMatchIgnorePatterns(files, matcher), nil
}
