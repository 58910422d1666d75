// Package workpadengine implements the Workpad Engine: the ephemeral
// branch lifecycle layered over a repository's trunk, checkpoints as
// tags, and the fast-forward-only promotion gate.
package workpadengine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sologit/sologit/internal/fileutil"
	"github.com/sologit/sologit/internal/gitwrap"
	"github.com/sologit/sologit/internal/idgen"
	"github.com/sologit/sologit/internal/repoengine"
	"github.com/sologit/sologit/internal/sgerrors"
	"github.com/sologit/sologit/internal/store"
)

// Engine owns the workpad metadata map. It borrows the repository
// engine's working trees for git operations but never persists repo
// state itself.
type Engine struct {
	dataRoot string
	path     string
	repos    *repoengine.Engine
	validate *validator.Validate

	mu      sync.Mutex
	workpad map[string]*Workpad
}

// New loads (or lazily initializes) the workpad metadata file.
func New(dataRoot string, repos *repoengine.Engine) (*Engine, error) {
	e := &Engine{
		dataRoot: dataRoot,
		path:     filepath.Join(fileutil.MetadataDir(dataRoot), "workpads.json"),
		repos:    repos,
		validate: validator.New(),
		workpad:  make(map[string]*Workpad),
	}
	var onDisk struct {
		Workpads map[string]*Workpad `json:"workpads"`
	}
	ok, err := store.ReadJSON(e.path, &onDisk)
	if err != nil {
		return nil, err
	}
	if ok && onDisk.Workpads != nil {
		e.workpad = onDisk.Workpads
	}
	return e, nil
}

func (e *Engine) save() error {
	payload := struct {
		Workpads map[string]*Workpad `json:"workpads"`
	}{Workpads: e.workpad}
	return store.WriteJSON(e.path, payload)
}

type createTitle struct {
	Title string `validate:"required,max=100"`
}

// Create validates the title, branches off trunk, and persists a new
// active workpad.
func (e *Engine) Create(repoID, title string) (string, error) {
	repo, err := e.repos.Get(repoID)
	if err != nil {
		return "", err
	}
	if err := e.validate.Struct(createTitle{Title: title}); err != nil {
		return "", &sgerrors.PatchValidationError{Detail: fmt.Sprintf("invalid workpad title: %s", err)}
	}

	r := gitwrap.NewRepo(repo.Path)
	if err := r.Checkout(repo.TrunkBranch); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	branch := branchName(title, now)
	if err := r.CreateBranch(branch, repo.TrunkBranch); err != nil {
		return "", err
	}

	e.mu.Lock()
	id := idgen.PadID()
	e.workpad[id] = &Workpad{
		ID:           id,
		RepoID:       repoID,
		Title:        title,
		BranchName:   branch,
		CreatedAt:    now,
		Checkpoints:  []string{},
		LastActivity: now,
		Status:       StatusActive,
	}
	saveErr := e.save()
	e.mu.Unlock()
	if saveErr != nil {
		return "", saveErr
	}

	if err := e.repos.UpdateMetadata(repoID, 1, true); err != nil {
		return "", err
	}
	return id, nil
}

func (e *Engine) get(id string) (*Workpad, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workpad[id]
	if !ok {
		return nil, &sgerrors.WorkpadNotFoundError{ID: id}
	}
	cp := *w
	cp.Checkpoints = append([]string(nil), w.Checkpoints...)
	return &cp, nil
}

// Get returns the workpad record for id.
func (e *Engine) Get(id string) (*Workpad, error) { return e.get(id) }

// List returns all workpad records, optionally filtered to one
// repository when repoID is non-empty.
func (e *Engine) List(repoID string) []*Workpad {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Workpad, 0, len(e.workpad))
	for _, w := range e.workpad {
		if repoID != "" && w.RepoID != repoID {
			continue
		}
		cp := *w
		out = append(out, &cp)
	}
	return out
}

func (e *Engine) repoAndGit(w *Workpad) (*repoengine.Repository, *gitwrap.Repo, error) {
	repo, err := e.repos.Get(w.RepoID)
	if err != nil {
		return nil, nil, err
	}
	return repo, gitwrap.NewRepo(repo.Path), nil
}

// Switch checks out the workpad's branch and updates last-activity.
func (e *Engine) Switch(id string) error {
	w, err := e.get(id)
	if err != nil {
		return err
	}
	_, r, err := e.repoAndGit(w)
	if err != nil {
		return err
	}
	if err := r.Checkout(w.BranchName); err != nil {
		return err
	}
	return e.touch(id)
}

func (e *Engine) touch(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workpad[id]
	if !ok {
		return &sgerrors.WorkpadNotFoundError{ID: id}
	}
	w.LastActivity = time.Now().UTC()
	return e.save()
}

// ApplyPatch checks out the workpad's branch, materializes patch to a
// scratch file, applies it with git, commits, and tags the result as
// the next checkpoint.
func (e *Engine) ApplyPatch(id, patch, message string) (string, error) {
	e.mu.Lock()
	w, ok := e.workpad[id]
	e.mu.Unlock()
	if !ok {
		return "", &sgerrors.WorkpadNotFoundError{ID: id}
	}
	repo, r, err := e.repoAndGit(w)
	if err != nil {
		return "", err
	}
	if err := r.Checkout(w.BranchName); err != nil {
		return "", err
	}

	scratchDir := fileutil.SologitSubdir(repo.Path, "patch-scratch")
	if err := fileutil.EnsureDir(scratchDir); err != nil {
		return "", err
	}
	scratchFile := filepath.Join(scratchDir, fmt.Sprintf("%s.patch", id))
	if err := os.WriteFile(scratchFile, []byte(patch), 0o644); err != nil {
		return "", err
	}
	defer os.Remove(scratchFile)

	if err := r.Apply(scratchFile); err != nil {
		return "", &sgerrors.PatchApplyFailedError{Detail: err.Error(), Cause: err}
	}
	if err := r.StageAll(); err != nil {
		return "", &sgerrors.PatchApplyFailedError{Detail: err.Error(), Cause: err}
	}

	e.mu.Lock()
	nextN := len(w.Checkpoints) + 1
	e.mu.Unlock()
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Checkpoint %d", nextN)
	}
	if err := r.Commit(message); err != nil {
		return "", &sgerrors.PatchApplyFailedError{Detail: err.Error(), Cause: err}
	}
	head, err := r.HeadCommit(w.BranchName)
	if err != nil {
		return "", err
	}
	tag := checkpointTag(w.BranchName, nextN)
	if err := r.CreateTag(tag, head); err != nil {
		return "", err
	}

	checkpointID := fmt.Sprintf("t%d", nextN)
	e.mu.Lock()
	w.Checkpoints = append(w.Checkpoints, checkpointID)
	w.LastActivity = time.Now().UTC()
	w.LastCommit = head
	saveErr := e.save()
	e.mu.Unlock()
	if saveErr != nil {
		return "", saveErr
	}
	return checkpointID, nil
}

// CanPromote reports whether the workpad is strictly ahead of trunk —
// i.e. the merge base of trunk and the workpad equals trunk's HEAD.
func (e *Engine) CanPromote(id string) (bool, error) {
	w, err := e.get(id)
	if err != nil {
		return false, err
	}
	repo, r, err := e.repoAndGit(w)
	if err != nil {
		return false, err
	}
	trunkHead, err := r.HeadCommit(repo.TrunkBranch)
	if err != nil {
		return false, err
	}
	padHead, err := r.HeadCommit(w.BranchName)
	if err != nil {
		return false, err
	}
	base, err := r.MergeBase(trunkHead, padHead)
	if err != nil {
		return false, err
	}
	return base == trunkHead, nil
}

// RecordTestResult sets the workpad's last test outcome. A recorded red
// result tightens the promotion gate; an unset result is neutral.
func (e *Engine) RecordTestResult(id string, result TestResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.workpad[id]
	if !ok {
		return &sgerrors.WorkpadNotFoundError{ID: id}
	}
	w.TestStatus = result
	return e.save()
}

// Promote fast-forwards trunk to the workpad's HEAD, deletes the
// workpad's branch, and marks it promoted.
func (e *Engine) Promote(id string) (string, error) {
	w, err := e.get(id)
	if err != nil {
		return "", err
	}
	if w.Status != StatusActive {
		return "", &sgerrors.CannotPromoteError{PadID: id, Reason: fmt.Sprintf("workpad status is %s, not active", w.Status)}
	}
	if w.TestStatus == TestResultRed {
		return "", &sgerrors.CannotPromoteError{PadID: id, Reason: "last recorded test result is red"}
	}
	canFF, err := e.CanPromote(id)
	if err != nil {
		return "", err
	}
	if !canFF {
		return "", &sgerrors.CannotPromoteError{PadID: id, Reason: "trunk has diverged; fast-forward is not possible"}
	}

	repo, r, err := e.repoAndGit(w)
	if err != nil {
		return "", err
	}
	if err := r.Checkout(repo.TrunkBranch); err != nil {
		return "", err
	}
	if err := r.MergeFastForward(w.BranchName); err != nil {
		return "", &sgerrors.CannotPromoteError{PadID: id, Reason: err.Error()}
	}
	newHead, err := r.HeadCommit(repo.TrunkBranch)
	if err != nil {
		return "", err
	}
	if err := r.DeleteBranch(w.BranchName); err != nil {
		return "", err
	}

	e.mu.Lock()
	rec := e.workpad[id]
	rec.Status = StatusPromoted
	rec.LastActivity = time.Now().UTC()
	saveErr := e.save()
	e.mu.Unlock()
	if saveErr != nil {
		return "", saveErr
	}
	if err := e.repos.UpdateMetadata(w.RepoID, -1, true); err != nil {
		return "", err
	}
	return newHead, nil
}

// Delete removes the workpad's branch (best-effort unless force is set)
// and marks the record deleted, retaining it for audit.
func (e *Engine) Delete(id string, force bool) error {
	w, err := e.get(id)
	if err != nil {
		return err
	}
	if w.Status == StatusActive {
		_, r, err := e.repoAndGit(w)
		if err != nil {
			return err
		}
		if delErr := r.DeleteBranch(w.BranchName); delErr != nil && !force {
			return delErr
		}
		if decErr := e.repos.UpdateMetadata(w.RepoID, -1, true); decErr != nil {
			return decErr
		}
	}

	e.mu.Lock()
	rec := e.workpad[id]
	rec.Status = StatusDeleted
	rec.LastActivity = time.Now().UTC()
	err = e.save()
	e.mu.Unlock()
	return err
}

// Diff returns the unified diff between base (default: trunk) and the
// workpad's branch.
func (e *Engine) Diff(id, base string) (string, error) {
	w, err := e.get(id)
	if err != nil {
		return "", err
	}
	repo, r, err := e.repoAndGit(w)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(base) == "" || base == "trunk" {
		base = repo.TrunkBranch
	}
	return r.Diff(base, w.BranchName)
}

// Compare diffs two workpads' HEADs and summarizes the files touched.
func (e *Engine) Compare(padA, padB string) (*Comparison, error) {
	wa, err := e.get(padA)
	if err != nil {
		return nil, err
	}
	wb, err := e.get(padB)
	if err != nil {
		return nil, err
	}
	if wa.RepoID != wb.RepoID {
		return nil, &sgerrors.PatchValidationError{Detail: "cannot compare workpads from different repositories"}
	}
	_, r, err := e.repoAndGit(wa)
	if err != nil {
		return nil, err
	}
	diff, err := r.Diff(wa.BranchName, wb.BranchName)
	if err != nil {
		return nil, err
	}
	files := filesTouchedInDiff(diff)
	return &Comparison{
		Diff:          diff,
		FilesChanged:  files,
		FilesChangedN: len(files),
		PadAID:        padA,
		PadBID:        padB,
	}, nil
}

// MergePreview derives the fast-forward status of a workpad without
// mutating anything, by counting rev-list in both directions and
// dry-running the merge in a detached scratch worktree.
func (e *Engine) MergePreview(id string) (*MergePreview, error) {
	w, err := e.get(id)
	if err != nil {
		return nil, err
	}
	repo, r, err := e.repoAndGit(w)
	if err != nil {
		return nil, err
	}

	ahead, err := r.RevListCount(repo.TrunkBranch, w.BranchName)
	if err != nil {
		return nil, err
	}
	behind, err := r.RevListCount(w.BranchName, repo.TrunkBranch)
	if err != nil {
		return nil, err
	}
	canFF, err := e.CanPromote(id)
	if err != nil {
		return nil, err
	}

	diff, err := r.Diff(repo.TrunkBranch, w.BranchName)
	if err != nil {
		return nil, err
	}
	files := filesTouchedInDiff(diff)

	var conflicts []string
	if !canFF {
		conflicts, err = e.dryRunConflicts(repo.Path, repo.TrunkBranch, w.BranchName)
		if err != nil {
			return nil, err
		}
	}

	return &MergePreview{
		CanFastForward: canFF,
		CommitsAhead:   ahead,
		CommitsBehind:  behind,
		FilesChanged:   files,
		Conflicts:      conflicts,
		ReadyToPromote: canFF && len(conflicts) == 0 && w.TestStatus != TestResultRed,
	}, nil
}

// dryRunConflicts probes a merge in a disposable detached worktree so
// the caller's checked-out branch is never touched.
func (e *Engine) dryRunConflicts(repoPath, trunk, branch string) ([]string, error) {
	r := gitwrap.NewRepo(repoPath)
	scratch := filepath.Join(fileutil.SologitSubdir(repoPath, "merge-preview"), idgen.PadID())
	if err := fileutil.EnsureDir(filepath.Dir(scratch)); err != nil {
		return nil, err
	}
	if err := r.WorktreeAddDetached(scratch, trunk); err != nil {
		return nil, err
	}
	defer r.WorktreeRemove(scratch)

	scratchRepo := gitwrap.NewRepo(scratch)
	if err := scratchRepo.MergeFastForward(branch); err == nil {
		return nil, nil
	}
	diff, err := r.Diff(trunk, branch)
	if err != nil {
		return nil, nil
	}
	return filesTouchedInDiff(diff), nil
}

func filesTouchedInDiff(diff string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, line := range strings.Split(diff, "\n") {
		var path string
		switch {
		case strings.HasPrefix(line, "+++ b/"):
			path = strings.TrimPrefix(line, "+++ b/")
		case strings.HasPrefix(line, "--- a/"):
			path = strings.TrimPrefix(line, "--- a/")
		default:
			continue
		}
		if path == "" || path == "/dev/null" || seen[path] {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}
	return files
}

// Cleanup deletes every active workpad whose last activity is older than
// days, optionally restricted to one repository and/or one status.
func (e *Engine) Cleanup(repoID string, days int, status Status) ([]string, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	e.mu.Lock()
	var candidates []string
	for id, w := range e.workpad {
		if repoID != "" && w.RepoID != repoID {
			continue
		}
		if status != "" && w.Status != status {
			continue
		}
		if w.LastActivity.After(cutoff) {
			continue
		}
		candidates = append(candidates, id)
	}
	e.mu.Unlock()

	var deleted []string
	for _, id := range candidates {
		if err := e.Delete(id, true); err != nil {
			continue
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}
