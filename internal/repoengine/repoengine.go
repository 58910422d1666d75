// Package repoengine implements the Repository Engine: initializing
// repositories from an archive or a remote clone, enumerating them, and
// the narrow metadata mutations the Workpad Engine needs.
package repoengine

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sologit/sologit/internal/fileutil"
	"github.com/sologit/sologit/internal/gitwrap"
	"github.com/sologit/sologit/internal/idgen"
	"github.com/sologit/sologit/internal/sgerrors"
	"github.com/sologit/sologit/internal/store"
)

const defaultTrunkBranch = "main"

// Engine owns the repository metadata map and the on-disk working trees
// it references.
type Engine struct {
	dataRoot string
	path     string

	mu    sync.Mutex
	repos map[string]*Repository
}

// New loads (or lazily initializes) the repository metadata file under
// dataRoot.
func New(dataRoot string) (*Engine, error) {
	e := &Engine{
		dataRoot: dataRoot,
		path:     filepath.Join(fileutil.MetadataDir(dataRoot), "repositories.json"),
		repos:    make(map[string]*Repository),
	}
	var onDisk struct {
		Repos map[string]*Repository `json:"repos"`
	}
	ok, err := store.ReadJSON(e.path, &onDisk)
	if err != nil {
		return nil, err
	}
	if ok && onDisk.Repos != nil {
		e.repos = onDisk.Repos
	}
	return e, nil
}

func (e *Engine) save() error {
	payload := struct {
		Repos map[string]*Repository `json:"repos"`
	}{Repos: e.repos}
	return store.WriteJSON(e.path, payload)
}

func newRepoID() string { return idgen.RepoID() }

// InitFromArchive extracts a zip archive into a fresh working tree,
// creates an initial commit, and persists a new Repository record.
func (e *Engine) InitFromArchive(archiveBytes []byte, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &sgerrors.RepositoryInitFailedError{Detail: "name must not be empty"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := newRepoID()
	dir := fileutil.RepoWorkingDir(e.dataRoot, id)

	if err := e.materializeArchive(archiveBytes, dir); err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}

	if err := gitwrap.Init(dir); err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	repo := gitwrap.NewRepo(dir)
	repo.EnsureIdentity()
	if err := repo.StageAll(); err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	if err := repo.Commit("Initial commit from zip"); err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	if err := ensureTrunkBranch(repo, defaultTrunkBranch); err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}

	now := time.Now().UTC()
	e.repos[id] = &Repository{
		ID:           id,
		Name:         name,
		Path:         dir,
		TrunkBranch:  defaultTrunkBranch,
		CreatedAt:    now,
		WorkpadCount: 0,
		SourceType:   SourceArchive,
		LastActivity: now,
	}
	if err := e.save(); err != nil {
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	return id, nil
}

// materializeArchive extracts a zip byte slice into dir, which must not
// already exist.
func (e *Engine) materializeArchive(archiveBytes []byte, dir string) error {
	if err := fileutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(archiveBytes), int64(len(archiveBytes)))
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	for _, f := range zr.File {
		target := filepath.Join(dir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) && target != filepath.Clean(dir) {
			return fmt.Errorf("archive entry %q escapes extraction root", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := fileutil.EnsureDir(target); err != nil {
				return err
			}
			continue
		}
		if err := fileutil.EnsureDir(filepath.Dir(target)); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("opening %s in archive: %w", f.Name, err)
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return fmt.Errorf("creating %s: %w", target, err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		out.Close()
		if copyErr != nil {
			return fmt.Errorf("writing %s: %w", target, copyErr)
		}
	}
	return nil
}

// ensureTrunkBranch renames the current branch to trunk, creating it if
// the repository has no branch yet (a fresh init with one commit always
// has *a* branch; this covers the case where it isn't named trunk).
func ensureTrunkBranch(repo *gitwrap.Repo, trunk string) error {
	current, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if current == trunk {
		return nil
	}
	return repo.RenameBranch(trunk)
}

// InitFromRemote clones url into a fresh working tree and persists a new
// Repository record. If name is empty, it is derived from the URL tail.
func (e *Engine) InitFromRemote(url, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := newRepoID()
	dir := fileutil.RepoWorkingDir(e.dataRoot, id)

	repo, err := gitwrap.Clone(url, dir)
	if err != nil {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	trunk, err := repo.CurrentBranch()
	if err != nil || trunk == "" {
		os.RemoveAll(dir)
		return "", &sgerrors.RepositoryInitFailedError{Detail: "could not detect trunk branch after clone"}
	}

	if strings.TrimSpace(name) == "" {
		name = deriveNameFromURL(url)
	}

	now := time.Now().UTC()
	e.repos[id] = &Repository{
		ID:           id,
		Name:         name,
		Path:         dir,
		TrunkBranch:  trunk,
		CreatedAt:    now,
		WorkpadCount: 0,
		SourceType:   SourceRemote,
		SourceURL:    url,
		LastActivity: now,
	}
	if err := e.save(); err != nil {
		return "", &sgerrors.RepositoryInitFailedError{Detail: err.Error(), Cause: err}
	}
	return id, nil
}

func deriveNameFromURL(url string) string {
	tail := url
	if idx := strings.LastIndexAny(tail, "/\\"); idx >= 0 {
		tail = tail[idx+1:]
	}
	return strings.TrimSuffix(tail, ".git")
}

// Get returns the repository record for id.
func (e *Engine) Get(id string) (*Repository, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	repo, ok := e.repos[id]
	if !ok {
		return nil, &sgerrors.RepositoryNotFoundError{ID: id}
	}
	cp := *repo
	return &cp, nil
}

// List returns all repository records.
func (e *Engine) List() []*Repository {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Repository, 0, len(e.repos))
	for _, r := range e.repos {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

// UpdateMetadata applies a workpad-count delta and optionally touches
// last-activity, rewriting the metadata file atomically.
func (e *Engine) UpdateMetadata(id string, workpadCountDelta int, touchActivity bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	repo, ok := e.repos[id]
	if !ok {
		return &sgerrors.RepositoryNotFoundError{ID: id}
	}
	repo.WorkpadCount += workpadCountDelta
	if repo.WorkpadCount < 0 {
		repo.WorkpadCount = 0
	}
	if touchActivity {
		repo.LastActivity = time.Now().UTC()
	}
	return e.save()
}

// RevertLastTrunkCommit hard-resets trunk to HEAD~1, for emergency
// rollback after a bad promotion.
func (e *Engine) RevertLastTrunkCommit(id string) error {
	e.mu.Lock()
	repo, ok := e.repos[id]
	e.mu.Unlock()
	if !ok {
		return &sgerrors.RepositoryNotFoundError{ID: id}
	}
	r := gitwrap.NewRepo(repo.Path)
	if err := r.Checkout(repo.TrunkBranch); err != nil {
		return err
	}
	return r.ResetHard("HEAD~1")
}
