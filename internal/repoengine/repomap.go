package repoengine

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sologit/sologit/internal/sgerrors"
)

const repoMapMaxDepth = 6

// RepoMap walks a repository's working tree and returns a depth-bounded
// summary: file/dir counts, a per-extension language histogram, and the
// flattened tree listing. The .git directory is never descended into.
func (e *Engine) RepoMap(id string) (*RepoMap, error) {
	e.mu.Lock()
	repo, ok := e.repos[id]
	e.mu.Unlock()
	if !ok {
		return nil, &sgerrors.RepositoryNotFoundError{ID: id}
	}

	m := &RepoMap{Languages: make(map[string]int)}
	root := repo.Path

	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if depth > repoMapMaxDepth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if entry.Name() == ".git" {
				continue
			}
			full := filepath.Join(dir, entry.Name())
			rel, err := filepath.Rel(root, full)
			if err != nil {
				rel = full
			}
			if entry.IsDir() {
				m.TotalDirs++
				m.Tree = append(m.Tree, TreeEntry{Path: rel, IsDir: true})
				walk(full, depth+1)
				continue
			}
			m.TotalFiles++
			m.Tree = append(m.Tree, TreeEntry{Path: rel, IsDir: false})
			if ext := strings.TrimPrefix(filepath.Ext(entry.Name()), "."); ext != "" {
				m.Languages[ext]++
			}
		}
	}
	walk(root, 0)

	sort.Slice(m.Tree, func(i, j int) bool { return m.Tree[i].Path < m.Tree[j].Path })
	return m, nil
}
