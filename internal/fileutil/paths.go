package fileutil

import (
	"os"
	"path/filepath"
)

// DefaultDataRoot returns the default persisted-state root,
// "<home>/.sologit/data", creating no directories itself.
func DefaultDataRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sologit", "data")
}

// MetadataDir returns the metadata subdirectory of a data root.
func MetadataDir(dataRoot string) string {
	return filepath.Join(dataRoot, "metadata")
}

// RepoWorkingDir returns the working-tree directory for a repository id.
func RepoWorkingDir(dataRoot, repoID string) string {
	return filepath.Join(dataRoot, "repos", repoID)
}

// SologitSubdir builds a path to a subdirectory within a repository's
// on-disk .sologit scratch area (patch scratch files, worktree checkouts).
func SologitSubdir(repoDir, subdir string) string {
	return filepath.Join(repoDir, ".git", "sologit", subdir)
}
