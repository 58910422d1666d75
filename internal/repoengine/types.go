package repoengine

import "time"

// SourceType identifies how a repository's working tree was produced.
type SourceType string

const (
	SourceArchive SourceType = "archive"
	SourceRemote  SourceType = "remote"
)

// Repository is the durable record for one managed Git working tree.
type Repository struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	TrunkBranch  string     `json:"trunk_branch"`
	CreatedAt    time.Time  `json:"created_at"`
	WorkpadCount int        `json:"workpad_count"`
	SourceType   SourceType `json:"source_type"`
	SourceURL    string     `json:"source_url,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
}

// RepoMap is a depth-bounded summary of a repository's working tree,
// used by the repo-map/tree-listing supplement.
type RepoMap struct {
	TotalFiles int            `json:"total_files"`
	TotalDirs  int            `json:"total_dirs"`
	Languages  map[string]int `json:"languages"`
	Tree       []TreeEntry    `json:"tree"`
}

// TreeEntry is one file or directory in a RepoMap listing.
type TreeEntry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}
