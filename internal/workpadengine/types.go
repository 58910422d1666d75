package workpadengine

import "time"

// Status is the lifecycle state of a workpad.
type Status string

const (
	StatusActive   Status = "active"
	StatusPromoted Status = "promoted"
	StatusDeleted  Status = "deleted"
)

// TestResult is the last recorded test outcome for a workpad.
type TestResult string

const (
	TestResultGreen TestResult = "green"
	TestResultRed   TestResult = "red"
)

// Workpad is the durable record for one ephemeral branch layered over a
// repository's trunk.
type Workpad struct {
	ID           string     `json:"id"`
	RepoID       string     `json:"repo_id"`
	Title        string     `json:"title"`
	BranchName   string     `json:"branch_name"`
	CreatedAt    time.Time  `json:"created_at"`
	Checkpoints  []string   `json:"checkpoints"`
	LastActivity time.Time  `json:"last_activity"`
	Status       Status     `json:"status"`
	TestStatus   TestResult `json:"test_status,omitempty"`
	LastCommit   string     `json:"last_commit,omitempty"`
}

// MergePreview is the derived, non-mutating summary returned by
// mergePreview.
type MergePreview struct {
	CanFastForward bool     `json:"can_fast_forward"`
	CommitsAhead   int      `json:"commits_ahead"`
	CommitsBehind  int      `json:"commits_behind"`
	FilesChanged   []string `json:"files_changed"`
	Conflicts      []string `json:"conflicts"`
	ReadyToPromote bool     `json:"ready_to_promote"`
}

// Comparison is the structured result of comparing two workpads' HEADs.
type Comparison struct {
	Diff           string   `json:"diff"`
	FilesChanged   []string `json:"files_changed"`
	FilesChangedN  int      `json:"files_changed_count"`
	PadAID, PadBID string   `json:"-"`
}
