// Package patch implements the Patch Engine: unified-diff parsing,
// validation, application, conflict detection, decomposition and
// combination, and complexity classification.
package patch

// Bucket is the complexity classification of a patch.
type Bucket string

const (
	BucketTrivial     Bucket = "trivial"
	BucketSimple      Bucket = "simple"
	BucketModerate    Bucket = "moderate"
	BucketComplex     Bucket = "complex"
	BucketVeryComplex Bucket = "very_complex"
)

// Recommendation is the suggested handling for a previewed patch.
type Recommendation string

const (
	RecommendSafeToApply           Recommendation = "SAFE_TO_APPLY"
	RecommendReviewRecommended     Recommendation = "REVIEW_RECOMMENDED"
	RecommendCarefulReviewRequired Recommendation = "CAREFUL_REVIEW_REQUIRED"
	RecommendManualResolution      Recommendation = "MANUAL_RESOLUTION_REQUIRED"
)

// ValidateSyntaxResult is the structural-only validation outcome.
type ValidateSyntaxResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Stats is the parsed-diff summary returned by stats and embedded in
// preview results.
type Stats struct {
	FilesAffected int      `json:"files_affected"`
	FilesList     []string `json:"files_list"`
	Additions     int      `json:"additions"`
	Deletions     int      `json:"deletions"`
	TotalChanges  int      `json:"total_changes"`
	Hunks         int      `json:"hunks"`
	Complexity    Bucket   `json:"complexity"`
}

// PreviewResult is the non-mutating preflight check for a patch.
type PreviewResult struct {
	CanApply       bool           `json:"can_apply"`
	HasConflicts   bool           `json:"has_conflicts"`
	ConflictFiles  []string       `json:"conflict_files"`
	Stats          Stats          `json:"stats"`
	Recommendation Recommendation `json:"recommendation"`
}

// ConflictsDetailed is the richer conflict report.
type ConflictsDetailed struct {
	HasConflicts     bool     `json:"has_conflicts"`
	ConflictingFiles []string `json:"conflicting_files"`
	ConflictDetails  []string `json:"conflict_details"`
	CanApply         bool     `json:"can_apply"`
	ErrorMessage     string   `json:"error_message,omitempty"`
}

// InteractiveReason tags why applyInteractive did or didn't apply.
type InteractiveReason string

const (
	ReasonInvalidSyntax     InteractiveReason = "invalid_syntax"
	ReasonHasConflicts      InteractiveReason = "has_conflicts"
	ReasonDryRun            InteractiveReason = "dry_run"
	ReasonApplicationFailed InteractiveReason = "application_failed"
	ReasonSuccess           InteractiveReason = "success"
)

// InteractiveResult is the tagged result returned by ApplyInteractive:
// an explicit sum of applied/not-applied outcomes instead of errors used
// for control flow.
type InteractiveResult struct {
	Applied      bool              `json:"applied"`
	Reason       InteractiveReason `json:"reason"`
	Preview      *PreviewResult    `json:"preview,omitempty"`
	CheckpointID string            `json:"checkpoint_id,omitempty"`
	Errors       []string          `json:"errors,omitempty"`
}
