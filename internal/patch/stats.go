package patch

import "strings"

// Stats parses a unified diff and summarizes its shape. Additions are
// lines starting with "+" excluding the "+++" file header; deletions are
// lines starting with "-" excluding "---"; hunks are "@@" lines; files
// are the union of paths named in "---"/"+++" headers, excluding
// /dev/null and the leading a/ b/ prefixes.
func ComputeStats(text string) Stats {
	var s Stats
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- "):
			path := extractPath(line)
			if path != "" && !seen[path] {
				seen[path] = true
				s.FilesList = append(s.FilesList, path)
			}
		case strings.HasPrefix(line, "@@"):
			s.Hunks++
		case strings.HasPrefix(line, "+"):
			s.Additions++
		case strings.HasPrefix(line, "-"):
			s.Deletions++
		}
	}

	s.FilesAffected = len(s.FilesList)
	s.TotalChanges = s.Additions + s.Deletions
	s.Complexity = classify(s.TotalChanges, s.FilesAffected)
	return s
}

// extractPath pulls the path out of a "--- a/x" / "+++ b/x" header line,
// returning "" for /dev/null markers.
func extractPath(line string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(line, "+++ "), "--- ")
	rest = strings.TrimSpace(rest)
	if rest == "/dev/null" {
		return ""
	}
	rest = strings.TrimPrefix(rest, "a/")
	rest = strings.TrimPrefix(rest, "b/")
	return rest
}

// classify buckets a patch by total line changes and file count.
func classify(totalChanges, filesAffected int) Bucket {
	switch {
	case totalChanges < 10 && filesAffected == 1:
		return BucketTrivial
	case totalChanges < 50 && filesAffected <= 3:
		return BucketSimple
	case totalChanges < 200 && filesAffected <= 10:
		return BucketModerate
	case totalChanges < 500 && filesAffected <= 20:
		return BucketComplex
	default:
		return BucketVeryComplex
	}
}

// recommend applies the recommendation policy: conflicts always win;
// otherwise the bucket determines the recommendation.
func recommend(hasConflicts bool, bucket Bucket) Recommendation {
	if hasConflicts {
		return RecommendManualResolution
	}
	switch bucket {
	case BucketTrivial, BucketSimple:
		return RecommendSafeToApply
	case BucketModerate:
		return RecommendReviewRecommended
	default:
		return RecommendCarefulReviewRequired
	}
}

// ValidateSyntax performs structural-only checks: an empty patch is an
// error; missing "diff --git" or hunk headers are warnings.
func ValidateSyntax(text string) ValidateSyntaxResult {
	if strings.TrimSpace(text) == "" {
		return ValidateSyntaxResult{Valid: false, Errors: []string{"Patch is empty"}}
	}
	var warnings []string
	if !strings.Contains(text, "diff --git") {
		warnings = append(warnings, "Missing diff --git header")
	}
	if !strings.Contains(text, "@@") {
		warnings = append(warnings, "Missing hunk headers")
	}
	return ValidateSyntaxResult{Valid: true, Warnings: warnings}
}

// SplitByFile breaks a multi-file patch on each "diff --git" boundary,
// associating the following lines with the preceding path.
func SplitByFile(text string) map[string]string {
	out := make(map[string]string)
	lines := strings.Split(text, "\n")

	var currentPath string
	var buf []string
	flush := func() {
		if currentPath != "" && len(buf) > 0 {
			out[currentPath] = strings.Join(buf, "\n")
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") {
			flush()
			buf = nil
			currentPath = pathFromDiffGitLine(line)
		}
		if currentPath != "" {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}

func pathFromDiffGitLine(line string) string {
	// "diff --git a/path b/path"
	fields := strings.Fields(line)
	for _, f := range fields {
		if strings.HasPrefix(f, "b/") {
			return strings.TrimPrefix(f, "b/")
		}
	}
	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return ""
}

// Combine concatenates non-empty patches separated by a blank line.
func Combine(patches []string) string {
	var nonEmpty []string
	for _, p := range patches {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimRight(p, "\n"))
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}
