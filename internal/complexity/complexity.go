// Package complexity scores a prompt (plus optional context) into the
// metrics the Model Router uses to pick a tier.
package complexity

import "strings"

var securityKeywords = []string{
	"auth", "authentication", "password", "token", "jwt", "crypto",
	"encrypt", "decrypt", "secret", "key", "security", "permission",
	"authorization", "oauth", "session", "cookie", "cors", "xss", "csrf", "sql",
}

var architectureKeywords = []string{
	"architecture", "design", "refactor", "restructure", "migrate",
	"framework", "pattern", "system", "database", "api design", "schema",
	"model", "interface",
}

var sizeUpKeywords = []string{"add", "create", "implement", "new"}
var sizeDoubleKeywords = []string{"refactor", "redesign", "restructure"}
var sizeDownKeywords = []string{"simple", "quick"}

const maxEstimatedPatchSize = 500

// Context carries optional signal from the caller about the target
// repository/workpad, refining the estimate beyond the prompt text
// alone.
type Context struct {
	FileCount    int
	WorkpadID    string
	LinesChanged int
	FilesChanged int
}

// Metrics is the scored output of Analyze.
type Metrics struct {
	Score                float64
	SecuritySensitive    bool
	EstimatedPatchSize   int
	FileCount            int
	HasTests             bool
	RequiresArchitecture bool
}

// Analyze scores prompt (and optional context) into Metrics.
func Analyze(prompt string, ctx *Context) Metrics {
	lower := strings.ToLower(prompt)

	m := Metrics{
		SecuritySensitive:    containsAny(lower, securityKeywords),
		RequiresArchitecture: containsAny(lower, architectureKeywords),
		HasTests:             strings.Contains(lower, "test") || strings.Contains(lower, "spec"),
	}

	m.EstimatedPatchSize = estimatePatchSize(prompt, lower, ctx)
	m.FileCount = estimateFileCount(lower, ctx)
	m.Score = score(m, ctx)
	return m
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func wordCount(prompt string) int {
	return len(strings.Fields(prompt))
}

func estimatePatchSize(prompt, lower string, ctx *Context) int {
	size := float64(wordCount(prompt)) * 2
	if containsAny(lower, sizeUpKeywords) {
		size *= 1.5
	}
	if containsAny(lower, sizeDoubleKeywords) {
		size *= 2.0
	}
	if containsAny(lower, sizeDownKeywords) {
		size *= 0.5
	}
	if size > maxEstimatedPatchSize {
		size = maxEstimatedPatchSize
	}
	result := int(size)
	if ctx != nil && ctx.LinesChanged > result {
		result = ctx.LinesChanged
	}
	return result
}

func estimateFileCount(lower string, ctx *Context) int {
	fileCount := 1
	if ctx != nil && ctx.FileCount > 0 {
		fileCount = ctx.FileCount
	}
	if strings.Contains(lower, "multiple files") || strings.Contains(lower, "several files") {
		if fileCount < 3 {
			fileCount = 3
		}
	}
	if ctx != nil && ctx.FilesChanged > fileCount {
		fileCount = ctx.FilesChanged
	}
	return fileCount
}

func score(m Metrics, ctx *Context) float64 {
	var s float64

	switch {
	case m.EstimatedPatchSize >= 200:
		s += 0.3
	case m.EstimatedPatchSize >= 100:
		s += 0.2
	case m.EstimatedPatchSize >= 50:
		s += 0.1
	}

	filesContribution := float64(m.FileCount) * 0.05
	if filesContribution > 0.2 {
		filesContribution = 0.2
	}
	s += filesContribution

	if m.SecuritySensitive {
		s += 0.3
	}
	if m.RequiresArchitecture {
		s += 0.2
	}
	if ctx != nil {
		if ctx.LinesChanged > 200 {
			s += 0.1
		}
		if ctx.FilesChanged > 5 {
			s += 0.1
		}
	}

	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}
	return s
}
