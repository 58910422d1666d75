package patch

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

const ignoreFileName = ".sologitignore"

// loadIgnoreMatcher compiles a repository's .sologitignore, if present.
// A missing file yields a nil matcher, not an error.
func loadIgnoreMatcher(repoPath string) (*ignore.GitIgnore, error) {
	path := filepath.Join(repoPath, ignoreFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ignore.CompileIgnoreLines(splitLines(string(data))...), nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// filesMatchIgnorePatterns reports whether every path in files is
// matched by gi. A nil matcher or empty file list is never "all
// ignored" — there is nothing to skip. The ignore file itself appearing
// in the list always forces a real checkpoint, so edits to the ignore
// rules are never silently swallowed.
func filesMatchIgnorePatterns(files []string, gi *ignore.GitIgnore) bool {
	if gi == nil || len(files) == 0 {
		return false
	}
	for _, f := range files {
		if f == ignoreFileName {
			return false
		}
		if !gi.MatchesPath(f) {
			return false
		}
	}
	return true
}
