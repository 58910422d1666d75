package patch

import (
	"testing"

	ignore "github.com/sabhiram/go-gitignore"
)

func compilePatterns(patterns []string) *ignore.GitIgnore {
	return ignore.CompileIgnoreLines(patterns...)
}

func TestFilesMatchIgnorePatterns(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		patterns []string
		useNilGI bool
		want     bool
	}{
		{
			name:     "nil matcher returns false",
			files:    []string{"foo.go"},
			useNilGI: true,
			want:     false,
		},
		{
			name:     "empty file list returns false",
			files:    []string{},
			patterns: []string{"*.md"},
			want:     false,
		},
		{
			name:     "all files match patterns",
			files:    []string{"docs/README.md", "docs/guide.md"},
			patterns: []string{"docs/"},
			want:     true,
		},
		{
			name:     "mixed files returns false",
			files:    []string{"docs/README.md", "main.go"},
			patterns: []string{"docs/"},
			want:     false,
		},
		{
			name:     ".sologitignore in file list always returns false",
			files:    []string{".sologitignore"},
			patterns: []string{".sologitignore"},
			want:     false,
		},
		{
			name:     "glob patterns work",
			files:    []string{"README.md", "CHANGELOG.md"},
			patterns: []string{"*.md"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gi *ignore.GitIgnore
			if !tt.useNilGI {
				gi = compilePatterns(tt.patterns)
			}
			got := filesMatchIgnorePatterns(tt.files, gi)
			if got != tt.want {
				t.Errorf("filesMatchIgnorePatterns(%v, %v) = %v, want %v", tt.files, tt.patterns, got, tt.want)
			}
		})
	}
}
