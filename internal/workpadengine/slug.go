package workpadengine

import (
	"fmt"
	"strings"
	"time"
)

const maxSlugLen = 30

// slugify lowercases a title, replaces spaces with dashes, and truncates
// to maxSlugLen characters.
func slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// branchName builds the "pads/<slug>-<YYYYMMDD-HHMMSS>" branch name for
// a new workpad.
func branchName(title string, now time.Time) string {
	return fmt.Sprintf("pads/%s-%s", slugify(title), now.UTC().Format("20060102-150405"))
}

// checkpointTag builds the "<branch>@t<N>" tag name for a checkpoint.
func checkpointTag(branch string, n int) string {
	return fmt.Sprintf("%s@t%d", branch, n)
}
