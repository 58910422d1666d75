// Package idgen generates the short opaque identifiers used for
// repositories and workpads: a fixed prefix plus 8 lowercase hex
// characters drawn from a random UUID.
package idgen

import "github.com/google/uuid"

const (
	repoPrefix = "repo_"
	padPrefix  = "pad_"
)

func shortHex() string {
	u := uuid.New()
	// uuid.New().String() is "xxxxxxxx-xxxx-...."; the first group is
	// already 8 hex characters drawn from random bits.
	s := u.String()
	return s[:8]
}

// RepoID generates a new repository identifier.
func RepoID() string {
	return repoPrefix + shortHex()
}

// PadID generates a new workpad identifier.
func PadID() string {
	return padPrefix + shortHex()
}
