// Package identity derives stable content-addressed identifiers for papers.
// The ID is the SHA-256 hex digest of a canonical source key, so the same
// discovered item always maps to the same row regardless of run.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/logan-lin/pubsummarizer/pkg/types"
)

// SourceKey is the canonical description of one discovered item. Fields that
// a platform does not populate are simply left empty and excluded from the
// canonical form.
type SourceKey struct {
	Platform       types.Platform
	Conference     string
	Year           int
	Track          string
	SubmissionType string
	Title          string
	URL            string
}

// Canonical builds the string that is hashed into the ID. Titles are
// preferred; when no title is known the source URL stands in, so file-list
// items without titles still dedup correctly. Fields are joined with "|",
// which cannot appear in conference names or tracks.
func (k SourceKey) Canonical() string {
	parts := []string{string(k.Platform), k.Conference}
	if k.Year > 0 {
		parts = append(parts, strconv.Itoa(k.Year))
	}
	parts = append(parts, k.Track, k.SubmissionType)
	if t := strings.TrimSpace(k.Title); t != "" {
		parts = append(parts, t)
	} else {
		parts = append(parts, k.URL)
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "|")
}

// ComputeID returns the SHA-256 hex digest of the key's canonical form.
func ComputeID(key SourceKey) string {
	sum := sha256.Sum256([]byte(key.Canonical()))
	return hex.EncodeToString(sum[:])
}
