package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeRunID computes a deterministic run identifier using SHA256.
// Formula: SHA256(feed|started_at_unix_ms), truncated to 16 hex characters.
// Two runs over the same feed started at different times get distinct IDs;
// re-deriving the ID for a known (feed, start) pair is reproducible.
func ComputeRunID(feed string, startedAt time.Time) string {
	data := fmt.Sprintf("%s|%d", feed, startedAt.UnixMilli())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:16]
}
