package domain

import "time"

// Candidate is an in-memory, pre-verification domain entry produced by
// sampling a registrar CSV feed. Candidates exist only for the duration
// of a single pipeline run.
type Candidate struct {
	Name      string     // lowercase domain name, unique key, ends in the accepted TLD
	RawPrice  *string    // human-entered price text as seen in the feed (nullable)
	DropTime  *time.Time // scheduled drop time (nullable)
	CrawlTime *time.Time // when the feed row was crawled (nullable)
	Extension string     // feed-provided extension, e.g. "com"
	TLD       string     // top-level domain, defaults to Extension
	Length    int        // defaults to character count of Name
	Status    string     // defaults to StatusAvailable
}

// Availability statuses carried by candidates and persisted records.
const (
	StatusAvailable     = "Available"
	StatusAvailableSoon = "Available Soon"
	StatusTaken         = "Taken"
	StatusUnknown       = "Unknown"
)
