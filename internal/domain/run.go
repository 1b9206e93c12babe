package domain

import "time"

// RunSummary is the pipeline's final output: aggregate counts for one run.
// Partial success is a success; per-record failures only increment Errors.
type RunSummary struct {
	Checked  int // candidates that went through the availability check
	Inserted int // new rows written
	Updated  int // existing rows overwritten
	Total    int // Inserted + Updated
	Errors   int // per-record persistence failures
}

// RunStat is an append-only history row describing one completed pipeline
// run. Corresponds to the run_stats table in ClickHouse.
type RunStat struct {
	RunID      string // deterministic hash, see idhash.ComputeRunID
	Feed       string // feed name the run consumed
	State      string // terminal state: "Done" or "Failed"
	Checked    int
	Inserted   int
	Updated    int
	Errors     int
	StartedAt  time.Time
	FinishedAt time.Time
	DurationMs int64
}
