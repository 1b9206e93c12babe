// Package ingest implements the CSV feed ingestion pipeline: bounded
// sampling, throttled availability checks, valuation, and idempotent
// persistence.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"domainscout/internal/domain"
	"domainscout/internal/idhash"
	"domainscout/internal/observability"
	"domainscout/internal/registrar"
	"domainscout/internal/storage"
	"domainscout/internal/valuation"
)

// State identifies a pipeline stage. Runs move Sampling → Checking →
// Persisting → Done; Failed is reachable from any state.
type State string

const (
	StateSampling   State = "Sampling"
	StateChecking   State = "Checking"
	StatePersisting State = "Persisting"
	StateDone       State = "Done"
	StateFailed     State = "Failed"
)

// Default pipeline settings.
const (
	DefaultAcceptedTLD  = ".com"
	DefaultSampleWindow = 1000
	DefaultMaxSelected  = 50
	DefaultConcurrency  = 5
	DefaultChunkDelay   = time.Second
)

// Options configures a Pipeline.
type Options struct {
	Store   storage.DomainStore // required
	Checker registrar.Checker   // required

	RunStats storage.RunStatStore   // optional run-history sink
	Metrics  *observability.Metrics // optional
	Logger   *slog.Logger

	AcceptedTLD  string        // ingestion is restricted to this TLD
	SampleWindow int           // feed rows consumed per run
	MaxSelected  int           // candidates selected per run
	Concurrency  int           // lookups in flight per chunk
	ChunkDelay   time.Duration // pause between lookup chunks

	Rand  *rand.Rand       // sampling source, defaults to time-seeded
	Clock func() time.Time // defaults to time.Now UTC
}

// Pipeline orchestrates one feed ingestion run end to end. A Pipeline is
// reusable across runs; each run owns its candidate list exclusively and
// shares nothing with concurrent runs except the store.
type Pipeline struct {
	store    storage.DomainStore
	checker  registrar.Checker
	runStats storage.RunStatStore
	metrics  *observability.Metrics
	logger   *slog.Logger

	acceptedTLD  string
	sampleWindow int
	maxSelected  int
	concurrency  int
	chunkDelay   time.Duration

	rng   *rand.Rand
	clock func() time.Time
}

// New creates a Pipeline from options, applying defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		store:        opts.Store,
		checker:      opts.Checker,
		runStats:     opts.RunStats,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		acceptedTLD:  opts.AcceptedTLD,
		sampleWindow: opts.SampleWindow,
		maxSelected:  opts.MaxSelected,
		concurrency:  opts.Concurrency,
		chunkDelay:   opts.ChunkDelay,
		rng:          opts.Rand,
		clock:        opts.Clock,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.acceptedTLD == "" {
		p.acceptedTLD = DefaultAcceptedTLD
	}
	if p.sampleWindow <= 0 {
		p.sampleWindow = DefaultSampleWindow
	}
	if p.maxSelected <= 0 {
		p.maxSelected = DefaultMaxSelected
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if p.chunkDelay < 0 {
		p.chunkDelay = DefaultChunkDelay
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.clock == nil {
		p.clock = func() time.Time { return time.Now().UTC() }
	}
	return p
}

// Run executes one ingestion run over a feed. It returns a summary on
// success; partial success (per-record lookup or persistence failures)
// is still a success. Only a fatal I/O failure on the feed propagates
// as an error. The feed resource is released exactly once and removed
// on both success and failure paths.
func (p *Pipeline) Run(ctx context.Context, feed FeedSource) (*domain.RunSummary, error) {
	startedAt := p.clock()
	runID := idhash.ComputeRunID(feed.Name(), startedAt)
	logger := p.logger.With("run_id", runID, "feed", feed.Name())

	defer func() {
		if err := feed.Remove(); err != nil {
			logger.Warn("feed cleanup failed", "error", err)
		}
	}()

	summary := &domain.RunSummary{}

	// Sampling
	logger.Info("pipeline starting", "state", string(StateSampling))
	rc, err := feed.Open()
	if err != nil {
		p.finish(ctx, logger, runID, feed.Name(), StateFailed, summary, startedAt)
		return nil, fmt.Errorf("open feed %s: %w", feed.Name(), err)
	}

	candidates, err := Sample(rc, p.acceptedTLD, p.sampleWindow, p.maxSelected, p.rng)
	closeErr := rc.Close()
	if err != nil {
		p.finish(ctx, logger, runID, feed.Name(), StateFailed, summary, startedAt)
		return nil, fmt.Errorf("sample feed %s: %w", feed.Name(), err)
	}
	if closeErr != nil {
		logger.Warn("feed close failed", "error", closeErr)
	}
	if p.metrics != nil {
		p.metrics.CandidatesSampled.Add(float64(len(candidates)))
	}
	logger.Info("sampling complete", "candidates", len(candidates))

	// Checking
	logger.Info("checking availability", "state", string(StateChecking),
		"concurrency", p.concurrency, "chunk_delay", p.chunkDelay)
	results := p.checkAll(ctx, candidates)
	summary.Checked = len(results)

	// Persisting
	logger.Info("persisting results", "state", string(StatePersisting))
	for i := range results {
		p.persistOne(ctx, logger, &results[i], summary)
	}
	summary.Total = summary.Inserted + summary.Updated

	p.finish(ctx, logger, runID, feed.Name(), StateDone, summary, startedAt)
	logger.Info("pipeline done",
		"checked", summary.Checked,
		"inserted", summary.Inserted,
		"updated", summary.Updated,
		"errors", summary.Errors)
	return summary, nil
}

// checkAll runs the availability batcher and records lookup metrics.
func (p *Pipeline) checkAll(ctx context.Context, candidates []*domain.Candidate) []Result {
	start := p.clock()
	results := BatchCheck(ctx, p.checker, candidates, p.concurrency, p.chunkDelay, p.logger)
	if p.metrics != nil {
		elapsed := p.clock().Sub(start).Seconds()
		if n := len(results); n > 0 {
			p.metrics.LookupDuration.Observe(elapsed / float64(n))
		}
		for i := range results {
			outcome := "ok"
			if results[i].Err != nil {
				outcome = "failed"
			}
			p.metrics.LookupsTotal.WithLabelValues(outcome).Inc()
		}
	}
	return results
}

// persistOne values one checked candidate and upserts it, updating the
// running counts. Store failures increment Errors and never abort the run.
func (p *Pipeline) persistOne(ctx context.Context, logger *slog.Logger, res *Result, summary *domain.RunSummary) {
	c := res.Candidate

	var feedPrice *float64
	if c.RawPrice != nil {
		feedPrice = valuation.NormalizePrice(*c.RawPrice)
	}

	// The checked score prefers the registrar's observed price; the feed
	// price is the fallback for Unknown outcomes.
	scorePrice := res.Price
	if scorePrice == nil {
		scorePrice = feedPrice
	}
	status := res.Status
	if res.Err != nil {
		status = c.Status // lookup failed, keep what the feed claimed
	}

	score := valuation.ScoreChecked(c.Name, scorePrice, c.Length, status, res.Available)
	estimate := valuation.Estimate(c.Name, score, c.Length, c.TLD)

	rec := &domain.Record{
		Name:           c.Name,
		Price:          feedPrice,
		ObservedPrice:  res.Price,
		Currency:       res.Currency,
		EstimatedPrice: estimate,
		Score:          score,
		Status:         res.Status,
		Available:      res.Available,
		DropTime:       c.DropTime,
		CrawlTime:      c.CrawlTime,
		Extension:      c.Extension,
		TLD:            c.TLD,
		Length:         c.Length,
	}

	inserted, err := p.store.Upsert(ctx, rec)
	if err != nil {
		summary.Errors++
		if p.metrics != nil {
			p.metrics.PersistErrors.Inc()
		}
		logger.Error("upsert failed", "domain", c.Name, "error", err)
		return
	}

	op := "update"
	if inserted {
		summary.Inserted++
		op = "insert"
	} else {
		summary.Updated++
	}
	if p.metrics != nil {
		p.metrics.RecordsUpserted.WithLabelValues(op).Inc()
	}
}

// finish records terminal-state metrics and appends the run-history row.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, runID, feed string, state State, summary *domain.RunSummary, startedAt time.Time) {
	finishedAt := p.clock()

	if p.metrics != nil {
		p.metrics.RunsTotal.WithLabelValues(string(state)).Inc()
		p.metrics.RunDuration.Observe(finishedAt.Sub(startedAt).Seconds())
	}

	if p.runStats == nil {
		return
	}
	stat := &domain.RunStat{
		RunID:      runID,
		Feed:       feed,
		State:      string(state),
		Checked:    summary.Checked,
		Inserted:   summary.Inserted,
		Updated:    summary.Updated,
		Errors:     summary.Errors,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		DurationMs: finishedAt.Sub(startedAt).Milliseconds(),
	}
	if err := p.runStats.Insert(ctx, stat); err != nil {
		logger.Warn("run history write failed", "error", err)
	}
}
