package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"domainscout/internal/domain"
	"domainscout/internal/registrar"
)

// Result pairs a candidate with its availability outcome. A failed lookup
// carries the error and an Unknown status instead of aborting anything.
type Result struct {
	Candidate *domain.Candidate
	Available bool
	Status    string // StatusAvailable | StatusTaken | StatusUnknown
	Price     *float64
	Currency  string
	Err       error // non-nil when the lookup failed
}

// BatchCheck looks up availability for every candidate under a
// concurrency cap. Candidates are partitioned into fixed chunks of
// size concurrency; lookups inside a chunk run concurrently and all
// settle before the next chunk starts. A fixed inter-chunk delay paces
// the external service and is skipped after the final chunk.
//
// The returned slice always has one Result per candidate, in input order.
func BatchCheck(
	ctx context.Context,
	checker registrar.Checker,
	candidates []*domain.Candidate,
	concurrency int,
	chunkDelay time.Duration,
	logger *slog.Logger,
) []Result {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]Result, len(candidates))

	for start := 0; start < len(candidates); start += concurrency {
		end := start + concurrency
		if end > len(candidates) {
			end = len(candidates)
		}

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i, c := i, candidates[i]
			g.Go(func() error {
				results[i] = checkOne(gCtx, checker, c)
				// Lookup failures are isolated per candidate and never
				// fail the chunk.
				return nil
			})
		}
		_ = g.Wait()

		if end < len(candidates) && chunkDelay > 0 {
			select {
			case <-ctx.Done():
				// Remaining lookups will observe the cancelled context
				// and settle as Unknown; the result count stays intact.
			case <-time.After(chunkDelay):
			}
		}
	}

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}
	if failed > 0 {
		logger.Warn("availability checks finished with failures",
			"total", len(candidates), "failed", failed)
	}
	return results
}

func checkOne(ctx context.Context, checker registrar.Checker, c *domain.Candidate) Result {
	avail, err := checker.CheckAvailability(ctx, c.Name)
	if err != nil {
		return Result{Candidate: c, Status: domain.StatusUnknown, Err: err}
	}

	res := Result{
		Candidate: c,
		Available: avail.Available,
		Price:     avail.Price,
		Currency:  avail.Currency,
	}
	if avail.Available {
		res.Status = domain.StatusAvailable
	} else {
		res.Status = domain.StatusTaken
	}
	return res
}
