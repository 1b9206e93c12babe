package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"domainscout/internal/domain"
	"domainscout/internal/registrar"
	"domainscout/internal/registrar/stub"
	"domainscout/internal/storage"
	"domainscout/internal/storage/memory"
)

const testFeed = `domain,price,status,drop_time
alpha.com,100,Available,2026-03-01
beta.com,"1,250.50",Available Soon,2026-03-02
gamma.net,75,Available,2026-03-01
delta.com,,Taken,
epsilon.org,30,Available,
`

func writeFeed(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func newTestPipeline(store storage.DomainStore, checker registrar.Checker) *Pipeline {
	return New(Options{
		Store:       store,
		Checker:     checker,
		AcceptedTLD: ".com",
		Concurrency: 2,
		ChunkDelay:  0,
	})
}

func TestPipelineRunInsertsThenUpdates(t *testing.T) {
	store := memory.NewDomainStore()
	checker := stub.NewChecker()
	price := 12.99
	checker.SetAnswer("alpha.com", registrar.Availability{Available: true, Price: &price, Currency: "USD"})
	checker.SetAnswer("beta.com", registrar.Availability{Available: true})
	checker.SetAnswer("delta.com", registrar.Availability{Available: false})

	p := newTestPipeline(store, checker)

	summary, err := p.Run(context.Background(), NewFileFeed(writeFeed(t, testFeed)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Checked != 3 {
		t.Errorf("Checked = %d, want 3 (.net and .org rejected)", summary.Checked)
	}
	if summary.Inserted != 3 || summary.Updated != 0 || summary.Errors != 0 {
		t.Errorf("first run summary = %+v, want 3 inserts", summary)
	}
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}

	rec, err := store.FindByName(context.Background(), "alpha.com")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if rec.Price == nil || *rec.Price != 100 {
		t.Errorf("feed price = %v, want 100", rec.Price)
	}
	if rec.ObservedPrice == nil || *rec.ObservedPrice != 12.99 {
		t.Errorf("observed price = %v, want 12.99", rec.ObservedPrice)
	}
	if !rec.Available || rec.Status != domain.StatusAvailable {
		t.Errorf("availability not recorded: %+v", rec)
	}
	if rec.Score < 10 || rec.Score > 100 {
		t.Errorf("score %d out of range", rec.Score)
	}
	if rec.EstimatedPrice <= 0 {
		t.Errorf("estimate = %v, want positive", rec.EstimatedPrice)
	}
	if rec.DropTime == nil {
		t.Error("drop time lost")
	}

	beta, err := store.FindByName(context.Background(), "beta.com")
	if err != nil {
		t.Fatalf("FindByName beta: %v", err)
	}
	if beta.Price == nil || *beta.Price != 1250.50 {
		t.Errorf("quoted feed price = %v, want 1250.50", beta.Price)
	}

	// Second ingestion of the same domains updates in place.
	summary, err = p.Run(context.Background(), NewFileFeed(writeFeed(t, testFeed)))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.Inserted != 0 || summary.Updated != 3 {
		t.Errorf("second run summary = %+v, want 3 updates", summary)
	}
	if store.Len() != 3 {
		t.Errorf("store has %d records, want 3", store.Len())
	}
}

func TestPipelineRemovesFeedOnSuccess(t *testing.T) {
	path := writeFeed(t, testFeed)
	p := newTestPipeline(memory.NewDomainStore(), stub.NewChecker())

	if _, err := p.Run(context.Background(), NewFileFeed(path)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("feed not removed after successful run: %v", err)
	}
}

func TestPipelineRemovesFeedOnFailure(t *testing.T) {
	// A feed without a domain column is a fatal sampling error.
	path := writeFeed(t, "price,status\n100,Available\n")
	p := newTestPipeline(memory.NewDomainStore(), stub.NewChecker())

	if _, err := p.Run(context.Background(), NewFileFeed(path)); err == nil {
		t.Fatal("expected sampling error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("feed not removed after failed run: %v", err)
	}
}

func TestPipelineOpenFailure(t *testing.T) {
	p := newTestPipeline(memory.NewDomainStore(), stub.NewChecker())
	_, err := p.Run(context.Background(), NewFileFeed(filepath.Join(t.TempDir(), "missing.csv")))
	if err == nil {
		t.Fatal("expected open error for missing feed")
	}
}

func TestPipelineLookupFailureCountsAsChecked(t *testing.T) {
	store := memory.NewDomainStore()
	checker := stub.NewChecker()
	checker.SetAnswer("alpha.com", registrar.Availability{Available: true})
	checker.SetAnswer("beta.com", registrar.Availability{Available: true})
	checker.FailWith("delta.com", errors.New("registrar timeout"))

	p := newTestPipeline(store, checker)
	summary, err := p.Run(context.Background(), NewFileFeed(writeFeed(t, testFeed)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Checked != 3 || summary.Errors != 0 {
		t.Errorf("summary = %+v, want 3 checked and no persist errors", summary)
	}

	// The failed lookup still persists with an Unknown status.
	rec, err := store.FindByName(context.Background(), "delta.com")
	if err != nil {
		t.Fatalf("FindByName delta: %v", err)
	}
	if rec.Status != domain.StatusUnknown {
		t.Errorf("status = %q, want Unknown", rec.Status)
	}
	if rec.Available {
		t.Error("failed lookup must not be marked available")
	}
}

func TestPipelineRecordsRunHistory(t *testing.T) {
	runStats := memory.NewRunStatStore()
	p := New(Options{
		Store:       memory.NewDomainStore(),
		Checker:     stub.NewChecker(),
		RunStats:    runStats,
		AcceptedTLD: ".com",
		ChunkDelay:  0,
	})

	path := writeFeed(t, testFeed)
	if _, err := p.Run(context.Background(), NewFileFeed(path)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	last, err := runStats.LastForFeed(context.Background(), filepath.Base(path))
	if err != nil {
		t.Fatalf("LastForFeed: %v", err)
	}
	if last.State != string(StateDone) {
		t.Errorf("state = %q, want Done", last.State)
	}
	if last.Checked != 3 {
		t.Errorf("checked = %d, want 3", last.Checked)
	}
	if last.RunID == "" {
		t.Error("run id missing")
	}
}
