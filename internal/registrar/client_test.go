package registrar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPCheckerSuccess(t *testing.T) {
	var gotAuth, gotDomain string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDomain = r.URL.Query().Get("domain")
		fmt.Fprint(w, `{"available":true,"definitive":true,"price":12.99,"currency":"USD","period":1}`)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "key", "secret")
	avail, err := checker.CheckAvailability(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}

	if gotAuth != "sso-key key:secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotDomain != "example.com" {
		t.Errorf("domain param = %q", gotDomain)
	}
	if !avail.Available {
		t.Error("available = false, want true")
	}
	if avail.Price == nil || *avail.Price != 12.99 {
		t.Errorf("price = %v, want 12.99", avail.Price)
	}
	if avail.Currency != "USD" || avail.Period != 1 {
		t.Errorf("currency/period = %q/%d", avail.Currency, avail.Period)
	}
}

func TestHTTPCheckerTakenWithoutPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"available":false,"definitive":true}`)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "", "")
	avail, err := checker.CheckAvailability(context.Background(), "taken.com")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if avail.Available {
		t.Error("available = true, want false")
	}
	if avail.Price != nil {
		t.Errorf("price = %v, want nil", *avail.Price)
	}
}

func TestHTTPCheckerRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, `{"available":true}`)
		}
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "", "",
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond),
		WithRequestRate(1000),
	)
	avail, err := checker.CheckAvailability(context.Background(), "retry.com")
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !avail.Available {
		t.Error("available = false after successful retry")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server saw %d calls, want 3", n)
	}
}

func TestHTTPCheckerNoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "", "",
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond),
		WithRequestRate(1000),
	)
	_, err := checker.CheckAvailability(context.Background(), "bad.com")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Name != "bad.com" {
		t.Errorf("err = %v, want LookupError for bad.com", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on 4xx)", n)
	}
}

func TestHTTPCheckerExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "", "",
		WithMaxRetries(2),
		WithRetryDelay(time.Millisecond),
		WithRequestRate(1000),
	)
	if _, err := checker.CheckAvailability(context.Background(), "down.com"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("server saw %d calls, want 3 (initial + 2 retries)", n)
	}
}

func TestHTTPCheckerContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := NewHTTPChecker(server.URL, "", "",
		WithMaxRetries(5),
		WithRetryDelay(time.Minute),
		WithRequestRate(1000),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := checker.CheckAvailability(ctx, "slow.com"); err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("cancellation did not interrupt the retry backoff")
	}
}
