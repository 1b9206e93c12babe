// Package stub provides an offline registrar.Checker used when no live
// API credentials are configured, and as a scriptable fake in tests.
package stub

import (
	"context"
	"hash/fnv"
	"sync"

	"domainscout/internal/registrar"
)

// Checker is a deterministic offline implementation of registrar.Checker.
// Availability and price derive from a hash of the domain name, so
// repeated runs over the same feed produce identical results. Individual
// domains can be overridden with fixed answers or forced failures.
type Checker struct {
	mu        sync.RWMutex
	overrides map[string]*registrar.Availability
	failures  map[string]error
}

// NewChecker creates a new stub checker.
func NewChecker() *Checker {
	return &Checker{
		overrides: make(map[string]*registrar.Availability),
		failures:  make(map[string]error),
	}
}

// Compile-time interface check.
var _ registrar.Checker = (*Checker)(nil)

// SetAnswer fixes the response for one domain.
func (c *Checker) SetAnswer(name string, avail registrar.Availability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	availCopy := avail
	c.overrides[name] = &availCopy
}

// FailWith makes lookups for one domain return err.
func (c *Checker) FailWith(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[name] = err
}

// CheckAvailability returns the scripted or derived answer for a domain.
func (c *Checker) CheckAvailability(_ context.Context, name string) (*registrar.Availability, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err, ok := c.failures[name]; ok {
		return nil, &registrar.LookupError{Name: name, Err: err}
	}
	if avail, ok := c.overrides[name]; ok {
		availCopy := *avail
		return &availCopy, nil
	}

	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()

	avail := &registrar.Availability{
		Available: sum%10 < 7, // roughly 70% of drop-feed names are free
		Currency:  "USD",
		Period:    1,
	}
	if avail.Available {
		price := float64(10 + sum%90)
		avail.Price = &price
	}
	return avail, nil
}
