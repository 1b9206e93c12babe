// Package registrar provides the domain-availability lookup capability.
// The live HTTP client, the Redis read-through cache and the offline stub
// all implement the same Checker interface; which one a pipeline gets is
// decided at wiring time, never inside the pipeline.
package registrar

import "context"

// Availability is the registrar's answer for a single domain.
type Availability struct {
	Available bool     `json:"available"`
	Price     *float64 `json:"price"`  // purchase price if offered (nullable)
	Currency  string   `json:"currency"`
	Period    int      `json:"period"` // registration period in years
}

// Checker looks up live availability for a single domain.
// Implementations must be safe for concurrent use; a failure on one call
// must have no side effects on other calls.
type Checker interface {
	CheckAvailability(ctx context.Context, name string) (*Availability, error)
}

// LookupError wraps a failed availability lookup with the domain it was for.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return "availability lookup for " + e.Name + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
