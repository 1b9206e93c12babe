package domain

import "time"

// Record is the persisted representation of a valued domain.
// Corresponds to the domains table in PostgreSQL, keyed uniquely by Name.
// An upsert either inserts a new row or replaces all mutable fields of an
// existing row with the same key; rows are never partially written.
type Record struct {
	Name           string     // PRIMARY KEY, lowercase domain name
	Price          *float64   // normalized feed price (nullable)
	ObservedPrice  *float64   // price reported by the registrar lookup (nullable)
	Currency       string     // currency of ObservedPrice
	EstimatedPrice float64    // computed estimate, rounded to clean granularity
	Score          int        // desirability score in [10,100]
	Status         string     // StatusAvailable | StatusAvailableSoon | StatusTaken | StatusUnknown
	Available      bool       // registrar-reported availability
	DropTime       *time.Time // nullable
	CrawlTime      *time.Time // nullable
	Extension      string
	TLD            string
	Length         int
	CreatedAt      time.Time // set by the store on insert
	UpdatedAt      time.Time // set by the store on every write
}

// RecordUpdate carries the mutable fields replaced by Update.
// Key and CreatedAt are immutable once written.
type RecordUpdate struct {
	Price          *float64
	ObservedPrice  *float64
	Currency       string
	EstimatedPrice float64
	Score          int
	Status         string
	Available      bool
	DropTime       *time.Time
	CrawlTime      *time.Time
	Length         int
}
