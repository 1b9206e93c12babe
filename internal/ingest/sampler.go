package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"domainscout/internal/domain"
)

// Feed column names. Columns are located by header, not position.
const (
	colDomain    = "domain"
	colPrice     = "price"
	colDropTime  = "drop_time"
	colCrawlTime = "crawl_time"
	colExtension = "extension"
	colTLD       = "tld"
	colLength    = "length"
	colStatus    = "status"
)

// Timestamp layouts accepted in drop_time / crawl_time columns.
var feedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Sample streams candidates from the front of a CSV feed. It consumes at
// most window data rows regardless of feed length, maps each row to a
// Candidate, silently drops rows without a domain or with the wrong TLD,
// and returns an unbiased uniform selection of at most maxSelected
// candidates (Fisher–Yates shuffle, then prefix). Every candidate inside
// the sampled window has equal selection probability, independent of its
// position in the file.
//
// Only I/O failures on the underlying reader are fatal; unparsable rows
// are skipped.
func Sample(r io.Reader, acceptedTLD string, window, maxSelected int, rng *rand.Rand) ([]*domain.Candidate, error) {
	if !strings.HasPrefix(acceptedTLD, ".") {
		acceptedTLD = "." + acceptedTLD
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil // empty feed
		}
		return nil, fmt.Errorf("read feed header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns[colDomain]; !ok {
		return nil, fmt.Errorf("feed header missing %q column", colDomain)
	}

	var candidates []*domain.Candidate
	for consumed := 0; consumed < window; consumed++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue // malformed row, never aborts the run
			}
			return nil, fmt.Errorf("read feed row: %w", err)
		}

		if c := mapRow(row, columns, acceptedTLD); c != nil {
			candidates = append(candidates, c)
		}
	}

	if maxSelected > 0 && len(candidates) > maxSelected {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:maxSelected]
	}
	return candidates, nil
}

// mapRow converts one CSV row into a Candidate, or nil when the row must
// be dropped (missing domain or wrong TLD).
func mapRow(row []string, columns map[string]int, acceptedTLD string) *domain.Candidate {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := strings.ToLower(field(colDomain))
	if name == "" || !strings.HasSuffix(name, acceptedTLD) {
		return nil
	}

	c := &domain.Candidate{
		Name:      name,
		DropTime:  parseFeedTime(field(colDropTime)),
		CrawlTime: parseFeedTime(field(colCrawlTime)),
		Extension: field(colExtension),
		TLD:       field(colTLD),
		Status:    field(colStatus),
	}

	if raw := field(colPrice); raw != "" {
		c.RawPrice = &raw
	}
	if c.Extension == "" {
		c.Extension = strings.TrimPrefix(acceptedTLD, ".")
	}
	if c.TLD == "" {
		c.TLD = c.Extension
	}
	if c.Status == "" {
		c.Status = domain.StatusAvailable
	}

	c.Length = len(name)
	if raw := field(colLength); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			c.Length = n
		}
	}

	return c
}

// parseFeedTime parses a feed timestamp, trying each accepted layout.
// Unparsable values map to nil per the malformed-row policy.
func parseFeedTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
