package valuation

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

var currencySymbols = []string{"$", "£", "€", "¥"}

// NormalizePrice converts a human-entered price string into a canonical
// numeric value. Currency symbols and all whitespace are stripped, then
// comma usage is disambiguated: a comma followed by exactly 1–2 digits
// before the next non-digit (or end of string) is a decimal separator;
// any other comma is a thousands separator and is removed.
//
// Returns nil for empty input and for strings that do not clean up to a
// finite number. Deterministic and side-effect free.
func NormalizePrice(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}

	// Drop every whitespace rune, including thousands grouping spaces
	// inside the number ("10,6 900" becomes "10,6900").
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	s = disambiguateCommas(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// disambiguateCommas resolves comma semantics. The last comma trailed by
// a run of exactly 1–2 digits becomes a period; every other comma is
// removed as a thousands separator.
func disambiguateCommas(s string) string {
	decimalAt := -1
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		run := 0
		for j := i + 1; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
			run++
		}
		if run == 1 || run == 2 {
			decimalAt = i
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch {
		case i == decimalAt:
			b.WriteByte('.')
		case s[i] == ',':
			// thousands separator
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
