// Package main prints the score and estimated price for domain names
// given on the command line, with no availability lookup or storage.
// Intended for ad-hoc valuation checks against the current rules.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"domainscout/internal/domain"
	"domainscout/internal/valuation"
)

func main() {
	price := flag.Float64("price", 0, "Feed price to factor into the score (0 = none)")
	status := flag.String("status", domain.StatusAvailable, "Listing status to assume")
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "usage: value [flags] <domain> [domain ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var priceArg *float64
	if *price > 0 {
		priceArg = price
	}

	fmt.Printf("rules %s\n\n", valuation.RulesVersion)
	for _, name := range names {
		label := name
		if i := strings.Index(name, "."); i >= 0 {
			label = name[:i]
		}
		tld := ""
		if i := strings.LastIndex(name, "."); i >= 0 {
			tld = name[i+1:]
		}

		score := valuation.Score(name, priceArg, len(label), *status)
		estimate := valuation.Estimate(name, score, len(label), tld)
		fmt.Printf("%-30s score %3d  estimate $%.0f\n", name, score, estimate)
	}
}
