package valuation

import "math"

// Estimate computes a monetary value estimate for a domain from its score,
// length and top-level domain. The raw estimate is base × score/50 ×
// length multiplier, then rounded to a magnitude-appropriate granularity
// so advertised prices come out clean. Always non-negative.
func Estimate(name string, score, length int, tld string) float64 {
	_ = name // part of the valuation contract, not used by the current rules

	var base float64 = defaultTLDBaseValue
	if v, ok := tldBaseValues[tld]; ok {
		base = v
	}

	raw := base * (float64(score) / 50.0) * lengthMultiplier(length)
	return roundClean(raw)
}

func lengthMultiplier(length int) float64 {
	for _, tier := range lengthMultiplierTiers {
		if length <= tier.MaxLength {
			return tier.Multiplier
		}
	}
	return lengthMultiplierDefault
}

// roundClean rounds to the nearest 10 below 100, nearest 50 below 1000,
// nearest 100 below 10000, and nearest 1000 above that.
func roundClean(v float64) float64 {
	switch {
	case v < 100:
		return roundTo(v, 10)
	case v < 1000:
		return roundTo(v, 50)
	case v < 10000:
		return roundTo(v, 100)
	default:
		return roundTo(v, 1000)
	}
}

func roundTo(v, granularity float64) float64 {
	return math.Round(v/granularity) * granularity
}
