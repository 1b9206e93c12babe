package valuation

import (
	"math"
	"strings"
)

// Score computes the desirability score for a domain using the feed price
// ladder, before any live availability check. The result is always an
// integer in [10,100].
func Score(name string, price *float64, length int, status string) int {
	total := structuralScore(name, length)
	total += float64(feedPriceLadder.bonus(price))
	total += float64(statusBonus(status))
	return clampScore(total)
}

// ScoreChecked computes the score after a registrar availability check.
// It replaces the feed price ladder with the richer checked ladder and
// adds availability bonuses on top of the structural score.
func ScoreChecked(name string, price *float64, length int, status string, available bool) int {
	total := structuralScore(name, length)
	total += float64(checkedPriceLadder.bonus(price))
	total += float64(statusBonus(status))
	if available {
		total += availableBonus
	}
	switch status {
	case "Available":
		total += statusExactAvailable
	case "Available Soon":
		total += statusExactSoonAvailable
	}
	return clampScore(total)
}

// structuralScore sums the price- and availability-independent components:
// length tier, TLD weight, premium keywords, brandability, market demand.
func structuralScore(name string, length int) float64 {
	label, tld := splitName(name)

	total := float64(lengthBonus(length))
	total += float64(tldWeight(tld)) / 10.0
	total += float64(keywordBonus(label))
	total += float64(brandabilityAdjustment(label))
	total += float64(marketDemandBonus(label, tld))
	return total
}

// splitName separates a lowercase domain into label and top-level domain.
// "smartcloud.io" yields ("smartcloud", "io").
func splitName(name string) (label, tld string) {
	name = strings.ToLower(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		label = name[:i]
	} else {
		label = name
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		tld = name[i+1:]
	}
	return label, tld
}

func lengthBonus(length int) int {
	for _, tier := range lengthBonusTiers {
		if length <= tier.MaxLength {
			return tier.Bonus
		}
	}
	return lengthBonusDefault
}

func tldWeight(tld string) int {
	if w, ok := tldScoreWeights[tld]; ok {
		return w
	}
	return defaultTLDScoreWeight
}

// keywordBonus adds a fixed bonus per distinct premium keyword appearing
// as a substring of the label. Matches are not tokenized.
func keywordBonus(label string) int {
	bonus := 0
	for _, kw := range premiumKeywords {
		if strings.Contains(label, kw) {
			bonus += keywordBonusPerMatch
		}
	}
	return bonus
}

// brandabilityAdjustment rewards pronounceable, memorable labels and
// penalizes awkward ones. Result is clamped to [-20,20].
func brandabilityAdjustment(label string) int {
	adj := 0

	if leadingRun(label, isVowel) >= 2 {
		adj += 10
	}
	if longestRun(label, isVowel) >= 3 {
		adj += 5
	}
	if leadingRun(label, isConsonant) >= 2 {
		adj += 8
	}
	if longestRun(label, isConsonant) >= 4 {
		adj -= 5
	}
	if longestCharRepeat(label) >= 3 {
		adj -= 10
	}
	if strings.ContainsAny(label, "0123456789") {
		adj -= 5
	}
	if strings.Contains(label, "-") {
		adj -= 8
	}

	if adj > brandabilityCap {
		adj = brandabilityCap
	}
	if adj < brandabilityFloor {
		adj = brandabilityFloor
	}
	return adj
}

// marketDemandBonus reflects current registrar demand: tech TLDs carrying
// tech terms, startup TLDs carrying startup terms, and trending terms on
// any TLD. The conditions stack and the combined bonus is capped.
func marketDemandBonus(label, tld string) int {
	bonus := 0
	if techTLDs[tld] && containsAny(label, techKeywords) {
		bonus += techTLDBonus
	}
	if startupTLDs[tld] && containsAny(label, startupKeywords) {
		bonus += startupTLDBonus
	}
	if containsAny(label, trendingKeywords) {
		bonus += trendingBonus
	}
	if bonus > marketDemandCap {
		bonus = marketDemandCap
	}
	return bonus
}

func (l priceLadder) bonus(price *float64) int {
	if price == nil {
		return 0
	}
	for _, rung := range l {
		if *price > rung.Above {
			return rung.Bonus
		}
	}
	return 0
}

func statusBonus(status string) int {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "premium"):
		return statusPremiumBonus
	case strings.Contains(s, "available"):
		return statusAvailableBonus
	case strings.Contains(s, "soon"):
		return statusSoonBonus
	}
	return 0
}

func clampScore(total float64) int {
	v := int(math.Round(total))
	if v < 10 {
		return 10
	}
	if v > 100 {
		return 100
	}
	return v
}

func containsAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonant(c byte) bool {
	return c >= 'a' && c <= 'z' && !isVowel(c)
}

// leadingRun counts how many consecutive leading bytes satisfy pred.
func leadingRun(s string, pred func(byte) bool) int {
	n := 0
	for i := 0; i < len(s) && pred(s[i]); i++ {
		n++
	}
	return n
}

// longestRun finds the longest run of consecutive bytes satisfying pred.
func longestRun(s string, pred func(byte) bool) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if pred(s[i]) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// longestCharRepeat finds the longest run of one repeated byte.
func longestCharRepeat(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if i > 0 && s[i] == s[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
