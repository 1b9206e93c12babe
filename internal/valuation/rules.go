// Package valuation computes desirability scores and price estimates for
// domain names. All heuristics live in this file as named configuration
// data so rule changes never touch the scoring algorithm itself.
package valuation

// RulesVersion identifies the rule tables below. Bump when any table or
// ladder changes so persisted scores can be traced to the rules that
// produced them.
const RulesVersion = "v1.0.0"

// tldScoreWeights maps a top-level domain to its raw weight. The scorer
// contributes weight/10 points. Unlisted TLDs use defaultTLDScoreWeight.
var tldScoreWeights = map[string]int{
	"com":   100,
	"net":   80,
	"org":   75,
	"io":    85,
	"co":    70,
	"tech":  65,
	"app":   70,
	"dev":   60,
	"ai":    90,
	"cloud": 75,
}

const defaultTLDScoreWeight = 50

// tldBaseValues maps a top-level domain to the estimator's base value in
// dollars. Unlisted TLDs use defaultTLDBaseValue.
var tldBaseValues = map[string]float64{
	"com":   1000,
	"net":   800,
	"org":   750,
	"io":    1200,
	"co":    900,
	"tech":  600,
	"app":   700,
	"dev":   500,
	"ai":    1500,
	"cloud": 800,
}

const defaultTLDBaseValue = 500

// premiumKeywords each add keywordBonusPerMatch points when found as a
// substring of the domain label. Distinct matches stack.
var premiumKeywords = []string{
	"tech", "digital", "web", "app", "smart", "cloud", "data", "ai",
	"cyber", "future", "global", "world", "hub", "pro", "lab", "studio",
	"agency", "solutions", "systems", "works", "group",
}

const keywordBonusPerMatch = 15

// Market-demand rule inputs. techTLDs pair with techKeywords, startupTLDs
// with startupKeywords; trendingKeywords apply regardless of TLD.
var (
	techTLDs    = map[string]bool{"tech": true, "ai": true, "dev": true, "app": true}
	startupTLDs = map[string]bool{"io": true, "co": true}

	techKeywords = []string{
		"tech", "code", "dev", "app", "soft", "cloud", "data", "net",
		"digital", "cyber", "stack", "byte",
	}
	startupKeywords = []string{
		"hub", "lab", "launch", "spark", "grow", "scale", "pitch",
		"founder", "startup", "venture",
	}
	trendingKeywords = []string{
		"ai", "ml", "blockchain", "crypto", "nft", "metaverse", "web3",
	}
)

const (
	techTLDBonus      = 20
	startupTLDBonus   = 15
	trendingBonus     = 25
	marketDemandCap   = 30
	brandabilityCap   = 20
	brandabilityFloor = -20
)

// lengthBonusTiers, shortest tier first. Applied to the first tier whose
// MaxLength the domain does not exceed.
var lengthBonusTiers = []struct {
	MaxLength int
	Bonus     int
}{
	{3, 40},
	{5, 30},
	{7, 20},
	{10, 10},
}

const lengthBonusDefault = 5

// lengthMultiplierTiers drive the estimator, same tiering as the bonus.
var lengthMultiplierTiers = []struct {
	MaxLength  int
	Multiplier float64
}{
	{3, 3.0},
	{5, 2.0},
	{7, 1.5},
	{10, 1.2},
}

const lengthMultiplierDefault = 1.0

// priceLadder is an ordered list of (threshold, bonus) pairs; the first
// rung the price exceeds wins.
type priceLadder []struct {
	Above float64
	Bonus int
}

// feedPriceLadder applies to feed prices before a live availability check.
var feedPriceLadder = priceLadder{
	{1000, 20},
	{500, 15},
	{100, 10},
}

// checkedPriceLadder replaces feedPriceLadder once a registrar lookup has
// confirmed the price.
var checkedPriceLadder = priceLadder{
	{1000, 25},
	{500, 20},
	{100, 15},
	{50, 10},
}

// Status and availability bonuses.
const (
	statusPremiumBonus   = 20
	statusAvailableBonus = 15
	statusSoonBonus      = 10

	availableBonus           = 15
	statusExactAvailable     = 10
	statusExactSoonAvailable = 5
)
