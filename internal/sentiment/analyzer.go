package sentiment

import (
	"strings"

	"forex-agent/internal/types"
)

// Analyzer scores headlines with a fixed lexicon. A headline counts toward
// the base currency's direction when a bullish or bearish term appears.
type Analyzer struct{}

var bullishTerms = []string{
	"rally", "rallies", "surge", "surges", "soar", "soars", "gain", "gains",
	"strengthen", "strengthens", "climbs", "jumps", "bullish", "higher",
	"rebound", "rebounds", "recovery", "hawkish",
}

var bearishTerms = []string{
	"fall", "falls", "drop", "drops", "plunge", "plunges", "slide", "slides",
	"weaken", "weakens", "slump", "slumps", "bearish", "lower", "tumble",
	"tumbles", "sell-off", "selloff", "dovish",
}

// Score returns net sentiment in [-1, 1] across headlines, with counts for
// the summary line.
func (Analyzer) Score(headlines []Headline) (score float64, bullish, bearish int) {
	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		switch {
		case containsAny(title, bullishTerms):
			bullish++
		case containsAny(title, bearishTerms):
			bearish++
		}
	}
	scored := bullish + bearish
	if scored == 0 {
		return 0, 0, 0
	}
	return float64(bullish-bearish) / float64(scored), bullish, bearish
}

// Classify maps a score onto the tri-state mood. The 0.2 band keeps weak or
// mixed signals neutral so the strategy filter only reacts to a clear skew.
func (Analyzer) Classify(score float64) types.Sentiment {
	switch {
	case score >= 0.2:
		return types.SentimentBullish
	case score <= -0.2:
		return types.SentimentBearish
	default:
		return types.SentimentNeutral
	}
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
