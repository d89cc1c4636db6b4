package provider

import (
	"fmt"
	"time"
)

// ParseTimeframe maps the candle timeframe label onto its bar duration.
func ParseTimeframe(tf string) (time.Duration, error) {
	switch tf {
	case "M1":
		return time.Minute, nil
	case "M5":
		return 5 * time.Minute, nil
	case "M15":
		return 15 * time.Minute, nil
	case "M30":
		return 30 * time.Minute, nil
	case "H1":
		return time.Hour, nil
	case "H4":
		return 4 * time.Hour, nil
	case "D1":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown timeframe %q", tf)
	}
}
