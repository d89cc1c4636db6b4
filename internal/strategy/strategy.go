// Package strategy holds the closed set of signal generators. Strategies are
// selected at start time through a tagged kind, not a runtime string-to-type
// registry, so an unknown strategy is a configuration error at boot.
package strategy

import (
	"fmt"

	"forex-agent/internal/interfaces"
)

// Kind enumerates the available strategies.
type Kind string

const (
	KindSMACross Kind = "sma_cross"
	KindNoop     Kind = "noop"
)

// Params are the operator-tunable strategy knobs from config.yaml.
type Params struct {
	FastPeriod   int  `yaml:"fast_period"`
	SlowPeriod   int  `yaml:"slow_period"`
	UseRSIFilter bool `yaml:"use_rsi_filter"`
}

// New dispatches over the closed kind set.
func New(kind Kind, p Params) (interfaces.Strategy, error) {
	switch kind {
	case KindSMACross:
		return NewSMACross(p), nil
	case KindNoop:
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (available: %s, %s)", kind, KindSMACross, KindNoop)
	}
}
