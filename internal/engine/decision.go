package engine

import "time"

// SnipeConfig holds the decision parameters for entering a position.
type SnipeConfig struct {
	// MinTriggerLamports and MaxTriggerLamports bound the observed buy size
	// that triggers an entry, in lamports. Both bounds are inclusive.
	MinTriggerLamports uint64
	MaxTriggerLamports uint64

	// BuyAmountLamports is the SOL spent per snipe.
	BuyAmountLamports uint64

	// SellDelay is how long a sniped position is held before the exit is
	// released.
	SellDelay time.Duration
}

// ShouldSnipe reports whether an observed buy of solLamports falls inside
// the configured trigger window.
func (c SnipeConfig) ShouldSnipe(solLamports uint64) bool {
	return solLamports >= c.MinTriggerLamports && solLamports <= c.MaxTriggerLamports
}
