// Package reserves tracks per-token virtual reserve state and derives spot
// prices from it. The ledger is owned by the single scan goroutine and is
// deliberately unsynchronized; concurrent mutation is a caller bug.
package reserves

// Initial virtual reserves seeded for every newly launched token.
const (
	InitialVirtualSolReserves   uint64 = 30_000_000_000         // lamports
	InitialVirtualTokenReserves uint64 = 1_073_000_000_000_000  // base units, 6 decimals
)

// DefaultPrice is the bootstrap price in SOL per token reported for mints
// the ledger has not seen a launch for.
const DefaultPrice = 0.000000033

// State holds the virtual reserves of one token.
type State struct {
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
}

// Price returns the spot price in SOL per whole token. The sol side converts
// from lamports, the token side from 6-decimal base units. Returns +Inf when
// token reserves are zero; callers guard against that via Ledger.PriceOf.
func (s State) Price() float64 {
	return (float64(s.VirtualSolReserves) / 1e9) / (float64(s.VirtualTokenReserves) / 1e6)
}

// Ledger maps mint addresses to their virtual reserve state.
type Ledger struct {
	states       map[string]*State
	defaultPrice float64
}

// NewLedger returns an empty ledger reporting DefaultPrice for unknown mints.
func NewLedger() *Ledger {
	return &Ledger{
		states:       make(map[string]*State),
		defaultPrice: DefaultPrice,
	}
}

// OnCreate seeds initial reserves for mint. An existing entry is left
// untouched so a replayed launch cannot reset live reserves.
func (l *Ledger) OnCreate(mint string) {
	if _, ok := l.states[mint]; ok {
		return
	}
	l.states[mint] = &State{
		VirtualSolReserves:   InitialVirtualSolReserves,
		VirtualTokenReserves: InitialVirtualTokenReserves,
	}
}

// OnBuy applies an observed purchase to the mint's reserves and returns the
// price that held BEFORE the update, which is the price the buy executed at.
// Unknown mints are left untracked and report the default price. The sol side
// saturates at the top, the token side floors at zero.
func (l *Ledger) OnBuy(mint string, solLamports, tokenAmount uint64) float64 {
	st, ok := l.states[mint]
	if !ok {
		return l.defaultPrice
	}

	price := l.priceOf(st)

	st.VirtualSolReserves = saturatingAdd(st.VirtualSolReserves, solLamports)
	if tokenAmount >= st.VirtualTokenReserves {
		st.VirtualTokenReserves = 0
	} else {
		st.VirtualTokenReserves -= tokenAmount
	}

	return price
}

// PriceOf returns the current spot price for mint, or the default price when
// the mint is untracked or its token reserves have been exhausted.
func (l *Ledger) PriceOf(mint string) float64 {
	st, ok := l.states[mint]
	if !ok {
		return l.defaultPrice
	}
	return l.priceOf(st)
}

// Snapshot returns a copy of the reserve state for mint. The second return
// is false when the mint is untracked.
func (l *Ledger) Snapshot(mint string) (State, bool) {
	st, ok := l.states[mint]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Len reports the number of tracked mints.
func (l *Ledger) Len() int {
	return len(l.states)
}

func (l *Ledger) priceOf(st *State) float64 {
	if st.VirtualTokenReserves == 0 {
		return l.defaultPrice
	}
	return st.Price()
}

func saturatingAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return ^uint64(0)
}
