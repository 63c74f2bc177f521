package domain

// TradeSide distinguishes buy and sell submissions.
type TradeSide string

// Trade sides.
const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// TradeRecord is one trade submission accepted by the execution endpoint.
// Acceptance does not imply on-chain confirmation.
type TradeRecord struct {
	Signature   string // transaction signature, primary key
	Side        TradeSide
	Mint        string
	TokenAmount uint64  // base units, 6 implied decimals
	Lamports    uint64  // buy: max cost; sell: min receive
	Price       float64 // SOL per display token unit at decision time
	Slot        uint64  // slot of the triggering observation, 0 for sells
	SubmittedAt int64   // unix milliseconds
}

// PriceTick is one observed pricing-state update for a mint.
type PriceTick struct {
	Mint                 string
	Slot                 uint64
	TimestampMs          int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	Price                float64 // SOL per display token unit after the update
}
