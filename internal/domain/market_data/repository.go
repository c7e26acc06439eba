package market_data

import (
	"context"
)

// Provider defines read access to end-of-day market data
type Provider interface {
	// LastClose returns the latest daily close, or nil when the symbol has no
	// price history for the current session
	LastClose(ctx context.Context, symbol string) (*Quote, error)

	// Profile returns company metadata (sector, valuation, beta)
	Profile(ctx context.Context, symbol string) (*Profile, error)
}
