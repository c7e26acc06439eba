package market_data

import "time"

// Quote is the most recent daily close of a symbol
type Quote struct {
	Symbol string
	Close  float64
	// Currency is empty when the exchange metadata did not report one
	Currency  string
	CloseTime time.Time
}

// Profile holds best-effort company metadata. Any field may be missing.
type Profile struct {
	Symbol        string
	Name          *string
	Sector        *string
	Industry      *string
	Currency      *string
	MarketCap     *float64
	TrailingPE    *float64
	DividendYield *float64
	Beta          *float64
}
