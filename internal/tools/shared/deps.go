package shared

import (
	"time"

	"finadvisor/internal/domain/market_data"
	"finadvisor/pkg/logger"
)

// Deps bundles dependencies required by concrete tool implementations
type Deps struct {
	MarketData market_data.Provider
	// Clock defaults to time.Now
	Clock func() time.Time
	Log   *logger.Logger
}

// HasMarketData reports whether the market data provider is available
func (d Deps) HasMarketData() bool {
	return d.MarketData != nil
}

// Now returns the current time in UTC
func (d Deps) Now() time.Time {
	if d.Clock != nil {
		return d.Clock().UTC()
	}
	return time.Now().UTC()
}

// Logger returns the configured logger or the global one
func (d Deps) Logger() *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Get()
}
