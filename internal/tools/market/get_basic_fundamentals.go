package market

import (
	"context"
	"time"

	"finadvisor/internal/domain/market_data"
	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
)

// NewGetBasicFundamentalsTool returns a tool that reports sector and
// valuation metadata. Lookup failures yield null fields.
func NewGetBasicFundamentalsTool(deps shared.Deps) tools.Tool {
	return shared.NewToolBuilder(
		"get_basic_fundamentals",
		"Sector, industry, market cap, trailing P/E, dividend yield and currency (best-effort)",
		func(ctx context.Context, args tools.Args) (any, error) {
			symbol, err := args.String("symbol")
			if err != nil {
				return nil, err
			}

			p := lookupProfile(ctx, deps, symbol)
			return map[string]any{
				"symbol":        symbol,
				"sector":        nullable(p.Sector),
				"industry":      nullable(p.Industry),
				"marketCap":     nullable(p.MarketCap),
				"trailingPE":    nullable(p.TrailingPE),
				"dividendYield": nullable(p.DividendYield),
				"currency":      nullable(p.Currency),
			}, nil
		},
		deps,
	).
		WithParam("symbol", "Ticker symbol").
		WithTimeout(15 * time.Second).
		Build()
}

// lookupProfile never fails: a missing provider or a provider error is
// treated as an empty profile.
func lookupProfile(ctx context.Context, deps shared.Deps, symbol string) *market_data.Profile {
	empty := &market_data.Profile{Symbol: symbol}
	if !deps.HasMarketData() {
		return empty
	}

	p, err := deps.MarketData.Profile(ctx, symbol)
	if err != nil {
		deps.Logger().Warnw("Tool: profile lookup failed, returning empty fields", "symbol", symbol, "error", err)
		return empty
	}
	if p == nil {
		return empty
	}
	return p
}

// nullable turns a nil pointer into a JSON null and dereferences the rest
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
