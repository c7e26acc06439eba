package market

import (
	"context"
	"time"

	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
)

// unknownCurrency is reported when a price exists but its currency does not
const unknownCurrency = "UNKN"

// NewFetchLastPriceTool returns a tool that reports the latest daily close.
func NewFetchLastPriceTool(deps shared.Deps) tools.Tool {
	return shared.NewToolBuilder(
		"fetch_last_price",
		"Latest daily close price with currency and UTC timestamp",
		func(ctx context.Context, args tools.Args) (any, error) {
			symbol, err := args.String("symbol")
			if err != nil {
				return nil, err
			}
			if !deps.HasMarketData() {
				return nil, errors.Wrap(errors.ErrUnavailable, "market data provider not configured")
			}

			quote, err := deps.MarketData.LastClose(ctx, symbol)
			if err != nil {
				return nil, errors.Wrapf(err, "price history for %s", symbol)
			}

			result := map[string]any{
				"symbol":    symbol,
				"price":     nil,
				"currency":  nil,
				"timestamp": deps.Now().Format(time.RFC3339),
			}
			if quote == nil {
				deps.Logger().Debugw("Tool: fetch_last_price has no history", "symbol", symbol)
				return result, nil
			}

			result["price"] = quote.Close
			result["currency"] = unknownCurrency
			if quote.Currency != "" {
				result["currency"] = quote.Currency
			}
			return result, nil
		},
		deps,
	).
		WithParam("symbol", "Ticker symbol, e.g. AAPL or TCS.NS").
		WithTimeout(15 * time.Second).
		Build()
}
