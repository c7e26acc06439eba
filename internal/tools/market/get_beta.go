package market

import (
	"context"
	"time"

	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
)

// NewGetBetaTool returns a tool that reports a symbol's beta, or null.
func NewGetBetaTool(deps shared.Deps) tools.Tool {
	return shared.NewToolBuilder(
		"get_beta",
		"Beta versus the market, null when unavailable",
		func(ctx context.Context, args tools.Args) (any, error) {
			symbol, err := args.String("symbol")
			if err != nil {
				return nil, err
			}

			p := lookupProfile(ctx, deps, symbol)
			return map[string]any{
				"symbol": symbol,
				"beta":   nullable(p.Beta),
			}, nil
		},
		deps,
	).
		WithParam("symbol", "Ticker symbol").
		WithTimeout(15 * time.Second).
		Build()
}
