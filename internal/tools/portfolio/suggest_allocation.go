package portfolio

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
)

// Allocation splits a portfolio across asset classes. Shares sum to exactly 1.
type Allocation struct {
	Equities decimal.Decimal
	Bonds    decimal.Decimal
	Cash     decimal.Decimal
}

var (
	conservative = Allocation{
		Equities: decimal.RequireFromString("0.30"),
		Bonds:    decimal.RequireFromString("0.50"),
		Cash:     decimal.RequireFromString("0.20"),
	}
	moderate = Allocation{
		Equities: decimal.RequireFromString("0.50"),
		Bonds:    decimal.RequireFromString("0.35"),
		Cash:     decimal.RequireFromString("0.15"),
	}
	aggressive = Allocation{
		Equities: decimal.RequireFromString("0.70"),
		Bonds:    decimal.RequireFromString("0.20"),
		Cash:     decimal.RequireFromString("0.10"),
	}
)

// SuggestAllocation maps a risk label to a fixed split. Unrecognised labels
// get the aggressive split.
func SuggestAllocation(riskTolerance string) Allocation {
	switch strings.ToLower(strings.TrimSpace(riskTolerance)) {
	case "low", "conservative":
		return conservative
	case "medium", "moderate":
		return moderate
	default:
		return aggressive
	}
}

// Total is the sum of all shares
func (a Allocation) Total() decimal.Decimal {
	return a.Equities.Add(a.Bonds).Add(a.Cash)
}

// AsMap renders shares as plain numbers for the model
func (a Allocation) AsMap() map[string]any {
	return map[string]any{
		"equities": a.Equities.InexactFloat64(),
		"bonds":    a.Bonds.InexactFloat64(),
		"cash":     a.Cash.InexactFloat64(),
	}
}

// NewSuggestAllocationTool exposes SuggestAllocation to the model. The
// horizon is accepted but does not affect the split yet.
func NewSuggestAllocationTool(deps shared.Deps) tools.Tool {
	return shared.NewToolBuilder(
		"suggest_allocation",
		"Equities/bonds/cash split for a risk tolerance (low, moderate, high)",
		func(_ context.Context, args tools.Args) (any, error) {
			risk, err := args.String("risk_tolerance")
			if err != nil {
				return nil, err
			}
			return SuggestAllocation(risk).AsMap(), nil
		},
		deps,
	).
		WithParam("risk_tolerance", "low|conservative, medium|moderate, or high|aggressive").
		WithParam("horizon_years", "Investment horizon in years").
		Build()
}
