package portfolio

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
)

// Weight sums are accepted when |Σw − 1| <= weightAbsTol + weightRelTol.
const (
	weightAbsTol = 1e-8
	weightRelTol = 1e-5
)

// placeholderVolFactor approximates each asset's volatility as half its
// expected return. There is no covariance input.
const placeholderVolFactor = 0.5

// Risk is the naive portfolio summary returned to the model
type Risk struct {
	ExpectedReturn float64 `json:"expected_return"`
	Variance       float64 `json:"variance"`
	Volatility     float64 `json:"volatility"`
}

// ComputeRisk assumes independent assets: variance = Σ w_i²·(0.5·r_i)².
func ComputeRisk(returns, weights []float64) (Risk, error) {
	if len(returns) != len(weights) {
		return Risk{}, errors.NewValidationError("weights", "returns and weights must have the same length", len(weights))
	}
	if !allFinite(returns) {
		return Risk{}, errors.NewValidationError("returns", "must be finite numbers", returns)
	}
	if !allFinite(weights) {
		return Risk{}, errors.NewValidationError("weights", "must be finite numbers", weights)
	}
	// A NaN sum fails this comparison.
	if sum := floats.Sum(weights); !(math.Abs(sum-1) <= weightAbsTol+weightRelTol) {
		return Risk{}, errors.NewValidationError("weights", "weights must sum to 1", sum)
	}

	perAssetVar := make([]float64, len(returns))
	floats.ScaleTo(perAssetVar, placeholderVolFactor, returns)
	floats.Mul(perAssetVar, perAssetVar)

	squaredWeights := make([]float64, len(weights))
	floats.MulTo(squaredWeights, weights, weights)

	variance := floats.Dot(squaredWeights, perAssetVar)
	risk := Risk{
		ExpectedReturn: floats.Dot(weights, returns),
		Variance:       variance,
		Volatility:     math.Sqrt(variance),
	}
	if !allFinite([]float64{risk.ExpectedReturn, risk.Variance, risk.Volatility}) {
		return Risk{}, errors.NewValidationError("returns", "result overflows float64", returns)
	}
	return risk, nil
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// NewComputePortfolioRiskTool exposes ComputeRisk to the model.
func NewComputePortfolioRiskTool(deps shared.Deps) tools.Tool {
	return shared.NewToolBuilder(
		"compute_portfolio_risk",
		"Expected return, variance and volatility of a weighted portfolio (weights must sum to 1)",
		func(_ context.Context, args tools.Args) (any, error) {
			returns, err := args.Floats("returns")
			if err != nil {
				return nil, err
			}
			weights, err := args.Floats("weights")
			if err != nil {
				return nil, err
			}
			return ComputeRisk(returns, weights)
		},
		deps,
	).
		WithParam("returns", "Expected annual return per asset, e.g. [0.10, 0.06]").
		WithParam("weights", "Allocation per asset, e.g. [0.6, 0.4]").
		Build()
}
