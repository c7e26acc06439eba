package catalog

import (
	"finadvisor/internal/tools"
	"finadvisor/internal/tools/market"
	"finadvisor/internal/tools/portfolio"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
)

// Categories group tools by the advisor that uses them
const (
	CategoryMarketData = "market_data"
	CategoryPortfolio  = "portfolio"
)

// Definition describes a tool's metadata for registration and documentation.
type Definition struct {
	Name     string
	Category string
	build    func(shared.Deps) tools.Tool
}

// toolDefinitions enumerates every tool available to the advisors, in the
// order prompts list them.
var toolDefinitions = []Definition{
	{Name: "fetch_last_price", Category: CategoryMarketData, build: market.NewFetchLastPriceTool},
	{Name: "get_basic_fundamentals", Category: CategoryMarketData, build: market.NewGetBasicFundamentalsTool},
	{Name: "get_beta", Category: CategoryMarketData, build: market.NewGetBetaTool},

	{Name: "compute_portfolio_risk", Category: CategoryPortfolio, build: portfolio.NewComputePortfolioRiskTool},
	{Name: "suggest_allocation", Category: CategoryPortfolio, build: portfolio.NewSuggestAllocationTool},
}

// Definitions exposes a copy of all tool definitions.
func Definitions() []Definition {
	defs := make([]Definition, len(toolDefinitions))
	copy(defs, toolDefinitions)
	return defs
}

// Build constructs the process-wide registry. It is called once at startup
// and the result is shared by every advisor.
func Build(deps shared.Deps) (*tools.Registry, error) {
	log := deps.Logger().With("component", "tool_registration")

	list := make([]tools.Tool, 0, len(toolDefinitions))
	for _, def := range toolDefinitions {
		t := def.build(deps)
		if t.Name != def.Name {
			return nil, errors.Newf("tool catalog entry %s built tool %s", def.Name, t.Name)
		}
		list = append(list, t)
	}

	registry, err := tools.NewRegistry(list...)
	if err != nil {
		return nil, errors.Wrap(err, "build tool registry")
	}

	if !deps.HasMarketData() {
		log.Warnw("Market data provider not configured, market tools will report unavailable data")
	}
	log.Debugw("Registered tools", "count", registry.Len(), "names", registry.Names())
	return registry, nil
}

// Subset returns the registry entries of one category, for prompts that
// only describe part of the toolset.
func Subset(registry *tools.Registry, category string) []tools.Tool {
	var out []tools.Tool
	for _, def := range toolDefinitions {
		if def.Category != category {
			continue
		}
		if t, ok := registry.Get(def.Name); ok {
			out = append(out, t)
		}
	}
	return out
}
