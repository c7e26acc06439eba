package console

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/internal/tools"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/templates"
)

func answers(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestOnboard(t *testing.T) {
	p, _ := newTestPrompter(answers(
		"30",         // age
		"15",         // horizon
		"3",          // risk
		"us",         // market
		"retirement", // goals
		"1",          // need
		" msft ",     // ticker
		"25000 INR",  // savings
		"6",          // emergency fund
		"",           // tax regime
	))

	prof, err := Onboard(context.Background(), p, "IN")
	require.NoError(t, err)

	assert.Equal(t, Profile{
		Age:             "30",
		Horizon:         "15",
		Risk:            "High",
		Market:          "US",
		Goals:           "retirement",
		Need:            NeedStock,
		Symbol:          "MSFT",
		MonthlySavings:  "25000 INR",
		EmergencyMonths: "6",
		TaxRegime:       "Unknown/NA",
	}, prof)
}

func TestOnboardDefaults(t *testing.T) {
	p, out := newTestPrompter(answers("", "", "", "", "", "", "", "", "", ""))

	prof, err := Onboard(context.Background(), p, "IN")
	require.NoError(t, err)

	assert.Equal(t, "Moderate", prof.Risk)
	assert.Equal(t, "IN", prof.Market)
	assert.Equal(t, NeedBoth, prof.Need)
	assert.Equal(t, "TCS.NS", prof.Symbol)
	assert.Contains(t, out.String(), "Ticker symbol (e.g., TCS.NS): ")
}

func TestOnboardDefaultMarketFromConfig(t *testing.T) {
	p, out := newTestPrompter(answers("", "", "", "", "", "", "", "", "", ""))

	prof, err := Onboard(context.Background(), p, "US")
	require.NoError(t, err)

	assert.Equal(t, "US", prof.Market)
	assert.Equal(t, "AAPL", prof.Symbol)
	assert.Contains(t, out.String(), "Primary market [1) IN, 2) US] (default: US): ")
}

func TestOnboardCancelled(t *testing.T) {
	p, _ := newTestPrompter(answers("30", "10"))

	_, err := Onboard(context.Background(), p, "IN")
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestHorizonYears(t *testing.T) {
	tests := map[string]int{
		"10":   10,
		" 25 ": 25,
		"7.9":  7,
		"":     10,
		"ten":  10,
		"0":    0,
		"NaN":  10,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, Profile{Horizon: input}.HorizonYears(), "horizon %q", input)
	}
}

func TestRenderTasks(t *testing.T) {
	prof := Profile{
		Age:             "30",
		Horizon:         "",
		Risk:            "Moderate",
		Market:          "IN",
		Goals:           "",
		Symbol:          "TCS.NS",
		MonthlySavings:  "25000 INR",
		EmergencyMonths: "6",
		TaxRegime:       "New",
	}

	tasks, err := RenderTasks(templates.Get(), prof)
	require.NoError(t, err)

	assert.Contains(t, tasks.Stock, "Please analyze TCS.NS for a user (age: 30, risk: Moderate, horizon: unknown years, market: IN).")
	stockCalls := tools.Scan(tasks.Stock)
	require.Len(t, stockCalls, 3)
	for i, name := range []string{"fetch_last_price", "get_basic_fundamentals", "get_beta"} {
		assert.Equal(t, name, stockCalls[i].Name)
		symbol, err := stockCalls[i].Arguments.String("symbol")
		require.NoError(t, err)
		assert.Equal(t, "TCS.NS", symbol)
	}

	assert.Contains(t, tasks.Finance, "goals: not specified")
	assert.Contains(t, tasks.Finance, "monthly savings: 25,000 INR")
	assert.Contains(t, tasks.Finance, "tax regime: New.")
	financeCalls := tools.Scan(tasks.Finance)
	require.Len(t, financeCalls, 2)
	assert.False(t, financeCalls[0].Malformed)
	assert.Equal(t, []string{"risk_tolerance", "horizon_years"}, financeCalls[0].Arguments.Keys)
	assert.Equal(t, "moderate", financeCalls[0].Arguments.Values["risk_tolerance"])
	assert.Equal(t, float64(10), financeCalls[0].Arguments.Values["horizon_years"])
	assert.Equal(t, "compute_portfolio_risk", financeCalls[1].Name)
}

func TestRenderDemoKickoff(t *testing.T) {
	kickoff, err := RenderDemoKickoff(templates.Get(), "INFY.NS")
	require.NoError(t, err)
	assert.Contains(t, kickoff, "STOCK ADVISOR: Analyze INFY.NS")
	assert.Contains(t, kickoff, "Always include disclaimers.")
}
