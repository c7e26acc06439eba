package market

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/internal/domain/market_data"
	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
)

type fakeProvider struct {
	quotes     map[string]*market_data.Quote
	profiles   map[string]*market_data.Profile
	historyErr error
	profileErr error
}

func (f *fakeProvider) LastClose(_ context.Context, symbol string) (*market_data.Quote, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.quotes[symbol], nil
}

func (f *fakeProvider) Profile(_ context.Context, symbol string) (*market_data.Profile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profiles[symbol], nil
}

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("IST", 19800))

func newDeps(p market_data.Provider) shared.Deps {
	return shared.Deps{
		MarketData: p,
		Clock:      func() time.Time { return fixedNow },
	}
}

func call(t *testing.T, tool tools.Tool, raw string) (any, error) {
	t.Helper()
	args, err := tools.ParseArgs(raw)
	require.NoError(t, err)
	return tool.Fn(context.Background(), args)
}

func TestFetchLastPrice(t *testing.T) {
	provider := &fakeProvider{quotes: map[string]*market_data.Quote{
		"AAPL":   {Symbol: "AAPL", Close: 187.44, Currency: "USD"},
		"TCS.NS": {Symbol: "TCS.NS", Close: 3990.5},
	}}
	tool := NewFetchLastPriceTool(newDeps(provider))

	assert.Equal(t, "fetch_last_price(symbol)", tool.Signature())

	out, err := call(t, tool, `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"symbol":    "AAPL",
		"price":     187.44,
		"currency":  "USD",
		"timestamp": "2025-03-14T03:56:53Z",
	}, out)

	t.Run("unknown currency", func(t *testing.T) {
		out, err := call(t, tool, `{"symbol":"TCS.NS"}`)
		require.NoError(t, err)
		assert.Equal(t, "UNKN", out.(map[string]any)["currency"])
	})

	t.Run("no history", func(t *testing.T) {
		out, err := call(t, tool, `{"symbol":"ZZZZ"}`)
		require.NoError(t, err)
		result := out.(map[string]any)
		assert.Nil(t, result["price"])
		assert.Nil(t, result["currency"])
		assert.Equal(t, "ZZZZ", result["symbol"])
	})
}

func TestFetchLastPrice_HistoryErrorPropagates(t *testing.T) {
	provider := &fakeProvider{historyErr: errors.Wrap(errors.ErrExternal, "HTTP 500")}
	registry, err := tools.NewRegistry(NewFetchLastPriceTool(newDeps(provider)))
	require.NoError(t, err)

	args, err := tools.ParseArgs(`{"symbol":"AAPL"}`)
	require.NoError(t, err)

	out := tools.NewDispatcher(registry).Dispatch(context.Background(), "fetch_last_price", args)
	ev, ok := tools.AsErrorValue(out)
	require.True(t, ok)
	assert.Equal(t, tools.KindToolExecutionError, ev.ErrorKind)
	assert.Contains(t, ev.Message, "fetch_last_price: external_error: price history for AAPL")
}

func TestFetchLastPrice_InvalidSymbol(t *testing.T) {
	tool := NewFetchLastPriceTool(newDeps(&fakeProvider{}))

	_, err := call(t, tool, `{"symbol":42}`)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestFetchLastPrice_NoProvider(t *testing.T) {
	_, err := call(t, NewFetchLastPriceTool(newDeps(nil)), `{"symbol":"AAPL"}`)
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestGetBasicFundamentals(t *testing.T) {
	provider := &fakeProvider{profiles: map[string]*market_data.Profile{
		"AAPL": {
			Symbol:     "AAPL",
			Sector:     ptr("Technology"),
			Industry:   ptr("Consumer Electronics"),
			MarketCap:  ptr(2.9e12),
			TrailingPE: ptr(29.1),
			Currency:   ptr("USD"),
		},
	}}
	tool := NewGetBasicFundamentalsTool(newDeps(provider))

	out, err := call(t, tool, `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"symbol":        "AAPL",
		"sector":        "Technology",
		"industry":      "Consumer Electronics",
		"marketCap":     2.9e12,
		"trailingPE":    29.1,
		"dividendYield": nil,
		"currency":      "USD",
	}, out)
}

func TestGetBasicFundamentals_LookupFailureYieldsNulls(t *testing.T) {
	provider := &fakeProvider{profileErr: errors.Wrap(errors.ErrExternal, "blocked")}
	tool := NewGetBasicFundamentalsTool(newDeps(provider))

	out, err := call(t, tool, `{"symbol":"INFY.NS"}`)
	require.NoError(t, err)

	result := out.(map[string]any)
	assert.Equal(t, "INFY.NS", result["symbol"])
	for _, key := range []string{"sector", "industry", "marketCap", "trailingPE", "dividendYield", "currency"} {
		assert.Nil(t, result[key], key)
	}
}

func TestGetBeta(t *testing.T) {
	provider := &fakeProvider{profiles: map[string]*market_data.Profile{
		"AAPL": {Symbol: "AAPL", Beta: ptr(1.24)},
	}}
	tool := NewGetBetaTool(newDeps(provider))

	out, err := call(t, tool, `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"symbol": "AAPL", "beta": 1.24}, out)

	out, err = call(t, tool, `{"symbol":"MISSING"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"symbol": "MISSING", "beta": nil}, out)

	out, err = call(t, NewGetBetaTool(newDeps(nil)), `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	assert.Nil(t, out.(map[string]any)["beta"])
}
