package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/pkg/errors"
)

func TestParseArgs_KeepsWrittenOrder(t *testing.T) {
	args, err := ParseArgs(`{"weights":[0.5,0.5],"returns":[0.1,0.2],"note":"x"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"weights", "returns", "note"}, args.Keys)
	assert.Equal(t, []any{[]any{0.5, 0.5}, []any{0.1, 0.2}, "x"}, args.Positional())
}

func TestParseArgs_Rejects(t *testing.T) {
	for _, raw := range []string{"", "{", `["a"]`, `"a"`, "42", "{a:1}"} {
		_, err := ParseArgs(raw)
		assert.ErrorIs(t, err, errors.ErrInvalidInput, raw)
	}
}

func TestNewArgs_UnlistedKeysSorted(t *testing.T) {
	args := NewArgs(map[string]any{"c": 3, "a": 1, "b": 2}, "b", "missing", "b")
	assert.Equal(t, []string{"b", "a", "c"}, args.Keys)
	assert.Equal(t, 3, args.Len())
	assert.True(t, args.Has("a"))
	assert.False(t, args.Has("missing"))
}

func TestArgs_Accessors(t *testing.T) {
	args, err := ParseArgs(`{"symbol":"AAPL","n":3,"f":"1.5","xs":[1,"2",3.5],"bad":[1,"x"],"frac":2.5}`)
	require.NoError(t, err)

	s, err := args.String("symbol")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s)

	n, err := args.Int("n")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	f, err := args.Float("f")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	xs, err := args.Floats("xs")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3.5}, xs)

	t.Run("type mismatches are validation errors", func(t *testing.T) {
		_, err := args.String("n")
		var verr *errors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "n", verr.Field)
		assert.ErrorIs(t, err, errors.ErrInvalidInput)

		_, err = args.Floats("bad")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)

		_, err = args.Floats("symbol")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)

		_, err = args.Int("frac")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)

		_, err = args.Float("absent")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("non-finite numeric strings are rejected", func(t *testing.T) {
		special, err := ParseArgs(`{"nan":"NaN","inf":"-Inf","xs":[0.5,"Infinity"]}`)
		require.NoError(t, err)

		_, err = special.Float("nan")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		_, err = special.Float("inf")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
		_, err = special.Floats("xs")
		assert.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestArgs_MarshalJSONKeepsOrder(t *testing.T) {
	args, err := ParseArgs(`{"z":1,"a":[true,null],"m":{"k":"v"}}`)
	require.NoError(t, err)

	out, err := json.Marshal(args)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null],"m":{"k":"v"}}`, string(out))

	empty, err := json.Marshal(Args{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}
