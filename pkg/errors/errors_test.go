package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	err := Wrap(NewValidationError("weights", "must sum to 1", 0.9), "compute_portfolio_risk")

	assert.True(t, Is(err, ErrInvalidInput))

	var verr *ValidationError
	assert.True(t, As(err, &verr))
	assert.Equal(t, "weights", verr.Field)
}

func TestDomainErrorFormatting(t *testing.T) {
	err := NewDomainError("signature_mismatch", "expected 2 arguments, got 3", ErrSignatureMismatch)

	assert.Equal(t, "signature_mismatch: expected 2 arguments, got 3: signature mismatch", err.Error())
	assert.True(t, Is(err, ErrSignatureMismatch))
}

func TestMultiError(t *testing.T) {
	var m MultiError
	assert.NoError(t, m.ToError())

	m.Add(nil)
	m.Add(ErrDuplicateTool)
	m.Add(ErrNotFound)

	assert.True(t, m.HasErrors())
	assert.Contains(t, m.ToError().Error(), "multiple errors (2)")
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, Wrapf(nil, "ignored %d", 1))
}
