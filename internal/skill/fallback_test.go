package skill

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutePrimarySucceeds(t *testing.T) {
	fallbackCalled := false

	result, err := Execute(
		func() (any, error) { return "primary", nil },
		func() (any, error) { fallbackCalled = true; return "fallback", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "primary", result)
	assert.False(t, fallbackCalled, "fallback must not run when primary succeeds")
}

func TestExecuteFallsBack(t *testing.T) {
	result, err := Execute(
		func() (any, error) { return nil, errors.New("rest endpoint 404") },
		func() (any, error) { return "fallback", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "fallback", result)
}

func TestExecuteBothFail(t *testing.T) {
	fallbackErr := errors.New("rpc endpoint down")

	_, err := Execute(
		func() (any, error) { return nil, errors.New("rest endpoint down") },
		func() (any, error) { return nil, fallbackErr },
	)
	assert.ErrorIs(t, err, fallbackErr)
}

func TestExecuteNoFallback(t *testing.T) {
	primaryErr := errors.New("rest endpoint down")

	_, err := Execute(func() (any, error) { return nil, primaryErr }, nil)
	assert.ErrorIs(t, err, primaryErr)
}
