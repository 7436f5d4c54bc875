package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemValidation_NamesIndexAndField(t *testing.T) {
	err := NewItemValidation(2, "bagSize", "bag size must be positive")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, 2, err.Details["itemIndex"])
	assert.Equal(t, "bagSize", err.Details["field"])
	assert.Contains(t, err.Message, "item 2")
}

func TestHelpers_SeeThroughWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save purchases: %w", NewPersistence("purchases", cause))

	assert.True(t, IsPersistence(err))
	assert.False(t, IsValidation(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(err))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "purchases", appErr.Details["key"])
}

func TestPaymentExceedsBalance(t *testing.T) {
	err := NewPaymentExceedsBalance("o-1", "1", "0")

	assert.True(t, IsPaymentExceedsBalance(err))
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.Equal(t, "0", err.Details["remaining"])
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
