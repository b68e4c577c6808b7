package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorError(t *testing.T) {
	err := NewAPIError(ErrUnbalancedEntries, "credits 100 do not balance debits 99", "ledger_entries")
	assert.Equal(t, "UNBALANCED_ENTRIES: credits 100 do not balance debits 99", err.Error())
	assert.Equal(t, "ledger_entries", err.Parameter)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(NewAPIError(ErrNotFound, "gone", "id")))
	assert.Equal(t, ErrInternalServer, CodeOf(errors.New("plain error")))
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicateExternalID, http.StatusConflict},
		{ErrVersionConflict, http.StatusConflict},
		{ErrAlreadyPosted, http.StatusConflict},
		{ErrUnbalancedEntries, http.StatusUnprocessableEntity},
		{ErrInconsistentLedgerUsage, http.StatusUnprocessableEntity},
		{ErrInvalidAmount, http.StatusUnprocessableEntity},
		{ErrRateLimitTimeout, http.StatusTooManyRequests},
		{ErrInternalServer, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToHTTPStatus(NewAPIError(tt.code, "x", "")), string(tt.code))
	}
	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(errors.New("plain")))
}

func TestMapHTTPStatusToCode(t *testing.T) {
	assert.Equal(t, ErrNotFound, MapHTTPStatusToCode(http.StatusNotFound))
	assert.Equal(t, ErrDuplicateExternalID, MapHTTPStatusToCode(http.StatusConflict))
	assert.Equal(t, ErrBadRequest, MapHTTPStatusToCode(http.StatusBadRequest))
	assert.Equal(t, ErrBadRequest, MapHTTPStatusToCode(http.StatusUnprocessableEntity))
	assert.Equal(t, ErrRateLimitTimeout, MapHTTPStatusToCode(http.StatusTooManyRequests))
	assert.Equal(t, ErrInternalServer, MapHTTPStatusToCode(http.StatusBadGateway))
}
