package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound                ErrorCode = "NOT_FOUND"
	ErrUnbalancedEntries       ErrorCode = "UNBALANCED_ENTRIES"
	ErrInconsistentLedgerUsage ErrorCode = "INCONSISTENT_LEDGER_USAGE"
	ErrInvalidAmount           ErrorCode = "INVALID_AMOUNT"
	ErrDuplicateExternalID     ErrorCode = "DUPLICATE_EXTERNAL_ID"
	ErrVersionConflict         ErrorCode = "VERSION_CONFLICT"
	ErrAlreadyPosted           ErrorCode = "ALREADY_POSTED"
	ErrRateLimitTimeout        ErrorCode = "RATE_LIMIT_TIMEOUT"
	ErrBadRequest              ErrorCode = "BAD_REQUEST"
	ErrInternalServer          ErrorCode = "INTERNAL_SERVER_ERROR"
)

// APIError is the error type both client implementations raise. Parameter
// names the offending request field when one can be singled out.
type APIError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Parameter string    `json:"parameter,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, parameter string) APIError {
	logrus.WithField("parameter", parameter).Debug(message)
	return APIError{
		Code:      code,
		Message:   message,
		Parameter: parameter,
	}
}

// CodeOf extracts the error code from err, or ErrInternalServer when err is
// not an APIError.
func CodeOf(err error) ErrorCode {
	if apiErr, ok := err.(APIError); ok {
		return apiErr.Code
	}
	return ErrInternalServer
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrDuplicateExternalID, ErrVersionConflict, ErrAlreadyPosted:
			return http.StatusConflict
		case ErrUnbalancedEntries, ErrInconsistentLedgerUsage, ErrInvalidAmount, ErrBadRequest:
			return http.StatusUnprocessableEntity
		case ErrRateLimitTimeout:
			return http.StatusTooManyRequests
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// MapHTTPStatusToCode is the inverse mapping used by the network client when
// the response body carries no recognizable error code.
func MapHTTPStatusToCode(status int) ErrorCode {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicateExternalID
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusTooManyRequests:
		return ErrRateLimitTimeout
	default:
		return ErrInternalServer
	}
}
