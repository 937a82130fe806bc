package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a failure reported by the remote API.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Detail     string `json:"detail"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Detail)
}

// errorBody covers the error shapes the API is known to produce:
// a flat {"detail": "..."} and an envelope
// {"success": false, "error": {"code": ..., "message": ...}}.
type errorBody struct {
	Detail string `json:"detail"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FromResponse builds an Error from a non-2xx response body. Unparseable
// bodies fall back to the HTTP status text so a failure always carries a
// readable message.
func FromResponse(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Code:       codeForStatus(statusCode),
		Detail:     http.StatusText(statusCode),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return e
	}

	if parsed.Detail != "" {
		e.Detail = parsed.Detail
	}
	if parsed.Error != nil {
		if parsed.Error.Code != "" {
			e.Code = parsed.Error.Code
		}
		if parsed.Error.Message != "" {
			e.Detail = parsed.Error.Message
		}
	}

	return e
}

// codeForStatus maps an HTTP status to a stable error code.
func codeForStatus(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		if statusCode >= 500 {
			return "INTERNAL_ERROR"
		}
		return "API_ERROR"
	}
}

// IsStatus reports whether err is an API error with the given status.
func IsStatus(err error, statusCode int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// IsUnauthorized reports whether err is a 401 from the API, meaning the
// session token is missing, invalid, or expired.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsRetryable reports whether the request may succeed if repeated:
// rate limits and transient server-side failures.
func IsRetryable(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
}
