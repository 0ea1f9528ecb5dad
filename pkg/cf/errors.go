package cf

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a single error entry returned by the CF API.
type APIError struct {
	Code   int    `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Title == "" {
		return e.Detail
	}

	return fmt.Sprintf("%s: %s (code: %d)", e.Title, e.Detail, e.Code)
}

// ResponseError is the structured error body of a failed API response.
// StatusCode carries the upstream HTTP status the body arrived with so that
// callers can correlate failures with the platform's own error reporting.
type ResponseError struct {
	Errors     []APIError `json:"errors"`
	StatusCode int        `json:"-"`
}

// Error implements the error interface. The message preserves the upstream
// errors[].detail text verbatim.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("Cloud Foundry API returned status %d", e.StatusCode)
	}

	details := make([]string, 0, len(e.Errors))
	for _, apiErr := range e.Errors {
		details = append(details, apiErr.Detail)
	}

	return "Cloud Foundry API returned with error(s): " + strings.Join(details, ", ")
}

// FirstError returns the first error entry or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Common CF error codes.
const (
	ErrorCodeNotFound         = 10010
	ErrorCodeNotAuthenticated = 10002
	ErrorCodeNotAuthorized    = 10003
	ErrorCodeUnprocessable    = 10008
)

// Static errors wrapped with context throughout the module.
var (
	ErrConfigRequired          = errors.New("config is required")
	ErrAPIHostRequired         = errors.New("API host is required")
	ErrCredentialsRequired     = errors.New("user and secret are required")
	ErrAuthenticationFailed    = errors.New("authentication failed")
	ErrRetryBudgetExhausted    = errors.New("retry budget exhausted")
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrSpaceNotFound           = errors.New("space not found")
	ErrDomainNotFound          = errors.New("domain not found")
	ErrApplicationNotFound     = errors.New("application not found")
	ErrRouteNotFound           = errors.New("route not found")
	ErrServiceInstanceNotFound = errors.New("service instance not found")
	ErrInvalidRoute            = errors.New("invalid route")
	ErrCacheDisabled           = errors.New("cache disabled")
	ErrCacheMiss               = errors.New("key not found in cache")
	ErrUnsupportedCacheType    = errors.New("unsupported cache type")
	ErrNATSConfigRequired      = errors.New("NATS configuration required for NATS cache")
)

// IsAuthenticationError reports whether err is a failed login exchange or a
// 401 that persisted after the single authenticated replay.
func IsAuthenticationError(err error) bool {
	if errors.Is(err, ErrAuthenticationFailed) {
		return true
	}

	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsTransient reports whether err is a transient transport failure: a
// 502/503/504 that survived the bounded retry policy.
func IsTransient(err error) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// IsNotFound reports whether err is a CF resource-not-found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeNotFound
	}

	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		if respErr.StatusCode == http.StatusNotFound {
			return true
		}

		if first := respErr.FirstError(); first != nil {
			return first.Code == ErrorCodeNotFound
		}
	}

	return false
}

// ParseResponseError decodes a structured error body. The status code is
// attached so the taxonomy helpers can classify the failure.
func ParseResponseError(data []byte, statusCode int) *ResponseError {
	respErr := &ResponseError{StatusCode: statusCode}
	if err := json.Unmarshal(data, respErr); err != nil || len(respErr.Errors) == 0 {
		// Not a structured CF error body. Preserve the raw text as the detail.
		if raw := strings.TrimSpace(string(data)); raw != "" {
			respErr.Errors = []APIError{{Detail: raw}}
		}
	}

	return respErr
}
