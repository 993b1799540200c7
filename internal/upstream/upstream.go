// Package upstream holds the error taxonomy shared by the outbound API
// clients. Upstream failures are converted to these sentinel errors at the
// fetcher boundary; nothing upstream-shaped escapes to the HTTP layer.
package upstream

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnavailable marks a non-success response or transport failure from
	// an upstream the request can survive without (news, generator).
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrInvalidAPIKey marks a 401/403 from a keyed upstream.
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrRateLimited marks a 429 from an upstream.
	ErrRateLimited = errors.New("rate limited")
	// ErrDecode marks a response body that could not be parsed.
	ErrDecode = errors.New("decode upstream response")
)

// Category is a stable label for error classification in metrics.
type Category string

const (
	CategoryTimeout       Category = "timeout"
	CategoryNetwork       Category = "network"
	CategoryInvalidAPIKey Category = "invalid_api_key"
	CategoryRateLimited   Category = "rate_limited"
	CategoryUpstream      Category = "upstream_error"
	CategoryParsing       Category = "parsing"
	CategoryUnknown       Category = "unknown"
)

// Categorize maps an error to a stable Category for metrics.
func Categorize(err error) Category {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTimeout
	}
	if errors.Is(err, ErrInvalidAPIKey) {
		return CategoryInvalidAPIKey
	}
	if errors.Is(err, ErrRateLimited) {
		return CategoryRateLimited
	}
	if errors.Is(err, ErrDecode) {
		return CategoryParsing
	}
	if errors.Is(err, ErrUnavailable) {
		return CategoryUpstream
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return CategoryTimeout
	}
	if strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") {
		return CategoryNetwork
	}
	if strings.Contains(errStr, "parse") || strings.Contains(errStr, "unmarshal") {
		return CategoryParsing
	}

	return CategoryUnknown
}

// StatusLabel buckets an HTTP status code into a stable metric label.
func StatusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode == http.StatusTooManyRequests:
		return "rate_limited"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	default:
		return "error"
	}
}

// StatusError converts a non-2xx status code to its sentinel error, or nil
// for success codes.
func StatusError(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return ErrInvalidAPIKey
	case statusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}
