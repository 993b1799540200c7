package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestCategorize verifies that Categorize maps errors to the correct stable
// Category for metrics labeling, including sentinel errors, wrapped errors,
// and message-based heuristics.
func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, ""},
		{"timeout context", context.DeadlineExceeded, CategoryTimeout},
		{"canceled context", context.Canceled, CategoryTimeout},
		{"invalid API key", ErrInvalidAPIKey, CategoryInvalidAPIKey},
		{"wrapped invalid API key", fmt.Errorf("auth: %w", ErrInvalidAPIKey), CategoryInvalidAPIKey},
		{"rate limited", ErrRateLimited, CategoryRateLimited},
		{"decode failure", fmt.Errorf("%w: bad json", ErrDecode), CategoryParsing},
		{"unavailable", ErrUnavailable, CategoryUpstream},
		{"timeout in message", errors.New("request timeout exceeded"), CategoryTimeout},
		{"network in message", errors.New("connection refused"), CategoryNetwork},
		{"parse in message", errors.New("parse response: invalid json"), CategoryParsing},
		{"unknown", errors.New("something else"), CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.want {
				t.Errorf("Categorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestStatusLabel verifies the bucketing of HTTP status codes into stable
// metric labels.
func TestStatusLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{http.StatusOK, "success"},
		{http.StatusNoContent, "success"},
		{http.StatusTooManyRequests, "rate_limited"},
		{http.StatusBadRequest, "client_error"},
		{http.StatusNotFound, "client_error"},
		{http.StatusInternalServerError, "server_error"},
		{http.StatusBadGateway, "server_error"},
		{0, "error"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.code); got != tt.want {
			t.Errorf("StatusLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

// TestStatusError verifies the mapping of non-2xx codes to sentinel errors.
func TestStatusError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusOK, nil},
		{http.StatusCreated, nil},
		{http.StatusUnauthorized, ErrInvalidAPIKey},
		{http.StatusForbidden, ErrInvalidAPIKey},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrUnavailable},
		{http.StatusNotFound, ErrUnavailable},
	}
	for _, tt := range tests {
		if got := StatusError(tt.code); !errors.Is(got, tt.want) {
			t.Errorf("StatusError(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
