// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package chai

import (
	"context"
	"errors"
	"net"
)

// ErrTimeout indicates a request exceeded its deadline.
var ErrTimeout = errors.New("request timed out")

// ErrorType classifies a ClientError.
type ErrorType int

const (
	// ErrorTransient marks conditions worth retrying.
	ErrorTransient ErrorType = iota

	// ErrorFatal marks conditions a retry cannot fix.
	ErrorFatal
)

// ClientError wraps a failure with its classification. The Cause is
// reachable through errors.Is/As via Unwrap.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// PREDICATES
// =============================================================================

// IsTransient reports whether the error is worth retrying: timeouts,
// connection errors, rate limiting, and 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrorTransient
	}

	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) {
		return true
	}
	if IsTimeout(err) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsFatal reports whether the error cannot be fixed by retrying.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrorFatal
	}

	return errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrEmptyPrompt)
}

// IsAuthFailed reports whether the service rejected the credentials.
func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrNotConfigured)
}

// IsTimeout reports whether the error is a deadline expiry. Caller
// cancellation is not a timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
