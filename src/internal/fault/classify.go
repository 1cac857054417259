// FILE: faultline/src/internal/fault/classify.go
package fault

import (
	"context"
	"errors"
)

// KindOf returns the kind of the outermost typed error in err's chain.
// Deadline expiry counts as a timeout; anything else untyped is Generic.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindGeneric
}

// KindName is the aggregation key component for err.
func KindName(err error) string {
	return KindOf(err).String()
}

// MessageOf returns the bare message of a typed error, or err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.message
	}
	return err.Error()
}

// CodeOf returns the code of the outermost typed error, or DefaultCode.
func CodeOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.code
	}
	return DefaultCode
}

// IsRetryable is the default retry predicate.
//
// Validation and Configuration errors never retry. RemoteAPI errors retry only
// for 5xx status codes. Timeout, Storage and Generic errors retry. Context
// cancellation never retries.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var typed *Error
	if !errors.As(err, &typed) {
		return true
	}

	switch typed.kind {
	case KindValidation, KindConfiguration:
		return false
	case KindRemoteAPI:
		return typed.statusCode >= 500 && typed.statusCode <= 599
	default:
		return true
	}
}
