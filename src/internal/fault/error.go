// FILE: faultline/src/internal/fault/error.go
package fault

import (
	"fmt"
	"maps"
)

// DefaultCode is used when no code is supplied.
const DefaultCode = "UNKNOWN"

// Error is a typed, immutable error value.
type Error struct {
	message    string
	code       string
	kind       Kind
	statusCode int
	context    map[string]any
	cause      error
	stack      Stack
}

// Option customizes an Error during construction.
type Option func(*Error)

// WithCode sets the machine-readable code.
func WithCode(code string) Option {
	return func(e *Error) {
		if code != "" {
			e.code = code
		}
	}
}

// WithKind sets the classification.
func WithKind(kind Kind) Option {
	return func(e *Error) { e.kind = kind }
}

// WithContext adds key/value pairs to the error context. A trailing key
// without a value is stored under "!BADKEY".
func WithContext(kv ...any) Option {
	return func(e *Error) {
		addPairs(e.context, kv)
	}
}

// WithCause records the underlying error.
func WithCause(cause error) Option {
	return func(e *Error) { e.cause = cause }
}

// WithoutStack skips stack capture.
func WithoutStack() Option {
	return func(e *Error) { e.stack = nil }
}

// New builds a typed error. Without options the result is a Generic error with
// code "UNKNOWN".
func New(message string, opts ...Option) *Error {
	e := &Error{
		message: message,
		code:    DefaultCode,
		kind:    KindGeneric,
		context: make(map[string]any),
		stack:   captureStack(1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Storage builds a backing-store error.
func Storage(message string, opts ...Option) *Error {
	return build(KindStorage, message, opts)
}

// Database is Storage under the data-layer name.
func Database(message string, opts ...Option) *Error {
	return build(KindStorage, message, opts)
}

// Validation builds a caller input error.
func Validation(message string, opts ...Option) *Error {
	return build(KindValidation, message, opts)
}

// Configuration builds a configuration error.
func Configuration(message string, opts ...Option) *Error {
	return build(KindConfiguration, message, opts)
}

// Timeout builds an operation timeout error.
func Timeout(message string, opts ...Option) *Error {
	return build(KindTimeout, message, opts)
}

// RemoteAPI builds a remote call error. Its code is always "API_{status}".
func RemoteAPI(message string, statusCode int, opts ...Option) *Error {
	e := build(KindRemoteAPI, message, opts)
	e.statusCode = statusCode
	e.code = fmt.Sprintf("API_%d", statusCode)
	return e
}

func build(kind Kind, message string, opts []Option) *Error {
	e := &Error{
		message: message,
		code:    DefaultCode,
		kind:    kind,
		context: make(map[string]any),
		stack:   captureStack(2),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Kind constructors own the classification
	e.kind = kind
	return e
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the message without any cause text.
func (e *Error) Message() string { return e.message }

func (e *Error) Code() string { return e.code }

func (e *Error) Kind() Kind { return e.kind }

// StatusCode is non-zero only for RemoteAPI errors.
func (e *Error) StatusCode() int { return e.statusCode }

// Context returns a copy of the error context.
func (e *Error) Context() map[string]any {
	return maps.Clone(e.context)
}

// Stack returns the frames captured at construction.
func (e *Error) Stack() Stack { return e.stack }

// With returns a copy of e with one more context pair.
func (e *Error) With(key string, value any) *Error {
	c := e.clone()
	c.context[key] = value
	return c
}

// WithFields returns a copy of e with additional context pairs.
func (e *Error) WithFields(kv ...any) *Error {
	c := e.clone()
	addPairs(c.context, kv)
	return c
}

// Is matches another *Error with the same kind and code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.kind == e.kind && t.code == e.code
}

func (e *Error) clone() *Error {
	c := *e
	c.context = maps.Clone(e.context)
	if c.context == nil {
		c.context = make(map[string]any)
	}
	return &c
}

func addPairs(dst map[string]any, kv []any) {
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		if i+1 >= len(kv) {
			dst["!BADKEY"] = key
			return
		}
		dst[key] = kv[i+1]
	}
}
