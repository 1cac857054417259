// Package fault defines the typed error values the pipeline classifies, routes
// and reports.
//
// An *Error carries a message, a machine-readable code and structured context,
// plus a Kind from a closed taxonomy:
//
//   - Generic: anything not otherwise classified
//   - Storage: backing-store failures
//   - Validation: caller input failures, never retried
//   - RemoteAPI: carries an HTTP-style status code, retried only for 5xx
//   - Configuration: fatal at startup, never retried
//   - Timeout: always retryable while attempts remain
//
// Values are immutable once constructed. The With* methods return a copy, so a
// single error may be shared by the aggregator and several sinks at once.
//
// Errors from outside this package are classified as Generic; the helpers
// KindName, MessageOf, CodeOf and IsRetryable accept any error.
package fault
