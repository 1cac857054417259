// FILE: faultline/src/internal/core/severity.go
package core

import (
	"fmt"
	"strings"
)

// Severity is the ordered urgency tier of a log event or recorded error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

var severityNames = [...]string{
	SeverityDebug:    "DEBUG",
	SeverityInfo:     "INFO",
	SeverityWarning:  "WARNING",
	SeverityError:    "ERROR",
	SeverityCritical: "CRITICAL",
}

// Severities lists every level from lowest to highest.
func Severities() []Severity {
	return []Severity{SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
}

func (s Severity) String() string {
	if s.Valid() {
		return severityNames[s]
	}
	return fmt.Sprintf("LEVEL(%d)", int(s))
}

// Valid reports whether s is one of the five defined levels.
func (s Severity) Valid() bool {
	return s >= SeverityDebug && s <= SeverityCritical
}

// AtLeast reports whether s meets the threshold min.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// Reportable reports whether the aggregator accepts records at this level.
func (s Severity) Reportable() bool {
	return s >= SeverityWarning && s <= SeverityCritical
}

// ParseSeverity accepts level names case-insensitively, including the
// common short forms "warn", "err" and "crit".
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return SeverityDebug, nil
	case "INFO", "":
		return SeverityInfo, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR", "ERR":
		return SeverityError, nil
	case "CRITICAL", "CRIT", "FATAL":
		return SeverityCritical, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity: %s", name)
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
