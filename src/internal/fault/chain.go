// FILE: faultline/src/internal/fault/chain.go
package fault

import (
	"errors"
	"fmt"
	"strings"

	"faultline/src/internal/core"
)

// TruncatedKind marks the final link of a chain that hit the depth cap.
const TruncatedKind = "Truncated"

// Chain walks err and everything it wraps, breadth first, and returns one
// (kind, message) link per error. Joined errors contribute every branch.
// Walks longer than core.MaxChainDepth end with a TruncatedKind link.
func Chain(err error) []core.Link {
	if err == nil {
		return nil
	}

	var links []core.Link
	queue := []error{err}
	for len(queue) > 0 {
		if len(links) == core.MaxChainDepth {
			links = append(links, core.Link{
				Kind:    TruncatedKind,
				Message: fmt.Sprintf("chain truncated after %d errors", core.MaxChainDepth),
			})
			break
		}

		current := queue[0]
		queue = queue[1:]
		links = append(links, core.Link{Kind: TypeName(current), Message: MessageOf(current)})

		switch u := current.(type) {
		case interface{ Unwrap() []error }:
			for _, next := range u.Unwrap() {
				if next != nil {
					queue = append(queue, next)
				}
			}
		default:
			if next := errors.Unwrap(current); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return links
}

// FormatChain renders links as "Kind: message" lines.
func FormatChain(links []core.Link) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, l.Kind+": "+l.Message)
	}
	return strings.Join(lines, "\n")
}

// Trace renders the chain of err followed by the stack of the outermost
// typed error in it, if any.
func Trace(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(FormatChain(Chain(err)))

	var typed *Error
	if errors.As(err, &typed) && len(typed.stack) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(typed.stack.String(), "\n"))
	}
	return b.String()
}

// Describe builds the exception block attached to log events.
func Describe(err error) *core.Exception {
	if err == nil {
		return nil
	}
	chain := Chain(err)
	return &core.Exception{
		Type:    TypeName(err),
		Message: err.Error(),
		Trace:   Trace(err),
		Chain:   chain,
	}
}

// TypeName names the concrete error for exception blocks: the kind for typed
// errors and the Go type otherwise.
func TypeName(err error) string {
	if e, ok := err.(*Error); ok {
		return e.kind.String() + "Error"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
