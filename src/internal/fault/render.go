// FILE: faultline/src/internal/fault/render.go
package fault

import (
	"fmt"
	"sort"
	"strings"

	"faultline/src/internal/core"
)

// Render builds the log event for e at the given severity. The message is
// "[{code}] {message}", followed by " | Context: {...}" when context is set.
// The event carries e as its exception and the caller of Render as its source.
func (e *Error) Render(sev core.Severity, logger string) core.LogEvent {
	msg := fmt.Sprintf("[%s] %s", e.code, e.message)
	if len(e.context) > 0 {
		msg += " | Context: " + FormatContext(e.context)
	}

	ev := core.NewEvent(sev, logger, msg)
	ev.Source = core.Caller(1)
	ev.Exception = Describe(e)
	return ev
}

// FormatContext renders a context map as {k: v, ...} with sorted keys.
func FormatContext(ctx map[string]any) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, ctx[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
