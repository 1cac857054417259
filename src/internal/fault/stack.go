// FILE: faultline/src/internal/fault/stack.go
package fault

import (
	"fmt"
	"runtime"
	"strings"

	"faultline/src/internal/core"
)

// Frame is a single resolved call site.
type Frame struct {
	Function string
	File     string
	Line     int
}

// Stack lists frames from the innermost call outward.
type Stack []Frame

// captureStack records the caller's stack. skip counts frames above the
// function calling captureStack.
func captureStack(skip int) Stack {
	pc := make([]uintptr, core.MaxStackDepth)
	// +2 for runtime.Callers and captureStack
	n := runtime.Callers(skip+2, pc)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])
	out := make(Stack, 0, n)
	for {
		fr, more := frames.Next()
		if fr.Function != "" && !strings.HasPrefix(fr.Function, "runtime.") {
			out = append(out, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
		}
		if !more {
			break
		}
	}
	return out
}

// String renders the stack one frame per two lines, innermost first.
func (s Stack) String() string {
	var b strings.Builder
	for _, f := range s {
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
	}
	return b.String()
}
