package panicreport

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	unknownLocation = "<unknown location>"
	maxFrames       = 64
)

// panicLocation returns file:line of the code that raised the panic currently
// being handled. It must run synchronously inside a deferred call, while
// runtime.gopanic is still on the stack.
func panicLocation() string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	inPanic := false
	for {
		frame, more := frames.Next()
		switch {
		case frame.Function == "runtime.gopanic":
			inPanic = true
		case inPanic && !strings.HasPrefix(frame.Function, "runtime."):
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return unknownLocation
		}
	}
}
