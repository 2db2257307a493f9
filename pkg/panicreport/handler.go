package panicreport

import (
	"fmt"
	"runtime/debug"

	"github.com/pkg/errors"
)

const secondFaultWarning = "panic happened more than once, exit immediately"

// Recover reports a panic on the current goroutine. It must be deferred
// directly:
//
//	defer panicreport.Recover()
func Recover() {
	if v := recover(); v != nil {
		handle(v, "")
	}
}

// Go runs fn on a new goroutine whose panics are reported under name.
func Go(name string, fn func()) {
	go func() {
		defer recoverAs(name)
		fn()
	}()
}

func recoverAs(name string) {
	if v := recover(); v != nil {
		handle(v, name)
	}
}

// Guard runs fn on the current goroutine under the crash reporter and
// reports a panic under name.
//
// When the installed configuration exits on panic, Guard does not return
// after a panic. Otherwise the returned error wraps ErrPanicked and carries
// the panic message.
func Guard(name string, fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			handle(v, name)
			err = errors.Wrap(ErrPanicked, Message(v))
		}
	}()

	fn()
	return nil
}

// handle runs the fault protocol. Only the counter guard and the final exit
// may stop the process; everything in between degrades piece by piece.
func handle(v any, thread string) {
	if faults.Add(1) > 1 {
		fmt.Fprintln(stderr, secondFaultWarning)
		exit(1)
		return
	}

	r := installed.Load()
	if r == nil {
		fmt.Fprintf(stderr, "panicreport: %v: fault before Install: %s\n%s", ErrNotInstalled, safeMessage(v), debug.Stack())
		exit(1)
		return
	}

	r.report(v, thread, panicLocation())

	if r.cfg.ExitOnPanic {
		exit(1)
	}
}

// safely runs fn and swallows any panic it raises.
func safely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func safeMessage(v any) string {
	msg := UnknownPanicInfo
	safely(func() { msg = Message(v) })
	return msg
}
