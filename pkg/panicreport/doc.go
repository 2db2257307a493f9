// Package panicreport turns the first uncaught panic of a process into a
// durable diagnostic report and then terminates the process predictably.
//
// The reporter is installed once at startup:
//
//	func main() {
//		panicreport.MustInstall(panicreport.Config{
//			Version:     version,
//			BuildTime:   buildTime,
//			ExitOnPanic: true,
//			CrashOutput: true,
//		})
//		defer panicreport.Recover()
//
//		panicreport.Go("worker-1", work)
//		...
//	}
//
// Go has no process-wide panic hook, so faults are intercepted where the
// program defers Recover, starts goroutines through Go, or runs code through
// Guard. With CrashOutput set, panics on goroutines that never reach one of
// those handlers are still copied into the report file by the runtime.
//
// Each report is a block of lines written to stderr and appended to
// panic.log in the working directory, or in os.TempDir when the working
// directory is not writable:
//
//	2024-01-01 10:00:00.000000000 +00:00: panic occurred:-----...-----start-----...-----
//	2024-01-01 10:00:00.000000000 +00:00: app version: 1.2.3
//	2024-01-01 10:00:00.000000000 +00:00: app build date: 2024-01-01
//	...
//	2024-01-01 10:00:00.000000000 +00:00: panic occurred:-----...-----end-----...-----
//
// Only the first fault of the process is reported. Any later fault prints a
// one-line warning and exits with status 1. A fault raised while the report
// is being written only drops the piece that failed; the rest of the report
// is still written.
package panicreport
