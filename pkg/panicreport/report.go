package panicreport

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/wayneeseguin/toolkit/pkg/timefmt"
)

const (
	startMarker = "panic occurred:-----------------------------start-----------------------------"
	endMarker   = "panic occurred:-----------------------------end-----------------------------\n\n"

	noFile        = "<no file>"
	unnamedThread = "<unnamed>"
)

// reporter holds everything a report needs that is known before the fault.
type reporter struct {
	cfg        Config
	hostDetail string
	candidates []string
	stack      func() []byte
}

// reportWriter writes each line to stderr and, when open, the report file.
// Write errors are dropped.
type reportWriter struct {
	stderr io.Writer
	file   *os.File
}

func (w *reportWriter) line(s string) {
	safely(func() {
		content := timefmt.Format(time.Now(), timefmt.ReportTimeLayout) + ": " + s + "\n"
		if w.stderr != nil {
			_, _ = io.WriteString(w.stderr, content)
		}
		if w.file != nil {
			_, _ = w.file.WriteString(content)
		}
	})
}

func (r *reporter) report(v any, thread, location string) {
	msg := safeMessage(v)

	var (
		file *os.File
		path string
	)
	safely(func() { file, path = openDestination(r.candidates) })
	if file != nil {
		defer func() { _ = file.Close() }()
	}
	if path == "" {
		path = noFile
	}
	if thread == "" {
		thread = unnamedThread
	}

	w := &reportWriter{stderr: stderr, file: file}
	w.line(startMarker)
	w.line("app version: " + r.cfg.Version)
	w.line("app build date: " + r.cfg.BuildTime)
	w.line("os version: " + r.osVersion())
	w.line("arch: " + runtime.GOARCH)
	w.line("panic is recorded in: " + path)
	w.line("thread: " + thread)
	w.line("time: " + timefmt.Format(time.Now(), timefmt.ReportTimeLayout))
	w.line("location: " + location)
	w.line("panic info: " + msg)

	// Trace capture is the step most likely to fail, so it runs after every
	// other field is on disk.
	safely(func() { w.line("backtrace: " + string(r.stack())) })
	w.line(endMarker)
}

func (r *reporter) osVersion() string {
	if r.hostDetail == "" {
		return runtime.GOOS
	}
	return runtime.GOOS + " (" + r.hostDetail + ")"
}
