package panicreport

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writers in these tests.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// exitRecorder replaces os.Exit.
type exitRecorder struct {
	mu    sync.Mutex
	codes []int
	fired chan int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	e.codes = append(e.codes, code)
	e.mu.Unlock()
	select {
	case e.fired <- code:
	default:
	}
}

func (e *exitRecorder) Codes() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int(nil), e.codes...)
}

type harness struct {
	stderr *syncBuffer
	exits  *exitRecorder
	dir    string
}

func (h *harness) primary() string { return filepath.Join(h.dir, ReportFileName) }

func (h *harness) readReport(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report %s: %v", path, err)
	}
	return string(data)
}

// newHarness resets the process-wide state and points the reporter at a
// temporary directory.
func newHarness(t *testing.T, candidates ...string) *harness {
	t.Helper()

	h := &harness{
		stderr: &syncBuffer{},
		exits:  &exitRecorder{fired: make(chan int, 4)},
		dir:    t.TempDir(),
	}
	if len(candidates) == 0 {
		candidates = []string{h.primary()}
	}

	oldExit, oldStderr, oldCandidates, oldDescribe := exit, stderr, candidatePaths, describeHost
	exit = h.exits.exit
	stderr = h.stderr
	candidatePaths = func() []string { return candidates }
	describeHost = func() (string, error) { return "testos 1.0, kernel 1.0", nil }
	installed.Store(nil)
	faults.Store(0)

	t.Cleanup(func() {
		exit, stderr, candidatePaths, describeHost = oldExit, oldStderr, oldCandidates, oldDescribe
		installed.Store(nil)
		faults.Store(0)
	})
	return h
}

func testConfig(exitOnPanic bool) Config {
	return Config{Version: "1.2.3", BuildTime: "2024-01-01", ExitOnPanic: exitOnPanic}
}

func mustInstall(t *testing.T, cfg Config) {
	t.Helper()
	if err := Install(cfg); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
}

func countBlocks(report string) int {
	return strings.Count(report, startMarker)
}
