package logsetup

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

type consoleBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *consoleBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *consoleBuffer) Sync() error { return nil }

func (b *consoleBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testConfig logs into a temporary directory and captures the console.
func testConfig(t *testing.T) (Config, *consoleBuffer) {
	t.Helper()

	console := &consoleBuffer{}
	old := consoleOut
	consoleOut = console
	t.Cleanup(func() { consoleOut = old })

	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	return cfg, console
}

func newTestLogger(t *testing.T, cfg Config) *Logger {
	t.Helper()
	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func containsLine(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
