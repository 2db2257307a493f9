// Package testing gates tests that need external services.
package testing

import (
	"os"
	"testing"
)

// Environment variables consulted by the helpers.
const (
	IntegrationEnv = "TOOLKIT_RUN_INTEGRATION_TESTS"
	NATSURLEnv     = "TOOLKIT_NATS_URL"
)

// Unit reports whether only self-contained tests should run. It is the
// default unless TOOLKIT_RUN_INTEGRATION_TESTS=true and -short is not set.
func Unit() bool {
	if testing.Short() {
		return true
	}
	return os.Getenv(IntegrationEnv) != "true"
}

// Integration is the inverse of Unit.
func Integration() bool {
	return !Unit()
}

// SkipIfUnit skips t in unit mode.
func SkipIfUnit(t testing.TB, message ...string) {
	t.Helper()
	if Unit() {
		msg := "skipping integration test in unit mode"
		if len(message) > 0 {
			msg = message[0]
		}
		t.Skip(msg)
	}
}

// NATSURL returns the NATS server to test against, skipping t when
// integration tests are off or no server is configured.
func NATSURL(t testing.TB) string {
	t.Helper()
	SkipIfUnit(t)
	url := os.Getenv(NATSURLEnv)
	if url == "" {
		t.Skip(NATSURLEnv + " not set")
	}
	return url
}
