package panicreport

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/wayneeseguin/toolkit/internal/sysinfo"
)

// ReportFileName is the name of the report file in every candidate directory.
const ReportFileName = "panic.log"

var (
	// ErrAlreadyInstalled is returned by Install when a configuration has
	// already been stored for this process.
	ErrAlreadyInstalled = errors.New("panic report config already installed")

	// ErrNotInstalled is reported when a fault is handled before Install.
	ErrNotInstalled = errors.New("panic report config not installed")

	// ErrPanicked is the cause of errors returned by Guard.
	ErrPanicked = errors.New("panicked")
)

// Config is the process-wide crash reporter configuration. It is immutable
// once installed.
type Config struct {
	// Version is the application version label written to every report.
	Version string `mapstructure:"version" json:"version" yaml:"version"`

	// BuildTime is the build label written to every report.
	BuildTime string `mapstructure:"build_time" json:"build_time" yaml:"build_time"`

	// ExitOnPanic terminates the process with status 1 once the report is
	// written. When false the panic is swallowed by the handler.
	ExitOnPanic bool `mapstructure:"exit_on_panic" json:"exit_on_panic" yaml:"exit_on_panic"`

	// CrashOutput also sends the runtime's fatal crash output (panics on
	// goroutines without a handler, fatal errors) to the report file. The
	// file is opened by Install, so it exists, possibly empty, from startup
	// on even if the process never faults.
	CrashOutput bool `mapstructure:"crash_output" json:"crash_output" yaml:"crash_output"`
}

// DefaultConfig returns the configuration used when the application does not
// provide its own labels.
func DefaultConfig() Config {
	return Config{
		Version:     "0.0.1",
		BuildTime:   "2023-05-01",
		ExitOnPanic: true,
		CrashOutput: true,
	}
}

// Process-wide state. installed is written once; faults counts every fault
// seen by any goroutine, before or after installation.
var (
	installed atomic.Pointer[reporter]
	faults    atomic.Uint32
)

// Indirections for tests.
var (
	exit           = os.Exit
	stderr         io.Writer = os.Stderr
	candidatePaths           = defaultCandidatePaths
	describeHost             = sysinfo.Describe
)

func defaultCandidatePaths() []string {
	return []string{
		ReportFileName,
		filepath.Join(os.TempDir(), ReportFileName),
	}
}

// Install stores cfg as the process-wide crash reporter configuration.
//
// The configuration can be written exactly once. A second call leaves the
// first configuration in place and returns ErrAlreadyInstalled.
//
// Host details for the report are collected here so that the fault path
// never queries the system.
func Install(cfg Config) error {
	r := newReporter(cfg)
	if !installed.CompareAndSwap(nil, r) {
		return ErrAlreadyInstalled
	}

	if cfg.CrashOutput {
		r.redirectCrashOutput()
	}
	return nil
}

// MustInstall is like Install but treats a second installation as a
// programming error and aborts the process with status 1.
func MustInstall(cfg Config) {
	if err := Install(cfg); err != nil {
		fmt.Fprintf(stderr, "panicreport: %v\n", err)
		exit(1)
	}
}

// Installed returns the stored configuration and whether Install has run.
func Installed() (Config, bool) {
	r := installed.Load()
	if r == nil {
		return Config{}, false
	}
	return r.cfg, true
}

func newReporter(cfg Config) *reporter {
	r := &reporter{
		cfg:        cfg,
		candidates: candidatePaths(),
		stack:      debug.Stack,
	}
	if detail, err := describeHost(); err == nil {
		r.hostDetail = detail
	}
	return r
}

// redirectCrashOutput is best-effort: a reporter without crash output still
// reports every fault that reaches a handler.
func (r *reporter) redirectCrashOutput() {
	f, _ := openDestination(r.candidates)
	if f == nil {
		return
	}
	// SetCrashOutput duplicates the descriptor.
	_ = debug.SetCrashOutput(f, debug.CrashOptions{})
	_ = f.Close()
}
