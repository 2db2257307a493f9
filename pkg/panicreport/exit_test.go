package panicreport

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const childEnv = "PANICREPORT_TEST_CHILD"

// The child tests run in a re-executed test binary so the real os.Exit path
// is exercised.
func TestChildProcess(t *testing.T) {
	scenario := os.Getenv(childEnv)
	if scenario == "" {
		t.Skip("only runs as a child process")
	}

	switch scenario {
	case "exit":
		MustInstall(Config{Version: "1.2.3", BuildTime: "2024-01-01", ExitOnPanic: true})
		_ = Guard("worker-1", func() { panic("boom") })
	case "continue":
		MustInstall(Config{Version: "1.2.3", BuildTime: "2024-01-01", ExitOnPanic: false})
		_ = Guard("worker-1", func() { panic("boom") })
		os.Stdout.WriteString("still running\n")
		os.Exit(0)
	case "twice":
		MustInstall(Config{Version: "1.2.3", BuildTime: "2024-01-01", ExitOnPanic: false})
		_ = Guard("worker-1", func() { panic("first") })
		_ = Guard("worker-1", func() { panic("second") })
	case "double-install":
		MustInstall(DefaultConfig())
		MustInstall(DefaultConfig())
	}
	os.Exit(3)
}

func runChild(t *testing.T, scenario string) (dir string, stdout, stderr string, code int) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping subprocess test in short mode")
	}

	dir = t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=^TestChildProcess$")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), childEnv+"="+scenario)

	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		code = 0
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
	default:
		t.Fatalf("failed to run child: %v", err)
	}
	return dir, out.String(), errOut.String(), code
}

func TestExitStatusAfterReport(t *testing.T) {
	dir, _, stderrOut, code := runChild(t, "exit")
	if code != 1 {
		t.Fatalf("exit status = %d, want 1\nstderr:\n%s", code, stderrOut)
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportFileName))
	if err != nil {
		t.Fatalf("report not written to working directory: %v", err)
	}
	report := string(data)
	for _, want := range []string{
		"app version: 1.2.3",
		"app build date: 2024-01-01",
		"thread: worker-1",
		"panic info: boom",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if countBlocks(report) != 1 {
		t.Errorf("report contains %d blocks, want 1", countBlocks(report))
	}
}

func TestNoForcedExitWhenDisabled(t *testing.T) {
	dir, stdout, stderrOut, code := runChild(t, "continue")
	if code != 0 {
		t.Fatalf("exit status = %d, want 0\nstderr:\n%s", code, stderrOut)
	}
	if !strings.Contains(stdout, "still running") {
		t.Errorf("process did not continue after the report: %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, ReportFileName)); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestSecondFaultExitStatus(t *testing.T) {
	dir, _, stderrOut, code := runChild(t, "twice")
	if code != 1 {
		t.Fatalf("exit status = %d, want 1", code)
	}
	if !strings.Contains(stderrOut, secondFaultWarning) {
		t.Errorf("stderr missing warning:\n%s", stderrOut)
	}

	data, _ := os.ReadFile(filepath.Join(dir, ReportFileName))
	if countBlocks(string(data)) != 1 {
		t.Errorf("report contains %d blocks, want 1", countBlocks(string(data)))
	}
}

func TestDoubleInstallExitStatus(t *testing.T) {
	_, _, stderrOut, code := runChild(t, "double-install")
	if code != 1 {
		t.Fatalf("exit status = %d, want 1", code)
	}
	if !strings.Contains(stderrOut, ErrAlreadyInstalled.Error()) {
		t.Errorf("stderr missing diagnostic:\n%s", stderrOut)
	}
}
