// Package lifecycle schedules delayed process exits and host reboots, for
// supervisors that restart the application or the machine after a fatal
// condition.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Indirections for tests.
var (
	exit       = os.Exit
	runCommand = func(ctx context.Context, name string, args ...string) error {
		return exec.CommandContext(ctx, name, args...).Run()
	}
	goos = runtime.GOOS
)

// ErrRebootUnsupported is logged when the platform has no reboot command.
var ErrRebootUnsupported = errors.New("automatic reboot is only supported on linux")

// ExitAfter exits the process with status 1 once d has elapsed, so that a
// supervisor restarts it. It returns immediately; the returned channel is
// closed when the timer fired or ctx was cancelled first.
func ExitAfter(ctx context.Context, logger *zap.Logger, d time.Duration) <-chan struct{} {
	logger.Info(fmt.Sprintf("process exiting, restart in %d seconds", int(d.Seconds())))
	return after(ctx, d, func() {
		_ = logger.Sync()
		exit(1)
	})
}

// RebootAfter reboots the host once d has elapsed. Only linux is supported;
// elsewhere a warning is logged and nothing is scheduled.
func RebootAfter(ctx context.Context, logger *zap.Logger, d time.Duration) <-chan struct{} {
	if goos != "linux" {
		logger.Warn("reboot not scheduled", zap.Error(ErrRebootUnsupported), zap.Duration("after", d))
		done := make(chan struct{})
		close(done)
		return done
	}

	logger.Info("host reboot scheduled", zap.Duration("after", d))
	return after(ctx, d, func() {
		if err := runCommand(ctx, "reboot"); err != nil {
			logger.Error("host reboot failed", zap.Error(err))
			return
		}
		logger.Info("host reboot issued")
	})
}

func after(ctx context.Context, d time.Duration, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			fn()
		}
	}()
	return done
}
