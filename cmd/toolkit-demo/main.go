// Command toolkit-demo installs the crash reporter, sets up logging from a
// config file and writes a line at every level. With --panic it then fails
// on purpose so the report can be inspected in panic.log.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wayneeseguin/toolkit/pkg/config"
	"github.com/wayneeseguin/toolkit/pkg/lifecycle"
	"github.com/wayneeseguin/toolkit/pkg/logsetup"
	"github.com/wayneeseguin/toolkit/pkg/panicreport"
)

var (
	configPath string
	doPanic    bool
	inWorker   bool
	exitAfter  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "toolkit-demo",
	Short: "Exercise the crash reporter and logging setup",
	Long: `toolkit-demo loads a log/panic configuration, installs the crash reporter,
initializes logging and emits one line per level. Use --panic to trigger a
deliberate fault and produce a crash report.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.Flags().BoolVar(&doPanic, "panic", false, "panic after logging")
	rootCmd.Flags().BoolVar(&inWorker, "worker", false, "panic inside a named worker goroutine")
	rootCmd.Flags().DurationVar(&exitAfter, "exit-after", 0, "schedule a process exit after this long")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	panicreport.MustInstall(cfg.Panic)
	defer panicreport.Recover()

	if err := logsetup.Setup(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, "log setup err:", err)
		os.Exit(1)
	}
	defer logsetup.Sync()

	logger := logsetup.L()
	logger.Error("this is an error", zap.Int("level", int(logsetup.LevelError)))
	logger.Warn("this is a warning", zap.Int("level", int(logsetup.LevelWarn)))
	logger.Info("this is info", zap.Int("level", int(logsetup.LevelInfo)))
	logger.Debug("this is debug", zap.Int("level", int(logsetup.LevelDebug)))
	logsetup.Trace(logger, "this is trace", zap.Int("level", int(logsetup.LevelTrace)))

	logsetup.Module("demo/worker").Info("module logger", zap.Strings("filters", cfg.Log.Filters))

	if exitAfter > 0 {
		<-lifecycle.ExitAfter(cmd.Context(), logger, exitAfter)
	}

	switch {
	case inWorker:
		<-startWorker()
	case doPanic:
		panic("deliberate panic from toolkit-demo")
	}
	return nil
}

// startWorker faults on a named goroutine. The returned channel is closed
// only after the crash reporter has finished with the fault.
func startWorker() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = panicreport.Guard("worker", func() {
			var m map[string]int
			m["boom"]++
		})
	}()
	return done
}
