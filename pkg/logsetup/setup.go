package logsetup

import (
	"io"
	"os"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// consoleOut is replaced in tests.
var consoleOut zapcore.WriteSyncer = os.Stdout

// Logger is a zap logger together with the sinks it owns.
type Logger struct {
	zl      *zap.Logger
	level   zap.AtomicLevel
	file    *fileSink
	closers []io.Closer
}

// New builds the logging pipeline described by cfg without touching the
// process-wide logger.
func New(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &SetupError{Op: "validate config", Err: err}
	}

	file, err := newFileSink(cfg)
	if err != nil {
		return nil, err
	}
	l := &Logger{
		level:   zap.NewAtomicLevelAt(ZapLevel(cfg.Level)),
		file:    file,
		closers: []io.Closer{file},
	}

	syncers := []zapcore.WriteSyncer{file}
	if cfg.Console {
		syncers = append(syncers, zapcore.Lock(consoleOut))
	}
	if cfg.NATS != nil {
		ns, err := newNATSSink(*cfg.NATS)
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		syncers = append(syncers, ns)
		l.closers = append(l.closers, ns)
	}

	core := newCore(newLineEncoder(cfg.Style), zapcore.NewMultiWriteSyncer(syncers...), l.level, cfg.Filters)
	l.zl = zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	return l, nil
}

// Zap returns the underlying logger.
func (l *Logger) Zap() *zap.Logger { return l.zl }

// Sugar returns a printf-style view of the logger.
func (l *Logger) Sugar() *zap.SugaredLogger { return l.zl.Sugar() }

// Module returns a logger whose lines carry name as module path.
func (l *Logger) Module(name string) *zap.Logger { return l.zl.Named(name) }

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level uint8) { l.level.SetLevel(ZapLevel(level)) }

// Path returns the active log file.
func (l *Logger) Path() string { return l.file.path() }

// Rotate forces a rotation of the log file.
func (l *Logger) Rotate() error { return l.file.Rotate() }

// Sync flushes every sink.
func (l *Logger) Sync() error { return l.zl.Sync() }

// Close flushes and closes every sink.
func (l *Logger) Close() error {
	var err error
	if l.zl != nil {
		err = multierr.Append(err, l.zl.Sync())
	}
	for _, c := range l.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

var (
	globalMu     sync.Mutex
	global       *Logger
	restoreStd   func()
	restoreZapGl func()
)

// Setup builds the pipeline and installs it as the process-wide logger:
// zap.L(), zap.S() and the standard library's log package all write through
// it afterwards. Setup can succeed only once per process.
func Setup(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return ErrAlreadyInitialized
	}

	l, err := New(cfg)
	if err != nil {
		return err
	}
	global = l
	restoreZapGl = zap.ReplaceGlobals(l.zl)
	restoreStd = zap.RedirectStdLog(l.zl)
	return nil
}

// L returns the process-wide logger. Before Setup it is zap's no-op logger.
func L() *zap.Logger { return zap.L() }

// Module returns the process-wide logger named after a module.
func Module(name string) *zap.Logger { return zap.L().Named(name) }

// Trace logs at TraceLevel, which zap has no method for.
func Trace(l *zap.Logger, msg string, fields ...zap.Field) {
	if ce := l.WithOptions(zap.AddCallerSkip(1)).Check(TraceLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Sync flushes the process-wide logger.
func Sync() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		return nil
	}
	return global.Sync()
}

// Shutdown closes the process-wide logger and restores zap's globals. Setup
// may be called again afterwards.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return nil
	}
	restoreStd()
	restoreZapGl()
	err := global.Close()
	global = nil
	return err
}
