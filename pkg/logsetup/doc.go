// Package logsetup turns a Config into a process-wide zap logger.
//
// Lines go to a rotating file under Config.Dir and, optionally, to stdout and
// a NATS subject. Every line starts with a timestamp and the level; the
// Style decides which of module path and source location follow:
//
//	default  2024.01.02 15:04:05.000 [INFO]: started
//	         2024.01.02 15:04:05.000 [WARN] pkg/server.go:42: slow request
//	line     2024.01.02 15:04:05.000 [INFO] pkg/server.go:40: started
//	module   2024.01.02 15:04:05.000 [INFO] [server]: started
//	full     2024.01.02 15:04:05.000 [INFO] [server] pkg/server.go:40: started
//
// Warnings and errors always carry the source location.
//
// Basic usage:
//
//	cfg := logsetup.DefaultConfig()
//	cfg.Style = logsetup.StyleModule
//	if err := logsetup.Setup(cfg); err != nil {
//		fmt.Fprintln(os.Stderr, "log setup err:", err)
//		os.Exit(1)
//	}
//	defer logsetup.Sync()
//
//	logsetup.L().Info("this is an info log")
//	logsetup.Module("db").Debug("connected")
package logsetup
