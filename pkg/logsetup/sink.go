package logsetup

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const dayLayout = "2006.01.02"

// fileSink writes to a lumberjack-rotated file. Files roll over on size, on
// the first write of a new day, and are removed after KeepDays. Each write
// holds an flock on "<file>.lock" so several processes can share a file;
// rotation itself is per process.
type fileSink struct {
	mu   sync.Mutex
	out  *lumberjack.Logger
	lock *flock.Flock
	day  string
	now  func() time.Time
}

func newFileSink(cfg Config) (*fileSink, error) {
	// #nosec G301 - log directories need to be accessible by other processes
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, &SetupError{Op: "create log directory", Err: err}
	}

	path := filepath.Join(filepath.Clean(cfg.Dir), cfg.fileName())
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, &SetupError{Op: "lock log file", Err: err}
	}

	var day string
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		day = info.ModTime().Format(dayLayout)
	}
	// lumberjack truncates files it creates itself; creating the file here
	// makes every process open it in append mode.
	err := touch(path)
	_ = lock.Unlock()
	if err != nil {
		return nil, &SetupError{Op: "open log file", Err: err}
	}

	s := &fileSink{
		out: &lumberjack.Logger{
			Filename:  path,
			MaxSize:   int(cfg.SizeMB),
			MaxAge:    cfg.KeepDays,
			LocalTime: true,
			Compress:  cfg.Compress,
		},
		lock: lock,
		day:  day,
		now:  time.Now,
	}
	return s, nil
}

func touch(path string) error {
	// #nosec G302 - log files need to be readable
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return 0, errors.Wrap(err, "acquire log file lock")
	}
	defer func() {
		_ = s.lock.Unlock() // Best effort unlock
	}()

	if day := s.now().Format(dayLayout); day != s.day {
		if s.day != "" {
			if err := s.out.Rotate(); err != nil {
				return 0, errors.Wrap(err, "daily rotation")
			}
		}
		s.day = day
	}
	return s.out.Write(p)
}

// Sync is a no-op: lumberjack writes straight to the file.
func (s *fileSink) Sync() error {
	return nil
}

func (s *fileSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Rotate()
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.out.Close()
	if cerr := s.lock.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return errors.Wrap(err, "close log file")
}

func (s *fileSink) path() string {
	return s.out.Filename
}
