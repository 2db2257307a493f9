package logsetup

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// moduleFilterCore pins the configured modules to warn and above, whatever
// the global level. The inner core is opened to warn so those entries pass
// even when the global level is error; Write then applies the global level
// to every other module. The decision is made in Write because the caller,
// and with it the package of unnamed loggers, is only known after Check.
type moduleFilterCore struct {
	zapcore.Core
	level   zapcore.LevelEnabler
	modules []string
}

// newCore builds the io core, wrapped in a moduleFilterCore when modules
// holds at least one non-blank name.
func newCore(enc zapcore.Encoder, out zapcore.WriteSyncer, level zapcore.LevelEnabler, modules []string) zapcore.Core {
	var cleaned []string
	for _, m := range modules {
		if m = strings.TrimSpace(m); m != "" {
			cleaned = append(cleaned, m)
		}
	}
	if len(cleaned) == 0 {
		return zapcore.NewCore(enc, out, level)
	}

	open := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel || level.Enabled(l)
	})
	return &moduleFilterCore{
		Core:    zapcore.NewCore(enc, out, open),
		level:   level,
		modules: cleaned,
	}
}

func (c *moduleFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &moduleFilterCore{Core: c.Core.With(fields), level: c.level, modules: c.modules}
}

func (c *moduleFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *moduleFilterCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if c.filtered(moduleOf(ent)) {
		if ent.Level < zapcore.WarnLevel {
			return nil
		}
	} else if !c.level.Enabled(ent.Level) {
		return nil
	}
	return c.Core.Write(ent, fields)
}

// filtered matches a module exactly or as a path or name prefix, so "db"
// also covers "db.pool" and "github.com/x/db" covers "github.com/x/db/sql".
func (c *moduleFilterCore) filtered(module string) bool {
	for _, m := range c.modules {
		if module == m {
			return true
		}
		if strings.HasPrefix(module, m) {
			switch module[len(m)] {
			case '/', '.':
				return true
			}
		}
	}
	return false
}
