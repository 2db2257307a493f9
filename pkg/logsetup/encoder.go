package logsetup

import (
	"strconv"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/wayneeseguin/toolkit/pkg/timefmt"
)

const unnamed = "<unnamed>"

var bufferPool = buffer.NewPool()

// prefixFunc writes everything in front of the message, including the
// trailing ": ".
type prefixFunc func(buf *buffer.Buffer, ent zapcore.Entry)

// prefixFor resolves a Style once, at setup time.
func prefixFor(style Style) prefixFunc {
	switch style {
	case StyleLine:
		return linePrefix
	case StyleModule:
		return modulePrefix
	case StyleFull:
		return fullPrefix
	default:
		return defaultPrefix
	}
}

func defaultPrefix(buf *buffer.Buffer, ent zapcore.Entry) {
	if ent.Level >= zapcore.WarnLevel {
		linePrefix(buf, ent)
		return
	}
	appendTimeLevel(buf, ent)
	buf.AppendString(": ")
}

func linePrefix(buf *buffer.Buffer, ent zapcore.Entry) {
	appendTimeLevel(buf, ent)
	buf.AppendByte(' ')
	appendCaller(buf, ent)
	buf.AppendString(": ")
}

func modulePrefix(buf *buffer.Buffer, ent zapcore.Entry) {
	if ent.Level >= zapcore.WarnLevel {
		fullPrefix(buf, ent)
		return
	}
	appendTimeLevel(buf, ent)
	buf.AppendString(" [")
	buf.AppendString(moduleOf(ent))
	buf.AppendString("]: ")
}

func fullPrefix(buf *buffer.Buffer, ent zapcore.Entry) {
	appendTimeLevel(buf, ent)
	buf.AppendString(" [")
	buf.AppendString(moduleOf(ent))
	buf.AppendString("] ")
	appendCaller(buf, ent)
	buf.AppendString(": ")
}

func appendTimeLevel(buf *buffer.Buffer, ent zapcore.Entry) {
	buf.AppendString(timefmt.Format(ent.Time, timefmt.LogTimeLayout))
	buf.AppendString(" [")
	buf.AppendString(levelName(ent.Level))
	buf.AppendByte(']')
}

func appendCaller(buf *buffer.Buffer, ent zapcore.Entry) {
	if !ent.Caller.Defined {
		buf.AppendString(unnamed)
		buf.AppendString(":0")
		return
	}
	buf.AppendString(trimFile(ent.Caller.File))
	buf.AppendByte(':')
	buf.AppendString(strconv.Itoa(ent.Caller.Line))
}

// trimFile keeps the last directory and the file name.
func trimFile(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx == -1 {
		return path
	}
	idx = strings.LastIndexByte(path[:idx], '/')
	if idx == -1 {
		return path
	}
	return path[idx+1:]
}

// moduleOf is the logger name or, for unnamed loggers, the caller's package.
func moduleOf(ent zapcore.Entry) string {
	if ent.LoggerName != "" {
		return ent.LoggerName
	}
	if pkg := packageOf(ent.Caller.Function); pkg != "" {
		return pkg
	}
	return unnamed
}

// packageOf extracts the import path from a fully qualified function name
// such as "github.com/org/repo/pkg.(*T).Method".
func packageOf(function string) string {
	if function == "" {
		return ""
	}
	slash := strings.LastIndexByte(function, '/')
	dot := strings.IndexByte(function[slash+1:], '.')
	if dot == -1 {
		return function
	}
	return function[:slash+1+dot]
}

// lineEncoder prefixes zap's console output (message plus JSON fields) with
// the style's context.
type lineEncoder struct {
	zapcore.Encoder
	prefix prefixFunc
}

func newLineEncoder(style Style) zapcore.Encoder {
	return &lineEncoder{
		Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			LineEnding:       zapcore.DefaultLineEnding,
			EncodeTime:       zapcore.ISO8601TimeEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		}),
		prefix: prefixFor(style),
	}
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	return &lineEncoder{Encoder: e.Encoder.Clone(), prefix: e.prefix}
}

func (e *lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	body, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	line := bufferPool.Get()
	e.prefix(line, ent)
	_, _ = line.Write(body.Bytes())
	return line, nil
}
