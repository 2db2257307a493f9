package logsetup

import (
	"strings"

	"github.com/pkg/errors"
)

// Style selects which context is printed in front of each message.
type Style int

const (
	// StyleDefault prints time and level; warnings and errors add file:line.
	StyleDefault Style = iota
	// StyleLine always prints file:line.
	StyleLine
	// StyleModule prints the module path.
	StyleModule
	// StyleFull prints module path and file:line.
	StyleFull
)

var styleNames = map[Style]string{
	StyleDefault: "default",
	StyleLine:    "line",
	StyleModule:  "module",
	StyleFull:    "full",
}

// String returns the lower-case style name.
func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStyle parses a style name, ignoring case.
func ParseStyle(name string) (Style, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return StyleDefault, nil
	}
	for style, n := range styleNames {
		if n == lower {
			return style, nil
		}
	}
	return StyleDefault, errors.Errorf("unknown log style %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	style, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = style
	return nil
}

// NATSConfig mirrors every log line to a NATS subject.
type NATSConfig struct {
	URL     string `mapstructure:"url" json:"url" yaml:"url"`
	Subject string `mapstructure:"subject" json:"subject" yaml:"subject"`
	// Name identifies this client to the server.
	Name string `mapstructure:"name" json:"name" yaml:"name"`
}

// Config describes the logging pipeline.
type Config struct {
	// Level is 1 error, 2 warn, 3 info, 4 debug or 5 trace. Any other value
	// means debug.
	Level uint8 `mapstructure:"level" json:"level" yaml:"level"`
	// SizeMB is the size in megabytes at which the active file is rotated.
	SizeMB uint64 `mapstructure:"size_mb" json:"size_mb" yaml:"size_mb"`
	// Console mirrors every line to stdout.
	Console bool `mapstructure:"console" json:"console" yaml:"console"`
	// Dir is the log directory. It is created when missing.
	Dir string `mapstructure:"dir" json:"dir" yaml:"dir"`
	// KeepDays is how long rotated files are kept.
	KeepDays int `mapstructure:"keep_day" json:"keep_day" yaml:"keep_day"`
	// Filters lists modules that only log warnings and errors.
	Filters []string `mapstructure:"filters" json:"filters" yaml:"filters"`
	Style   Style    `mapstructure:"style" json:"style" yaml:"style"`
	// FileName is the active file inside Dir.
	FileName string `mapstructure:"file_name" json:"file_name" yaml:"file_name"`
	// Compress gzips rotated files.
	Compress bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	NATS     *NATSConfig `mapstructure:"nats" json:"nats" yaml:"nats"`
}

// Defaults for Config fields.
const (
	DefaultLevel    uint8  = 4
	DefaultSizeMB   uint64 = 3
	DefaultDir             = "./logs"
	DefaultKeepDays        = 3
	DefaultFileName        = "app.log"
)

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		Level:    DefaultLevel,
		SizeMB:   DefaultSizeMB,
		Console:  true,
		Dir:      DefaultDir,
		KeepDays: DefaultKeepDays,
		Style:    StyleDefault,
		FileName: DefaultFileName,
	}
}

// Validate reports configuration values no backend can work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return errors.New("log dir must not be empty")
	}
	if c.KeepDays < 0 {
		return errors.Errorf("keep_day must not be negative, got %d", c.KeepDays)
	}
	if _, ok := styleNames[c.Style]; !ok {
		return errors.Errorf("unknown log style %d", int(c.Style))
	}
	if c.NATS != nil {
		if c.NATS.URL == "" {
			return errors.New("nats url must not be empty")
		}
		if c.NATS.Subject == "" {
			return errors.New("nats subject must not be empty")
		}
	}
	return nil
}

func (c Config) fileName() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}
