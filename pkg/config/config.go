// Package config loads the logging and crash reporting configuration from a
// file and the environment.
package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/wayneeseguin/toolkit/pkg/logsetup"
	"github.com/wayneeseguin/toolkit/pkg/panicreport"
)

// EnvPrefix prefixes environment overrides, e.g. TOOLKIT_LOG_LEVEL=5.
const EnvPrefix = "TOOLKIT"

// Config is the complete toolkit configuration.
type Config struct {
	Log   logsetup.Config    `mapstructure:"log"`
	Panic panicreport.Config `mapstructure:"panic"`
}

// Default returns the configuration used for keys a file does not set.
func Default() *Config {
	return &Config{
		Log:   logsetup.DefaultConfig(),
		Panic: panicreport.DefaultConfig(),
	}
}

// SetDefaults registers every default on v so that partial files and
// environment overrides merge with them.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.size_mb", d.Log.SizeMB)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.keep_day", d.Log.KeepDays)
	v.SetDefault("log.filters", d.Log.Filters)
	v.SetDefault("log.style", d.Log.Style.String())
	v.SetDefault("log.file_name", d.Log.FileName)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("panic.version", d.Panic.Version)
	v.SetDefault("panic.build_time", d.Panic.BuildTime)
	v.SetDefault("panic.exit_on_panic", d.Panic.ExitOnPanic)
	v.SetDefault("panic.crash_output", d.Panic.CrashOutput)
}

// Load reads path (YAML, JSON or TOML by extension) on top of the defaults.
// An empty path yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Log.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid log config")
	}
	return &cfg, nil
}
