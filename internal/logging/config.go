package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "COPYPROFILE_LOG_LEVEL"
	EnvLogTimestamp = "COPYPROFILE_LOG_TIMESTAMP"
	EnvLogNoColor   = "COPYPROFILE_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type config struct {
	level     zerolog.Level
	timestamp bool
	noColor   bool
}

var configureOnce sync.Once

// ConfigureRuntime sets up diagnostics on stderr, colored only if stderr is a terminal.
func ConfigureRuntime(interactive bool) {
	Configure(ProfileRuntime, os.Stderr, interactive)
}

func ConfigureTests() {
	Configure(ProfileTest, os.Stderr, false)
}

// Configure installs the global logger once per process, later calls are no-ops.
func Configure(profile Profile, out io.Writer, colored bool) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		cfg.noColor = !colored
		applyEnvOverrides(&cfg)
		zerolog.SetGlobalLevel(cfg.level)
		log.Logger = newLogger(cfg, out)
	})
}

func newLogger(cfg config, out io.Writer) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: out, NoColor: cfg.noColor, TimeFormat: time.RFC3339}
	if !cfg.timestamp {
		writer.PartsExclude = []string{zerolog.TimestampFieldName}
		return zerolog.New(writer)
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{level: zerolog.DebugLevel, timestamp: false}
	default:
		return config{level: zerolog.WarnLevel, timestamp: true}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.noColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
