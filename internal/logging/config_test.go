package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOk bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.wantOk {
			t.Errorf("parseLevel(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogTimestamp, "true")
	t.Setenv(EnvLogNoColor, "not-a-bool")

	cfg := defaultConfig(ProfileTest)
	cfg.noColor = true
	applyEnvOverrides(&cfg)

	if cfg.level != zerolog.ErrorLevel {
		t.Errorf("level not overridden, got %v", cfg.level)
	}
	if !cfg.timestamp {
		t.Error("timestamp not overridden")
	}
	if !cfg.noColor {
		t.Error("unparsable value must leave setting untouched")
	}
}

func TestLoggerOmitsTimestampWhenDisabled(t *testing.T) {
	var buffer bytes.Buffer
	logger := newLogger(config{level: zerolog.DebugLevel, noColor: true}, &buffer)
	logger.Info().Str("path", "a/keep.txt").Msg("mirrored")

	line := buffer.String()
	if !strings.HasPrefix(line, "INF mirrored") {
		t.Errorf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "path=a/keep.txt") {
		t.Errorf("field missing in log line: %q", line)
	}
}
