// Package logger configures the structured logger used by forgegen.
package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type LogLevel string

const (
	DebugLevel    LogLevel = "debug"
	InfoLevel     LogLevel = "info"
	WarnLevel     LogLevel = "warn"
	ErrorLevel    LogLevel = "error"
	DisabledLevel LogLevel = "disabled"
)

// Logger is the subset of the charm logger used by the generator.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
	Error(msg any, keyvals ...any)
}

func (l LogLevel) ToCharmlogLevel() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case InfoLevel:
		return charmlog.InfoLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case DisabledLevel:
		return charmlog.Level(1000)
	}
	return charmlog.InfoLevel
}

type Config struct {
	Level  LogLevel
	Output io.Writer
	Prefix string
}

func DefaultConfig() *Config {
	return &Config{Level: InfoLevel, Output: os.Stderr, Prefix: "forgegen"}
}

// Discard returns a logger that writes nothing.
func Discard() Logger {
	return New(&Config{Level: DisabledLevel, Output: io.Discard})
}

func New(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		Level:  cfg.Level.ToCharmlogLevel(),
		Prefix: cfg.Prefix,
	})
	l.SetFormatter(charmlog.TextFormatter)
	return l
}
