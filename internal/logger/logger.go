package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yukikurage/todo-api/internal/config"
)

// New builds the application logger. Production writes JSON lines, every
// other environment gets the console writer.
func New(cfg *config.Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Log.Level, err)
	}
	zerolog.TimestampFieldName = "timestamp"

	w := out
	if !cfg.IsProduction() && out == os.Stdout {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = out
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Int("pid", os.Getpid()).
		Logger(), nil
}

type gormWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithLevel(w.level).Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Gorm adapts a zerolog logger for GORM. SQL is traced at debug level only.
func Gorm(log zerolog.Logger) gormlogger.Interface {
	level, writeAt := gormlogger.Warn, zerolog.WarnLevel
	if log.GetLevel() <= zerolog.DebugLevel {
		level, writeAt = gormlogger.Info, zerolog.DebugLevel
	}
	w := gormWriter{log: log.With().Str("component", "gorm").Logger(), level: writeAt}
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
