package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"GlobalDent/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global zerolog logger from the application config.
// Output goes to stdout and, when LOG_FILE is set, to a rotated file as well.
func Setup(cfg *config.AppConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(cfg.LogLevel))

	var stdout io.Writer = os.Stdout
	if strings.EqualFold(cfg.LogFormat, "console") {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	writers := []io.Writer{stdout}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		})
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "globaldent").
		Str("env", cfg.Env).
		Logger()
	log.Logger = l
	return l
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
