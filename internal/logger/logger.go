package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var std zerolog.Logger

// Init configures the process-wide structured logger. Level comes from
// LOG_LEVEL (debug|info|warn|error), defaulting to info.
func Init() {
	var lvl zerolog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		lvl = zerolog.DebugLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	std = zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func Debug(msg string, fields map[string]any) {
	std.Debug().Fields(fields).Msg(msg)
}

func Info(msg string, fields map[string]any) {
	std.Info().Fields(fields).Msg(msg)
}

func Warn(msg string, fields map[string]any) {
	std.Warn().Fields(fields).Msg(msg)
}

func Error(msg string, fields map[string]any) {
	std.Error().Fields(fields).Msg(msg)
}

// Fatal logs and terminates the process.
func Fatal(msg string, fields map[string]any) {
	std.Fatal().Fields(fields).Msg(msg)
}
