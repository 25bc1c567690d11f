// Package logger provides leveled logging on top of phuslu/log.
package logger

import (
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Init configures the default logger. format "json" writes structured
// lines; anything else writes console text with the caller position.
func Init(level string, format string) {
	l := log.Logger{
		Level:      log.ParseLevel(strings.ToLower(level)),
		Caller:     2,
		TimeFormat: "2006-01-02 15:04:05.000",
	}
	if strings.ToLower(format) == "json" {
		l.TimeFormat = ""
		l.Writer = &log.IOWriter{Writer: os.Stderr}
	} else {
		l.Writer = &log.ConsoleWriter{
			Writer:         os.Stderr,
			EndWithMessage: true,
		}
	}
	log.DefaultLogger = l
}

func Debug(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}

func Info(format string, args ...any) {
	log.Info().Msgf(format, args...)
}

func Warn(format string, args ...any) {
	log.Warn().Msgf(format, args...)
}

func Error(format string, args ...any) {
	log.Error().Msgf(format, args...)
}

// Fatal logs at error level and exits.
func Fatal(format string, args ...any) {
	log.Error().Msgf(format, args...)
	os.Exit(1)
}
