package errors

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	stderrLoggerOnce sync.Once
	stderrLogger     zerolog.Logger
)

// StderrLogger returns the shared console logger used by LogHandler when no
// logger is configured.
func StderrLogger() zerolog.Logger {
	stderrLoggerOnce.Do(func() {
		output := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		stderrLogger = zerolog.New(output).With().Timestamp().Str("component", "starport").Logger()
	})
	return stderrLogger
}

// LogHandler is an ErrorHandler that writes errors to a zerolog logger.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the events. Nil logs to stderr.
	Logger *zerolog.Logger
}

func (h *LogHandler) logger() zerolog.Logger {
	if h.Logger != nil {
		return *h.Logger
	}
	return StderrLogger()
}

// HandleError logs a StarportError.
func (h *LogHandler) HandleError(err *StarportError) {
	if err == nil {
		return
	}
	logger := h.logger()
	event := logger.Error().Str("op", err.Op).Err(err.Err)
	if h.Verbose {
		event = event.Str("kind", err.Kind.String())
		if err.StackTrace != "" {
			event = event.Str("stack", err.StackTrace)
		}
	}
	if err.Port != "" {
		event = event.Str("port", err.Port)
	}
	event.Msg("starport error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	logger := h.logger()
	event := logger.Error().Interface("value", err.Value)
	if err.Op != "" {
		event = event.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg("starport panic")
}

// HandleBuildError logs a BuildError.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	logger := h.logger()
	event := logger.Error().Str("widget", err.Widget).Str("element", err.Element)
	if h.Verbose && err.StackTrace != "" {
		event = event.Str("stack", err.StackTrace)
	}
	event.Msg(err.Error())
}
