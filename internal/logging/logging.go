// Package logging configures the process-wide zerolog logger used for
// diagnostics. User-facing output does not go through it.
package logging

import (
	"io"
	"time"

	"github.com/createkit/createkit/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs a console logger writing to w as the global logger. Only
// warnings and errors are emitted unless verbose is set.
func Init(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !ui.IsTerminal(w),
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
