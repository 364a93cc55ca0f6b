// Package logx provides the engine's single logging sink. Every package
// that would otherwise print ad hoc diagnostics routes through here so
// severity and formatting stay consistent across the codebase.
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

// L returns the process-wide logger.
func L() *zerolog.Logger { return &logger }

// SetLevel adjusts the minimum severity that reaches the sink.
func SetLevel(level zerolog.Level) {
	logger = logger.Level(level)
}

// SetDebug enables debug-level logging, used when the engine starts with
// a debug flag or graphics.wireframe_mode-style dev settings enabled.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(zerolog.DebugLevel)
	} else {
		SetLevel(zerolog.InfoLevel)
	}
}
