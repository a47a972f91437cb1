// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hostlog provides the frontend's structured trace stream
// (spec §6: "FRONTEND_DEBUG environment variable enables verbose trace
// to standard output").
//
// The teacher library carries no logger of its own — framer is a
// transport library, not a daemon — but the session loop here is a long
// running process with a debug-chatter stream (resync bytes discarded
// during startup, dispatch failures, channel transitions) that deserves
// the same structured-logging idiom the pack's daemon-shaped teacher
// (ehrlich-b-go-ublk) reaches for via its Logger/Observer collaborator
// seam. zerolog is adopted as the concrete backend.
package hostlog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the narrow seam internal/session and internal/dispatch code
// against, so tests can swap in a buffering logger without depending on
// zerolog directly.
type Logger interface {
	Debugf(format string, args ...any)
	Tracef(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// zlog adapts zerolog.Logger to Logger.
type zlog struct {
	l zerolog.Logger
}

// New builds a Logger writing to w. When debug is true (FRONTEND_DEBUG is
// set) the level is lowered to trace and output includes caller frames;
// otherwise only warnings and errors are emitted.
func New(w io.Writer, debug bool) Logger {
	level := zerolog.WarnLevel
	ctx := zerolog.New(w).With().Timestamp()
	if debug {
		level = zerolog.TraceLevel
		ctx = ctx.Caller()
	}
	l := ctx.Logger().Level(level)
	return &zlog{l: l}
}

// NewStdout is the frontend's default logger (spec §6 CLI contract).
func NewStdout(debug bool) Logger {
	return New(os.Stdout, debug)
}

func (z *zlog) Debugf(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
func (z *zlog) Tracef(format string, args ...any) { z.l.Trace().Msgf(format, args...) }
func (z *zlog) Warnf(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z *zlog) Errorf(format string, args ...any) { z.l.Error().Msgf(format, args...) }

// Nop is a Logger that discards everything, used by tests that do not
// care about trace output.
var Nop Logger = &zlog{l: zerolog.Nop()}
