// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logging provides context-scoped logging for test support code.
//
// Library code in this repository does not hold loggers; it reports through
// the context so the harness decides where messages go. The harness installs
// a zerolog logger with NewContext, and everything below it logs with
// ContextLog/ContextLogf.
package logging

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// defaultLogger is used when no logger was installed in the context.
var defaultLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// NewContext returns a context carrying logger. Code receiving the context
// can log through it with ContextLog and ContextLogf.
func NewContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger installed in ctx, or a default logger
// writing to stderr if none was installed.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return defaultLogger
}

// ContextLog formats its arguments using default formatting and logs them
// via ctx.
func ContextLog(ctx context.Context, args ...interface{}) {
	logger := FromContext(ctx)
	logger.Info().Msg(fmt.Sprint(args...))
}

// ContextLogf is similar to ContextLog but formats its arguments using
// fmt.Sprintf.
func ContextLogf(ctx context.Context, format string, args ...interface{}) {
	logger := FromContext(ctx)
	logger.Info().Msgf(format, args...)
}
