// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package probe queries device capabilities by running diagnostic commands
// and interpreting their text output.
//
// A probe separates two concerns: running the external command, which can
// fail, and parsing its output, which cannot. The parse function supplied
// by the caller must be total over realistic outputs; in particular the
// absence of an expected marker is a negative result, not an error. That
// keeps the fragile text-matching logic isolated and testable against
// recorded sample outputs, while execution failures surface as a typed
// *ExecutionError that callers can always tell apart from "the probe ran
// and reported false".
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/msft-mirror-aosp/platform.cts-sub020/shutil"
)

// DefaultTimeout bounds a single command invocation when the Command does
// not specify its own timeout. Diagnostic commands are expected to return
// promptly; a hang is reported as an *ExecutionError instead of blocking
// the test indefinitely.
const DefaultTimeout = 10 * time.Second

// Runner runs an external command and captures its standard output.
// Implementations must return a non-nil error when the command cannot be
// started or exits abnormally.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Command is a fixed, fully-specified diagnostic invocation. Name and Args
// are compile-time or configuration constants, never untrusted input. A
// zero Timeout means DefaultTimeout.
type Command struct {
	Name    string
	Args    []string
	Timeout time.Duration
}

func (c Command) String() string {
	return shutil.EscapeSlice(append([]string{c.Name}, c.Args...))
}

// ExecutionError reports that a diagnostic command could not run: it failed
// to start, exited abnormally, or timed out. It is never produced by the
// parse function, so callers can distinguish a failed probe from a probe
// that ran and produced a negative result.
type ExecutionError struct {
	Cmd string
	Err error
}

func (e *ExecutionError) Error() string {
	return "failed to run " + e.Cmd + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Query runs cmd, captures its standard output and applies parse to it.
//
// Query blocks until the command exits or its timeout elapses. Every call
// re-invokes the command; nothing is cached, because the underlying
// physical state can change between calls. Retries, if wanted, are the
// caller's responsibility.
func Query[R any](ctx context.Context, r Runner, cmd Command, parse func(text string) R) (R, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := r.Output(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		var zero R
		return zero, &ExecutionError{Cmd: cmd.String(), Err: err}
	}
	return parse(string(out)), nil
}

// Contains returns a parse function reporting whether the command output
// contains marker. It is total: empty output parses to false.
func Contains(marker string) func(text string) bool {
	return func(text string) bool {
		return strings.Contains(text, marker)
	}
}
