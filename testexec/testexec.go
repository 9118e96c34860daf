// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package testexec runs external commands on behalf of tests.
//
// It is a thin wrapper around os/exec that ties command lifetime to a
// context, records stderr for post-mortem logging, and kills the whole
// process group on cancellation so that grandchildren do not outlive the
// test that spawned them.
package testexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/msft-mirror-aosp/platform.cts-sub020/logging"
	"github.com/msft-mirror-aosp/platform.cts-sub020/shutil"
)

// Cmd represents an external command being prepared or run.
//
// This type embeds *exec.Cmd, so its fields and methods can be used unless
// they are overridden here.
type Cmd struct {
	*exec.Cmd

	ctx context.Context

	// log accumulates stderr while the command runs, unless the caller
	// installed its own Stderr.
	log bytes.Buffer

	watchStderr bool
}

// RunOption is enum of options which can be passed to Run, Output,
// CombinedOutput and Wait to control precise behavior of them.
type RunOption int

// DumpLogOnError is an option to dump logs if the executed command fails
// (i.e., exited with non-zero status code).
const DumpLogOnError RunOption = iota

// CommandContext prepares to run an external command.
//
// The command is terminated when ctx is done, together with its process
// group.
func CommandContext(ctx context.Context, name string, arg ...string) *Cmd {
	cmd := exec.CommandContext(ctx, name, arg...)
	// Put the command in its own process group so cancellation can reap
	// any children it forks.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	return &Cmd{Cmd: cmd, ctx: ctx}
}

// Run runs an external command and waits for its completion.
func (c *Cmd) Run(opts ...RunOption) error {
	if err := c.Start(); err != nil {
		return err
	}
	return c.Wait(opts...)
}

// Output runs an external command, waits for its completion and returns
// stdout output of the command.
func (c *Cmd) Output(opts ...RunOption) ([]byte, error) {
	if c.Stdout != nil {
		return nil, errors.New("exec: Stdout already set")
	}
	var stdout bytes.Buffer
	c.Stdout = &stdout
	err := c.Run(opts...)
	return stdout.Bytes(), err
}

// CombinedOutput runs an external command, waits for its completion and
// returns stdout/stderr output of the command.
func (c *Cmd) CombinedOutput(opts ...RunOption) ([]byte, error) {
	if c.Stdout != nil {
		return nil, errors.New("exec: Stdout already set")
	}
	if c.Stderr != nil {
		return nil, errors.New("exec: Stderr already set")
	}
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf
	err := c.Run(opts...)
	return buf.Bytes(), err
}

// Start starts an external command. It is the caller's responsibility to
// call Wait later to release associated resources.
func (c *Cmd) Start() error {
	if c.Stderr == nil {
		c.Stderr = &c.log
		c.watchStderr = true
	}
	if err := c.Cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start %s", shutil.Escape(c.Path))
	}
	return nil
}

// Wait waits for the started command to complete.
func (c *Cmd) Wait(opts ...RunOption) error {
	err := c.Cmd.Wait()
	if err != nil && hasOpt(DumpLogOnError, opts) {
		c.DumpLog(c.ctx)
	}
	// Prefer reporting context errors; a SIGKILL from cancellation is
	// less informative than the deadline that caused it.
	if cerr := c.ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}

// Kill sends SIGKILL to the process group of the command. The command must
// have been started.
func (c *Cmd) Kill() error {
	if c.Process == nil {
		return errors.New("exec: not started")
	}
	return unix.Kill(-c.Process.Pid, unix.SIGKILL)
}

// DumpLog logs details of the executed external command, including the
// command line and stderr output captured while it ran.
func (c *Cmd) DumpLog(ctx context.Context) {
	logging.ContextLog(ctx, "Command: ", shutil.EscapeSlice(c.Args))
	if c.ProcessState != nil {
		logging.ContextLog(ctx, "State: ", c.ProcessState)
	}
	if c.watchStderr {
		logging.ContextLog(ctx, "Stderr:\n", c.log.String())
	}
}

// ExitCode returns the exit code of err if it wraps an *exec.ExitError, and
// ok reports whether the exit code was extracted.
func ExitCode(err error) (code int, ok bool) {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, false
	}
	return exitErr.ExitCode(), true
}

func hasOpt(opt RunOption, opts []RunOption) bool {
	for _, o := range opts {
		if o == opt {
			return true
		}
	}
	return false
}

var _ fmt.Stringer = (*Cmd)(nil)

// String returns the escaped command line of the command, suitable for log
// messages.
func (c *Cmd) String() string {
	return shutil.EscapeSlice(c.Args)
}
