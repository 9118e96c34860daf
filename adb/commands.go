// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package adb

import (
	"context"
	"time"

	"github.com/msft-mirror-aosp/platform.cts-sub020/config"
	"github.com/msft-mirror-aosp/platform.cts-sub020/shutil"
	"github.com/msft-mirror-aosp/platform.cts-sub020/testexec"
)

// Command runs a command on the device via adb.
//
// Be aware of the restrictions of adb shells: the exit code of the remote
// command is not reliably propagated on older devices, stdin is not
// connected, and stderr may be mixed into stdout.
func (d *Device) Command(ctx context.Context, name string, arg ...string) *testexec.Cmd {
	// adb exec-out is like adb shell, but skips CR/LF conversion.
	// exec-out always hands the command line to /bin/sh on the device, so
	// arguments must be escaped.
	shell := "exec " + shutil.EscapeSlice(append([]string{name}, arg...))
	return d.deviceCommand(ctx, "exec-out", shell)
}

// Output runs a command on the device and returns its stdout, bounded by
// the configured command timeout. It exists so Device satisfies
// probe.Runner; capability probes run their diagnostic commands through it.
func (d *Device) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := d.timeoutContext(ctx)
	defer cancel()
	return d.Command(ctx, name, args...).Output()
}

// Run runs a command on the device and waits for it to finish, bounded by
// the configured command timeout.
func (d *Device) Run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := d.timeoutContext(ctx)
	defer cancel()
	return d.Command(ctx, name, args...).Run(testexec.DumpLogOnError)
}

// timeoutContext derives a context bounded by cfg.CommandTimeout. Callers
// that manage command lifetime themselves (Command) are not bounded; the
// blocking helpers above are, so a wedged device turns into a prompt error
// instead of an indefinite hang.
func (d *Device) timeoutContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(d.cfg.CommandTimeout)
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// deviceCommand builds an adb invocation targeting this device.
func (d *Device) deviceCommand(ctx context.Context, arg ...string) *testexec.Cmd {
	args := arg
	if d.Serial != "" {
		args = append([]string{"-s", d.Serial}, arg...)
	}
	return testexec.CommandContext(ctx, d.cfg.ADBPath, args...)
}

// serverCommand builds an adb invocation not bound to a particular device,
// for server-level subcommands such as "devices" and "kill-server".
func serverCommand(ctx context.Context, cfg *config.Config, arg ...string) *testexec.Cmd {
	return testexec.CommandContext(ctx, cfg.ADBPath, arg...)
}
