// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package adb wraps the adb command-line tool for device-side test support
// code running on a host.
package adb

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"

	"github.com/msft-mirror-aosp/platform.cts-sub020/config"
	"github.com/msft-mirror-aosp/platform.cts-sub020/logging"
	"github.com/msft-mirror-aosp/platform.cts-sub020/testexec"
)

// Device represents one device visible to adb.
type Device struct {
	// Serial identifies the device to adb (-s flag).
	Serial string
	// State is the connection state reported by adb: "device", "offline",
	// "unauthorized" and so on.
	State string
	// Model and Product are taken from the device description columns of
	// "adb devices -l" when present.
	Model   string
	Product string

	cfg *config.Config
}

// IsOnline reports whether the device is in the "device" state and ready
// for commands.
func (d *Device) IsOnline() bool { return d.State == "device" }

// New returns a Device handle for the serial configured in cfg without
// contacting the device. Use GetState or WaitForState to check it is
// actually reachable.
func New(cfg *config.Config) *Device {
	return &Device{Serial: cfg.Serial, cfg: cfg}
}

// Devices enumerates devices known to the local adb server.
func Devices(ctx context.Context, cfg *config.Config) ([]*Device, error) {
	out, err := serverCommand(ctx, cfg, "devices", "-l").Output(testexec.DumpLogOnError)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list adb devices")
	}
	devs := parseDevices(string(out))
	for _, d := range devs {
		d.cfg = cfg
	}
	return devs, nil
}

// parseDevices parses "adb devices -l" output. The first line is a banner;
// each following non-empty line is "<serial> <state> [key:value ...]".
func parseDevices(out string) []*Device {
	var devs []*Device
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if i == 0 && strings.HasPrefix(line, "List of devices") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := &Device{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			if v, ok := strings.CutPrefix(f, "model:"); ok {
				d.Model = v
			} else if v, ok := strings.CutPrefix(f, "product:"); ok {
				d.Product = v
			}
		}
		devs = append(devs, d)
	}
	return devs
}

// GetState queries the current connection state of the device.
func (d *Device) GetState(ctx context.Context) (string, error) {
	ctx, cancel := d.timeoutContext(ctx)
	defer cancel()
	out, err := d.deviceCommand(ctx, "get-state").Output()
	if err != nil {
		return "", errors.Wrapf(err, "failed to get state of %s", d.Serial)
	}
	return strings.TrimSpace(string(out)), nil
}

// WaitForState polls until the device reports state, or ctx is done.
func (d *Device) WaitForState(ctx context.Context, state string) error {
	return pollUntil(ctx, time.Second, func(ctx context.Context) error {
		got, err := d.GetState(ctx)
		if err != nil {
			return err
		}
		if got != state {
			return errors.Errorf("device %s is %s; want %s", d.Serial, got, state)
		}
		return nil
	})
}

// KillServer kills any running adb local server process.
//
// "adb kill-server" alone is unreliable when the server is wedged, so stale
// server processes reparented to init are killed directly, the way the
// server is cleaned up between test runs.
func KillServer(ctx context.Context, cfg *config.Config) error {
	// Ask nicely first; ignore failure since the server may not be running.
	if err := serverCommand(ctx, cfg, "kill-server").Run(); err != nil {
		logging.ContextLog(ctx, "adb kill-server failed: ", err)
	}

	ps, err := process.Processes()
	if err != nil {
		return errors.Wrap(err, "failed to enumerate processes")
	}
	for _, p := range ps {
		if name, err := p.Name(); err != nil || name != "adb" {
			continue
		}
		if ppid, err := p.Ppid(); err != nil || ppid != 1 {
			continue
		}
		if err := unix.Kill(int(p.Pid), unix.SIGKILL); err != nil {
			// The server process might be already gone; log rather than fail.
			logging.ContextLog(ctx, "Failed to kill adb server process: ", err)
			continue
		}
		// Wait for the process to exit for sure.
		pid := p.Pid
		if err := pollUntil(ctx, 100*time.Millisecond, func(ctx context.Context) error {
			if _, err := process.NewProcess(pid); err == nil {
				return errors.Errorf("pid %d is still running", pid)
			}
			return nil
		}); err != nil {
			return errors.Wrap(err, "failed waiting for adb server to exit")
		}
	}
	return nil
}

// pollUntil runs f every interval until it succeeds or ctx is done.
func pollUntil(ctx context.Context, interval time.Duration, f func(context.Context) error) error {
	for {
		lastErr := f(ctx)
		if lastErr == nil {
			return nil
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return errors.Wrap(lastErr, "polling aborted")
		}
	}
}
