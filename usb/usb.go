// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package usb reports the USB connection state of a device under test.
package usb

import (
	"context"

	"github.com/msft-mirror-aosp/platform.cts-sub020/probe"
)

// connectedMarker is the token dumpsys usb prints while a host is attached.
// This is a textual contract with the USB service; whitespace or ordering
// changes in the dump only matter if they change substring presence.
const connectedMarker = "connected=true"

// Probe answers whether a USB cable is currently attached, by running
// "dumpsys usb" on the device and scanning its output.
type Probe struct {
	runner probe.Runner
}

// NewProbe returns a Probe that runs diagnostic commands through runner.
func NewProbe(r probe.Runner) *Probe {
	return &Probe{runner: r}
}

// Connected reports whether the device sees an attached USB host. The dump
// is taken fresh on every call since a cable can be plugged or unplugged at
// any time. A command failure is returned as a *probe.ExecutionError and is
// never folded into a false result.
func (p *Probe) Connected(ctx context.Context) (bool, error) {
	return probe.Query(ctx, p.runner,
		probe.Command{Name: "dumpsys", Args: []string{"usb"}},
		probe.Contains(connectedMarker))
}

// Teardown implements the capability teardown contract. The probe holds no
// state, so there is nothing to reset.
func (p *Probe) Teardown(ctx context.Context) error { return nil }
