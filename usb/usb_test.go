// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package usb

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/msft-mirror-aosp/platform.cts-sub020/probe"
)

// Recorded from "dumpsys usb" on a test device with a host attached.
const dumpConnected = `USB MANAGER STATE (dumpsys usb):
  USB Device State:
    mCurrentFunctions: adb
    mCurrentFunctionsApplied: true
    mConnected: true
    mConfigured: true
  Kernel state: connected=true configured=true
`

// Same device after unplugging the cable.
const dumpDisconnected = `USB MANAGER STATE (dumpsys usb):
  USB Device State:
    mCurrentFunctions: adb
    mCurrentFunctionsApplied: true
    mConnected: false
    mConfigured: false
  Kernel state: connected=false configured=false
`

type fakeRunner struct {
	out string
	err error
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.out), nil
}

func TestConnected(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		out  string
		want bool
	}{
		{"attached", dumpConnected, true},
		{"detached", dumpDisconnected, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProbe(&fakeRunner{out: tc.out})
			got, err := p.Connected(ctx)
			if err != nil {
				t.Fatalf("Connected failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Connected = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestConnectedExecutionFailure(t *testing.T) {
	ctx := context.Background()
	p := NewProbe(&fakeRunner{err: errors.New("device offline")})
	got, err := p.Connected(ctx)
	if err == nil {
		t.Fatalf("Connected = %v with nil error; want error", got)
	}
	var execErr *probe.ExecutionError
	if !errors.As(err, &execErr) {
		t.Errorf("Connected returned %v; want *probe.ExecutionError", err)
	}
}

func TestTeardownIsNoOp(t *testing.T) {
	p := NewProbe(&fakeRunner{})
	if err := p.Teardown(context.Background()); err != nil {
		t.Errorf("Teardown failed: %v", err)
	}
}
