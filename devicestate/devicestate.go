// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package devicestate is the shared test-context facade: it exposes the
// capabilities individual test cases use and resets them between cases.
//
// Capabilities are registered by name when the DeviceState is constructed.
// Reset runs every capability's teardown; the host test framework calls it
// between test cases as part of its device-state reset cycle.
package devicestate

import (
	"context"
	"errors"

	"github.com/msft-mirror-aosp/platform.cts-sub020/adb"
	"github.com/msft-mirror-aosp/platform.cts-sub020/config"
	"github.com/msft-mirror-aosp/platform.cts-sub020/lazy"
	"github.com/msft-mirror-aosp/platform.cts-sub020/logging"
	"github.com/msft-mirror-aosp/platform.cts-sub020/onboarding"
	"github.com/msft-mirror-aosp/platform.cts-sub020/usb"
)

// Capability names registered by New.
const (
	CapOnboarding = "onboarding"
	CapUSB        = "usb"
)

// Capability is a named test capability held by the device state. Teardown
// resets the capability between test cases; for stateless capabilities it
// is a no-op.
type Capability interface {
	Teardown(ctx context.Context) error
}

// Option configures a DeviceState at construction time.
type Option func(ds *DeviceState)

// WithCapability registers an extra capability under name, replacing any
// capability already registered with that name.
func WithCapability(name string, c Capability) Option {
	return func(ds *DeviceState) { ds.caps[name] = c }
}

// DeviceState is the per-process test context. It owns the device handle
// and every registered capability.
type DeviceState struct {
	dev  *adb.Device
	caps map[string]Capability

	onboarding *lazy.Singleton[*onboarding.Rule]
	usb        *usb.Probe
}

// New constructs the device state for the device configured in cfg.
// Construction is cheap: nothing contacts the device until a capability is
// first used.
func New(cfg *config.Config, opts ...Option) *DeviceState {
	dev := adb.New(cfg)
	ds := &DeviceState{
		dev:  dev,
		caps: make(map[string]Capability),
		onboarding: lazy.NewSingleton(func(ctx context.Context) (*onboarding.Rule, error) {
			return onboarding.New(ctx, dev)
		}),
		usb: usb.NewProbe(dev),
	}
	ds.caps[CapOnboarding] = ds.onboarding
	ds.caps[CapUSB] = ds.usb
	for _, opt := range opts {
		opt(ds)
	}
	return ds
}

// Device returns the handle of the device under test.
func (ds *DeviceState) Device() *adb.Device { return ds.dev }

// Onboarding returns the shared onboarding rule, constructing it on first
// use. Construction failures are reported to the caller and retried on the
// next call.
func (ds *DeviceState) Onboarding(ctx context.Context) (*onboarding.Rule, error) {
	return ds.onboarding.Get(ctx)
}

// USBConnected reports whether the device currently sees an attached USB
// host. The state is probed fresh on every call.
func (ds *DeviceState) USBConnected(ctx context.Context) (bool, error) {
	return ds.usb.Connected(ctx)
}

// Capability returns the capability registered under name.
func (ds *DeviceState) Capability(name string) (Capability, bool) {
	c, ok := ds.caps[name]
	return c, ok
}

// Reset tears down every registered capability. The host framework calls
// it between test cases. All teardowns run even when some fail; the
// failures are logged and returned joined into a single error.
func (ds *DeviceState) Reset(ctx context.Context) error {
	var errs []error
	for name, c := range ds.caps {
		if err := c.Teardown(ctx); err != nil {
			errs = append(errs, err)
			logging.ContextLogf(ctx, "Failed to tear down %s capability: %v", name, err)
		}
	}
	return errors.Join(errs...)
}
