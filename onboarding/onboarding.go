// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package onboarding manages the device onboarding (setup wizard) state for
// tests that need a fully set-up device.
//
// The rule is a shared per-process resource: constructing it is expensive
// because it talks to the device, so the device-state facade holds it in a
// lazy singleton and tears it down between test cases.
package onboarding

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/msft-mirror-aosp/platform.cts-sub020/logging"
)

// Device is the slice of the adb device surface the rule needs. adb.Device
// satisfies it; tests substitute a fake.
type Device interface {
	GetState(ctx context.Context) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
}

// setting identifies one settings-provider entry touched while marking
// onboarding complete.
type setting struct {
	namespace string
	key       string
}

var touchedSettings = []setting{
	{"secure", "user_setup_complete"},
	{"global", "device_provisioned"},
}

// Rule drives the onboarding state of the device under test. Construct it
// with New; tests usually obtain it through the device-state facade instead
// of constructing it directly.
type Rule struct {
	dev Device

	mu       sync.Mutex
	saved    map[setting]string
	modified bool
}

// New snapshots the current onboarding-related settings of the device. It
// fails if the device is not reachable, so a broken device surfaces at
// construction time rather than mid-test.
func New(ctx context.Context, dev Device) (*Rule, error) {
	state, err := dev.GetState(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach device")
	}
	if state != "device" {
		return nil, errors.Errorf("device is %s; want device", state)
	}

	r := &Rule{dev: dev, saved: make(map[setting]string)}
	for _, s := range touchedSettings {
		out, err := dev.Output(ctx, "settings", "get", s.namespace, s.key)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s setting %s", s.namespace, s.key)
		}
		r.saved[s] = strings.TrimSpace(string(out))
	}
	return r, nil
}

// EnsureComplete marks device onboarding as finished so the setup wizard
// stays out of the way during tests.
func (r *Rule) EnsureComplete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range touchedSettings {
		if err := r.dev.Run(ctx, "settings", "put", s.namespace, s.key, "1"); err != nil {
			return errors.Wrapf(err, "failed to set %s setting %s", s.namespace, s.key)
		}
		r.modified = true
	}
	return nil
}

// Teardown restores the settings captured at construction time. It runs
// between test cases; when nothing was modified it does nothing, and
// calling it repeatedly is safe. The rule itself stays usable afterwards.
func (r *Rule) Teardown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.modified {
		return nil
	}
	var firstErr error
	for _, s := range touchedSettings {
		if err := r.restore(ctx, s); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			logging.ContextLogf(ctx, "Failed to restore %s setting %s: %v", s.namespace, s.key, err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	r.modified = false
	return nil
}

func (r *Rule) restore(ctx context.Context, s setting) error {
	val := r.saved[s]
	if val == "" || val == "null" {
		// The setting was unset before the test; delete rather than
		// writing an empty string back.
		if err := r.dev.Run(ctx, "settings", "delete", s.namespace, s.key); err != nil {
			return errors.Wrapf(err, "failed to delete %s setting %s", s.namespace, s.key)
		}
		return nil
	}
	if err := r.dev.Run(ctx, "settings", "put", s.namespace, s.key, val); err != nil {
		return errors.Wrapf(err, "failed to restore %s setting %s", s.namespace, s.key)
	}
	return nil
}
