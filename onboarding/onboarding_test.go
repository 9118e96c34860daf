// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package onboarding

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// fakeDevice answers settings reads from values and records every write.
type fakeDevice struct {
	state  string
	values map[string]string // "namespace key" -> value
	writes []string          // recorded "settings ..." command lines
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		state: "device",
		values: map[string]string{
			"secure user_setup_complete": "0",
			"global device_provisioned":  "0",
		},
	}
}

func (d *fakeDevice) GetState(ctx context.Context) (string, error) {
	return d.state, nil
}

func (d *fakeDevice) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if name != "settings" || len(args) != 3 || args[0] != "get" {
		return nil, errors.Errorf("unexpected command: %s %v", name, args)
	}
	v, ok := d.values[args[1]+" "+args[2]]
	if !ok {
		v = "null"
	}
	return []byte(v + "\n"), nil
}

func (d *fakeDevice) Run(ctx context.Context, name string, args ...string) error {
	d.writes = append(d.writes, name+" "+strings.Join(args, " "))
	if name == "settings" && len(args) == 4 && args[0] == "put" {
		d.values[args[1]+" "+args[2]] = args[3]
	}
	if name == "settings" && len(args) == 3 && args[0] == "delete" {
		delete(d.values, args[1]+" "+args[2])
	}
	return nil
}

func TestNewRequiresReachableDevice(t *testing.T) {
	ctx := context.Background()
	dev := newFakeDevice()
	dev.state = "offline"
	if _, err := New(ctx, dev); err == nil {
		t.Error("New succeeded with offline device; want error")
	}
}

func TestEnsureCompleteAndTeardown(t *testing.T) {
	ctx := context.Background()
	dev := newFakeDevice()
	r, err := New(ctx, dev)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := r.EnsureComplete(ctx); err != nil {
		t.Fatalf("EnsureComplete failed: %v", err)
	}
	want := map[string]string{
		"secure user_setup_complete": "1",
		"global device_provisioned":  "1",
	}
	if diff := cmp.Diff(want, dev.values); diff != "" {
		t.Errorf("Settings after EnsureComplete mismatch (-want +got):\n%s", diff)
	}

	if err := r.Teardown(ctx); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
	want = map[string]string{
		"secure user_setup_complete": "0",
		"global device_provisioned":  "0",
	}
	if diff := cmp.Diff(want, dev.values); diff != "" {
		t.Errorf("Settings after Teardown mismatch (-want +got):\n%s", diff)
	}
}

func TestTeardownWithoutChangesIsNoOp(t *testing.T) {
	ctx := context.Background()
	dev := newFakeDevice()
	r, err := New(ctx, dev)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.Teardown(ctx); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
	if len(dev.writes) != 0 {
		t.Errorf("Teardown issued %d commands; want 0: %v", len(dev.writes), dev.writes)
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dev := newFakeDevice()
	r, err := New(ctx, dev)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.EnsureComplete(ctx); err != nil {
		t.Fatalf("EnsureComplete failed: %v", err)
	}

	if err := r.Teardown(ctx); err != nil {
		t.Fatalf("First Teardown failed: %v", err)
	}
	writes := len(dev.writes)
	if err := r.Teardown(ctx); err != nil {
		t.Fatalf("Second Teardown failed: %v", err)
	}
	if len(dev.writes) != writes {
		t.Errorf("Second Teardown issued commands: %v", dev.writes[writes:])
	}
}

func TestTeardownDeletesPreviouslyUnsetSettings(t *testing.T) {
	ctx := context.Background()
	dev := newFakeDevice()
	delete(dev.values, "global device_provisioned")

	r, err := New(ctx, dev)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := r.EnsureComplete(ctx); err != nil {
		t.Fatalf("EnsureComplete failed: %v", err)
	}
	if err := r.Teardown(ctx); err != nil {
		t.Fatalf("Teardown failed: %v", err)
	}
	if _, ok := dev.values["global device_provisioned"]; ok {
		t.Error("Teardown left device_provisioned set; want deleted")
	}
	if got, want := dev.values["secure user_setup_complete"], "0"; got != want {
		t.Errorf("user_setup_complete = %q; want %q", got, want)
	}
}
