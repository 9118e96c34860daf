// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextLog(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), zerolog.New(&buf))

	ContextLog(ctx, "Command: ", "dumpsys usb")
	if got := buf.String(); !strings.Contains(got, "Command: dumpsys usb") {
		t.Errorf("ContextLog wrote %q; want it to contain %q", got, "Command: dumpsys usb")
	}
}

func TestContextLogf(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), zerolog.New(&buf))

	ContextLogf(ctx, "Failed to tear down %s capability", "usb")
	if got := buf.String(); !strings.Contains(got, "Failed to tear down usb capability") {
		t.Errorf("ContextLogf wrote %q; want teardown message", got)
	}
}

func TestContextLogWithoutLogger(t *testing.T) {
	// Must not panic; the fallback logger writes to stderr.
	ContextLog(context.Background(), "message with no logger installed")
}
