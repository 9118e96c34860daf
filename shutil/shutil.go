// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil provides shell-related utility functions.
package shutil

import (
	"regexp"
	"strings"
)

var safeRE = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// Escape escapes a string so it can be safely included as an argument in a
// shell command line. The string is not modified if it can already be safely
// included.
func Escape(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.Replace(s, "'", `'"'"'`, -1) + "'"
}

// EscapeSlice escapes a slice of strings with Escape and joins them with a
// space. The result is a shell command line equivalent to running the command
// specified by the slice directly.
func EscapeSlice(args []string) string {
	escaped := make([]string, len(args))
	for i, s := range args {
		escaped[i] = Escape(s)
	}
	return strings.Join(escaped, " ")
}
