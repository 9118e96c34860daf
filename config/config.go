// Copyright 2026 The Android Open Source Project. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package config holds harness-wide settings for the device-test support
// library.
package config

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Duration wraps time.Duration so it can be written as "10s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (d *Duration) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}
	*d = Duration(v)
	return nil
}

// Config carries the settings shared by all device-test support packages.
type Config struct {
	// ADBPath is the adb binary to invoke. Defaults to "adb" (resolved
	// via PATH). Overridden by the ADB environment variable.
	ADBPath string `yaml:"adb_path"`

	// Serial selects the device every command targets. Empty means adb's
	// default device. Overridden by the ANDROID_SERIAL environment
	// variable, matching adb's own convention.
	Serial string `yaml:"serial"`

	// CommandTimeout bounds a single device command invocation.
	CommandTimeout Duration `yaml:"command_timeout"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{
		ADBPath:        "adb",
		CommandTimeout: Duration(10 * time.Second),
	}
	cfg.applyEnv()
	return cfg
}

// Load reads a YAML config file and applies environment overrides on top.
// Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	cfg := &Config{
		ADBPath:        "adb",
		CommandTimeout: Duration(10 * time.Second),
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADB"); v != "" {
		c.ADBPath = v
	}
	if v := os.Getenv("ANDROID_SERIAL"); v != "" {
		c.Serial = v
	}
}
