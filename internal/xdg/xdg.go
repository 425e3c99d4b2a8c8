// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package xdg resolves XDG Base Directory paths for natours.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "natours"

// ConfigDir returns the XDG config directory for natours.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", oops.Code("XDG_NO_HOME").Errorf("neither XDG_CONFIG_HOME nor HOME is set")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// DefaultConfigFile returns the config file path used when none is given.
func DefaultConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
