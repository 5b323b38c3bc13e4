// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "legallens"

// ConfigDir returns the LegalLens configuration directory. LEGALLENS_CONFIG_DIR
// overrides the platform default (XDG on Unix, APPDATA on Windows).
func ConfigDir() string {
	if dir := os.Getenv("LEGALLENS_CONFIG_DIR"); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+appDir)
	}
	return "." + appDir
}

// ConfigFile returns the path to the user config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultLogFile is where the rotated service log goes when none is configured.
func DefaultLogFile() string {
	return filepath.Join(ConfigDir(), "logs", "legallens.log")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ReportFileName is the download name for a summary of the given document.
func ReportFileName(documentName, ext string) string {
	base := filepath.Base(documentName)
	if base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return "Summary_" + base + "." + strings.TrimPrefix(ext, ".")
}
