// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"fmt"
	"os"
	"strconv"
)

// debugEnabled gates collection trace output, set with GITATTR_DEBUG=1.
var debugEnabled = boolEnv("GITATTR_DEBUG")

// boolEnv parses one boolean environment toggle.
func boolEnv(name string) bool {
	v := os.Getenv(name)
	if v == "" {
		return false
	}

	b, _ := strconv.ParseBool(v)
	return b
}

// debugf writes one trace line to stderr when debugging is enabled.
func debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}

	fmt.Fprintf(os.Stderr, "gitattr: "+format+"\n", args...)
}
