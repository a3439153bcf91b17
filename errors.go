// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import "errors"

// Sentinel errors for gitattr operations.
var (
	// ErrInvalidName indicates an empty or malformed attribute name.
	ErrInvalidName = errors.New("invalid attribute name")
	// ErrInvalidPath indicates an absolute, escaping, or empty query path.
	ErrInvalidPath = errors.New("invalid query path")
	// ErrInvalidPattern indicates a malformed or unsupported rule pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidMacro indicates macro assignment text that parsed to nothing usable.
	ErrInvalidMacro = errors.New("invalid macro definition")
	// ErrInvalidOptions indicates an unsupported CheckOptions value or a nil callback.
	ErrInvalidOptions = errors.New("invalid check options")
	// ErrNotRepository indicates a directory that is neither a work tree nor a bare layout.
	ErrNotRepository = errors.New("not a git repository")
	// ErrStop cooperatively stops ForEach; it is absorbed, never returned to the caller.
	ErrStop = errors.New("stop iteration")
)
