// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"path"
	"strings"
)

// attrPath is one normalized query path with its matching context.
type attrPath struct {
	// path is the slash-separated repository-relative path.
	path string
	// dir is the containing directory, "" for the repository root.
	dir string
	// isDir reports whether the query targets a directory.
	isDir bool
}

// newAttrPath normalizes and validates one query path.
//
// A trailing slash marks the path as a directory query.
func newAttrPath(raw string) (attrPath, error) {
	isDir := strings.HasSuffix(raw, "/") || strings.HasSuffix(raw, `\`)

	normalized, err := cleanRelPath(raw)
	if err != nil {
		return attrPath{}, err
	}

	return attrPath{
		path:  normalized,
		dir:   pathDir(normalized),
		isDir: isDir,
	}, nil
}

// cleanRelPath normalizes and validates one repository-relative path.
func cleanRelPath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidPath
	}

	p := strings.ReplaceAll(trimmed, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}

	if !isSimpleNormalizedPath(p) {
		p = path.Clean(p)
	}

	if p == "" || p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return "", ErrInvalidPath
	}

	return p, nil
}

// isSimpleNormalizedPath reports whether path is already normalized enough to skip path.Clean.
func isSimpleNormalizedPath(p string) bool {
	if p == "" ||
		p == "." ||
		p == ".." ||
		strings.HasPrefix(p, "/") ||
		strings.HasSuffix(p, "/") ||
		strings.HasPrefix(p, "./") ||
		strings.HasPrefix(p, "../") ||
		strings.Contains(p, "//") ||
		strings.Contains(p, "/./") ||
		strings.Contains(p, "/../") ||
		strings.HasSuffix(p, "/..") {
		return false
	}

	return true
}

// pathDir returns the slash-separated directory part of a relative path.
func pathDir(relPath string) string {
	if i := strings.LastIndexByte(relPath, '/'); i >= 0 {
		return relPath[:i]
	}

	return ""
}

// pathBase returns the final path component using slash separator.
func pathBase(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}

	return p
}

// walkUp returns every level from dir up to the root, deepest first, root ("") inclusive.
//
// The order matches collection precedence: files in deeper directories win.
func walkUp(dir string) []string {
	if dir == "" {
		return []string{""}
	}

	levels := make([]string, 0, strings.Count(dir, "/")+2)
	levels = append(levels, dir)
	for i := len(dir) - 1; i >= 0; i-- {
		if dir[i] == '/' {
			levels = append(levels, dir[:i])
		}
	}

	return append(levels, "")
}
