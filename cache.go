// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// builtinBinaryMacro is the expansion git defines for the "binary" macro.
const builtinBinaryMacro = "-diff -merge -text"

// attrCache is the repository-wide store of parsed files and macro definitions.
//
// Parsed files are immutable after insertion, so they are handed out as
// shared references; queries read them, only the cache owns them.
type attrCache struct {
	// mu guards files and macros.
	mu sync.RWMutex
	// files maps Source.key() to its parse outcome.
	files map[string]*cacheEntry
	// macros maps macro name to its definition rule.
	macros map[string]*rule
}

// cacheEntry stores one parsed file, a cached miss, or a cached failure.
type cacheEntry struct {
	// file is nil when the source does not exist.
	file *attrFile
	// err stores the load/parse error for deterministic repeated calls.
	err error
	// loading reports whether the entry is being filled by another goroutine.
	loading bool
	// wg coordinates concurrent waiters for one load attempt.
	wg sync.WaitGroup
}

// newAttrCache creates an empty cache with git's builtin "binary" macro registered.
func newAttrCache() *attrCache {
	c := &attrCache{
		files:  make(map[string]*cacheEntry),
		macros: make(map[string]*rule),
	}

	if assigns, err := parseAssignments(builtinBinaryMacro, nil); err == nil {
		c.insertMacro(&rule{match: macroSpec("binary"), assigns: assigns})
	}

	return c
}

// lookupMacro returns the registered macro definition for name, or nil.
func (c *attrCache) lookupMacro(name string) *rule {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.macros[name]
}

// insertMacro registers one fully-built macro rule.
//
// The map assignment under the write lock makes registration atomic with
// respect to lookup: readers see either no macro or the complete rule.
func (c *attrCache) insertMacro(r *rule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.macros[r.match.pattern] = r
}

// get returns the parsed file for one source, loading it on first use.
//
// A missing source is cached as a nil file and reported as (nil, nil).
// Concurrent requests for the same source share one load attempt.
func (c *attrCache) get(r *Repo, src Source, allowMacros bool) (*attrFile, error) {
	key := src.key()

	c.mu.Lock()
	entry, ok := c.files[key]
	if ok {
		loading := entry.loading
		c.mu.Unlock()
		if loading {
			entry.wg.Wait()
		}

		return entry.file, entry.err
	}

	entry = &cacheEntry{
		loading: true,
	}
	entry.wg.Add(1)
	c.files[key] = entry
	c.mu.Unlock()

	file, err := c.load(r, src, allowMacros)

	c.mu.Lock()
	entry.file = file
	entry.err = err
	entry.loading = false
	entry.wg.Done()
	c.mu.Unlock()

	return file, err
}

// load reads and parses one source outside the cache lock.
func (c *attrCache) load(r *Repo, src Source, allowMacros bool) (*attrFile, error) {
	content, err := r.readSource(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read attributes source %q: %w", src.Name, err)
	}

	file, err := parseAttrFile(content, src, c, allowMacros)
	if err != nil {
		return nil, fmt.Errorf("parse attributes source %q: %w", src.Name, err)
	}

	return file, nil
}
