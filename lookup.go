// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"errors"
	"fmt"
)

// Get resolves one attribute for one path.
//
// Files are scanned in precedence order; within each file later rules win;
// within a rule the sorted assignment list is binary-searched. The first
// assignment found is the answer. An attribute no rule assigns resolves to
// the unspecified value.
func (r *Repo) Get(opts CheckOptions, pathname, name string) (Value, error) {
	if !validAttrName(name) {
		return UnspecifiedValue(), fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	files, p, err := r.collectFiles(pathname, opts)
	if err != nil {
		return UnspecifiedValue(), err
	}

	hash := nameHash(name)
	result := UnspecifiedValue()

	for _, f := range files {
		candidate, ok := f.relativeTo(p)
		if !ok {
			continue
		}

		found := false
		f.matchingRules(candidate, p.isDir, func(ru *rule) bool {
			if a, ok := ru.lookupAssign(hash, name); ok {
				result = a.value
				found = true
				return false
			}

			return true
		})

		if found {
			break
		}
	}

	return result, nil
}

// getManyState tracks one requested name across the batch scan.
type getManyState struct {
	// name is the requested attribute name.
	name string
	// hash is the precomputed search key.
	hash uint64
	// found reports whether a value was already resolved.
	found bool
}

// GetMany resolves several attributes for one path in a single scan.
//
// The scan terminates as soon as every requested name is resolved; names no
// rule assigns are reported as unspecified. Zero names is a valid query with
// an empty result. Result order follows the names argument, and
// GetMany(path, [n])[0] always equals Get(path, n).
func (r *Repo) GetMany(opts CheckOptions, pathname string, names []string) ([]Value, error) {
	if len(names) == 0 {
		return nil, nil
	}

	states := make([]getManyState, len(names))
	for i, name := range names {
		if !validAttrName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}

		states[i] = getManyState{
			name: name,
			hash: nameHash(name),
		}
	}

	files, p, err := r.collectFiles(pathname, opts)
	if err != nil {
		return nil, err
	}

	values := make([]Value, len(names))
	remaining := len(names)

	for _, f := range files {
		candidate, ok := f.relativeTo(p)
		if !ok {
			continue
		}

		f.matchingRules(candidate, p.isDir, func(ru *rule) bool {
			for i := range states {
				if states[i].found {
					continue
				}

				if a, ok := ru.lookupAssign(states[i].hash, states[i].name); ok {
					states[i].found = true
					values[i] = a.value
					remaining--
				}
			}

			return remaining > 0
		})

		if remaining == 0 {
			break
		}
	}

	return values, nil
}

// ForEach enumerates every attribute assigned to one path, each name once,
// with its highest-precedence value.
//
// A callback error stops the enumeration and is returned unchanged, so the
// caller can always distinguish its own stop condition from an internal
// fault. Returning ErrStop stops without an error.
func (r *Repo) ForEach(opts CheckOptions, pathname string, fn func(name string, value Value) error) error {
	if fn == nil {
		return fmt.Errorf("%w: nil callback", ErrInvalidOptions)
	}

	files, p, err := r.collectFiles(pathname, opts)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})
	var cbErr error

	for _, f := range files {
		candidate, ok := f.relativeTo(p)
		if !ok {
			continue
		}

		f.matchingRules(candidate, p.isDir, func(ru *rule) bool {
			for i := range ru.assigns {
				a := &ru.assigns[i]
				if _, dup := seen[a.name]; dup {
					continue
				}

				seen[a.name] = struct{}{}
				if err := fn(a.name, a.value); err != nil {
					cbErr = err
					return false
				}
			}

			return true
		})

		if cbErr != nil {
			break
		}
	}

	if errors.Is(cbErr, ErrStop) {
		return nil
	}

	return cbErr
}

// AddMacro registers a repository-wide macro expanding name to the given
// assignment list, available to all subsequent queries.
//
// Malformed assignment text is rejected and nothing is registered.
func (r *Repo) AddMacro(name, values string) error {
	if !validAttrName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	c := r.attrs()

	assigns, err := parseAssignments(values, c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMacro, err)
	}

	if len(assigns) == 0 {
		return fmt.Errorf("%w: no assignments in %q", ErrInvalidMacro, values)
	}

	c.insertMacro(&rule{match: macroSpec(name), assigns: assigns})
	return nil
}
