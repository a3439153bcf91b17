// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// ValueKind discriminates resolved attribute value states.
type ValueKind uint8

const (
	// ValueUnspecified means no rule assigned the attribute, or a rule reset it with "!name".
	ValueUnspecified ValueKind = iota
	// ValueTrue means the attribute is set ("name").
	ValueTrue
	// ValueFalse means the attribute is unset ("-name").
	ValueFalse
	// ValueString means the attribute carries a text value ("name=text").
	ValueString
)

// Value is the resolved state of one attribute for one path.
type Value struct {
	// Kind discriminates the value state.
	Kind ValueKind `json:"kind" yaml:"kind"`
	// Data holds the text for ValueString and is empty otherwise.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`
}

// TrueValue returns the set state.
func TrueValue() Value {
	return Value{Kind: ValueTrue}
}

// FalseValue returns the unset state.
func FalseValue() Value {
	return Value{Kind: ValueFalse}
}

// UnspecifiedValue returns the unspecified state.
func UnspecifiedValue() Value {
	return Value{Kind: ValueUnspecified}
}

// StringValue returns a text-valued state.
func StringValue(text string) Value {
	return Value{Kind: ValueString, Data: text}
}

// IsSpecified reports whether any rule assigned the attribute.
func (v Value) IsSpecified() bool {
	return v.Kind != ValueUnspecified
}

// String renders the value the way "git check-attr" prints it.
func (v Value) String() string {
	switch v.Kind {
	case ValueTrue:
		return "set"
	case ValueFalse:
		return "unset"
	case ValueString:
		return v.Data
	default:
		return "unspecified"
	}
}

// SourceKind identifies where an attributes file came from.
type SourceKind uint8

const (
	// SourceWorkingFile is a .gitattributes file in the working tree.
	SourceWorkingFile SourceKind = iota
	// SourceIndexBlob is a .gitattributes blob read from the index.
	SourceIndexBlob
	// SourceHeadBlob is a .gitattributes blob read from the HEAD commit.
	SourceHeadBlob
	// SourceInfoFile is $GIT_DIR/info/attributes.
	SourceInfoFile
	// SourceConfigFile is the file named by core.attributesFile.
	SourceConfigFile
	// SourceSystemFile is the per-installation attributes file.
	SourceSystemFile
)

// Source identifies one origin of attribute rules and keys the parsed-file cache.
type Source struct {
	// Kind selects the backing store.
	Kind SourceKind `json:"kind" yaml:"kind"`
	// Base is the repository-relative directory for walked sources, empty otherwise.
	Base string `json:"base,omitempty" yaml:"base,omitempty"`
	// Name is the file name inside Base, or an absolute path for config/system sources.
	Name string `json:"name" yaml:"name"`
}

// key returns the cache identity of the source.
func (s Source) key() string {
	return strconv.Itoa(int(s.Kind)) + "\x00" + s.Base + "\x00" + s.Name
}

// nameHash returns the precomputed sort/search key for an attribute name.
func nameHash(name string) uint64 {
	return xxh3.HashString(name)
}

// assignment is one parsed "name[=value]" pair owned by its rule.
type assignment struct {
	// name is the attribute name.
	name string
	// hash is the precomputed xxh3 of name.
	hash uint64
	// value is the classified state assigned to name.
	value Value
}

// rule is one parsed attributes line: a pattern plus its sorted assignments.
type rule struct {
	// match holds the compiled pattern, or the macro name for macro rules.
	match matchSpec
	// assigns is kept sorted by (hash, name) for binary search.
	assigns []assignment
}

// lookupAssign binary-searches the sorted assignment list for one name.
func (r *rule) lookupAssign(hash uint64, name string) (*assignment, bool) {
	idx := sort.Search(len(r.assigns), func(i int) bool {
		a := &r.assigns[i]
		if a.hash != hash {
			return a.hash >= hash
		}

		return a.name >= name
	})

	if idx < len(r.assigns) && r.assigns[idx].hash == hash && r.assigns[idx].name == name {
		return &r.assigns[idx], true
	}

	return nil, false
}

// insertAssign inserts one assignment keeping sort order; a same-name entry is replaced.
//
// Replacement implements rightmost-wins semantics inside one attributes line.
func insertAssign(list []assignment, a assignment) []assignment {
	idx := sort.Search(len(list), func(i int) bool {
		e := &list[i]
		if e.hash != a.hash {
			return e.hash >= a.hash
		}

		return e.name >= a.name
	})

	if idx < len(list) && list[idx].hash == a.hash && list[idx].name == a.name {
		list[idx] = a
		return list
	}

	list = append(list, assignment{})
	copy(list[idx+1:], list[idx:])
	list[idx] = a
	return list
}

// attrFile is the ordered rule sequence parsed from one source.
type attrFile struct {
	// source identifies the file origin.
	source Source
	// relDir is the repository-relative directory the patterns are relative to.
	relDir string
	// rules preserves file definition order; macro definitions are not stored here.
	rules []rule
}

// relativeTo returns the query path rewritten relative to the file directory.
//
// Returns false when the file cannot govern the path at all.
func (f *attrFile) relativeTo(p attrPath) (string, bool) {
	if f.relDir == "" {
		return p.path, true
	}

	prefix := f.relDir + "/"
	if !strings.HasPrefix(p.path, prefix) {
		return "", false
	}

	return p.path[len(prefix):], true
}

// matchingRules yields rules matching the candidate, later definitions first.
//
// Reverse order makes the first yielded match the within-file winner.
func (f *attrFile) matchingRules(candidate string, isDir bool, fn func(*rule) bool) {
	for i := len(f.rules) - 1; i >= 0; i-- {
		r := &f.rules[i]
		if !r.match.matches(candidate, isDir) {
			continue
		}

		if !fn(r) {
			return
		}
	}
}

// SourceOrder selects how working-tree and index sources are consulted.
type SourceOrder uint8

const (
	// FileThenIndex checks the working tree before the index (default).
	FileThenIndex SourceOrder = iota
	// IndexThenFile checks the index before the working tree.
	IndexThenFile
	// IndexOnly checks the index and ignores the working tree.
	IndexOnly
)

// CheckOptions controls one attribute query.
type CheckOptions struct {
	// Order selects working-tree/index consult order.
	Order SourceOrder `json:"order,omitempty" yaml:"order,omitempty"`
	// IncludeHead also consults .gitattributes blobs from the HEAD commit.
	IncludeHead bool `json:"include_head,omitempty" yaml:"include_head,omitempty"`
	// NoSystem skips the per-installation attributes file.
	NoSystem bool `json:"no_system,omitempty" yaml:"no_system,omitempty"`
	// Session amortizes one-time setup across a batch of queries. Optional.
	Session *Session `json:"-" yaml:"-"`
}

// valid reports whether the source order value is supported.
func (o SourceOrder) valid() bool {
	return o == FileThenIndex || o == IndexThenFile || o == IndexOnly
}
