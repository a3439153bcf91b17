// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"fmt"
	"regexp"
	"strings"
)

// matchSpec is the compiled pattern of one attributes rule.
//
// Matching follows gitignore glob semantics with the gitattributes
// differences: patterns containing a slash are anchored to the directory of
// the defining file, negative patterns do not exist at this level, and
// patterns for directories match the directory path itself only.
type matchSpec struct {
	// componentRE matches basename patterns that need a char class.
	componentRE *regexp.Regexp
	// componentExact matches basename patterns without glob meta.
	componentExact string
	// componentGlob matches basename patterns with "*" and "?" without regexp.
	componentGlob segmentPattern
	// pathExact matches slash patterns without glob meta.
	pathExact string
	// pathSegments matches slash patterns without "**" and char classes.
	pathSegments []segmentPattern
	// pathPrefixSegments matches slash patterns with trailing "/**".
	pathPrefixSegments []segmentPattern
	// pathRE matches remaining slash patterns.
	pathRE *regexp.Regexp
	// pattern is the normalized source pattern, or the macro name.
	pattern string
	// hasSlash means the pattern is anchored to the defining directory.
	hasSlash bool
	// dirOnly means the pattern only matches a directory path.
	dirOnly bool
	// macro marks a macro definition; macro rules never match paths.
	macro bool
}

// segmentPattern is one precompiled path segment matcher.
type segmentPattern struct {
	// text is raw segment pattern source.
	text string
	// wildcard reports whether text contains "*" or "?".
	wildcard bool
}

// macroSpec builds the pseudo-pattern of a macro rule keyed by its name.
func macroSpec(name string) matchSpec {
	return matchSpec{pattern: name, macro: true}
}

// compileMatchSpec compiles one attributes pattern into the cheapest matching
// strategy that preserves gitattributes semantics.
func compileMatchSpec(raw string) (matchSpec, error) {
	pattern := strings.TrimSpace(raw)
	if pattern == "" {
		return matchSpec{}, fmt.Errorf("%w: empty", ErrInvalidPattern)
	}

	spec := matchSpec{
		dirOnly: strings.HasSuffix(pattern, "/"),
	}

	anchoredPrefix := strings.HasPrefix(pattern, "/")
	pattern = strings.Trim(pattern, "/")
	if pattern == "" {
		return matchSpec{}, fmt.Errorf("%w: empty after normalization (%q)", ErrInvalidPattern, raw)
	}

	spec.pattern = pattern
	// A slash anywhere in the body anchors the pattern to the defining
	// directory; a bare leading slash anchors a single component the same way.
	spec.hasSlash = strings.Contains(pattern, "/") || anchoredPrefix

	hasMeta := patternHasGlobMeta(pattern)
	hasCharClass := patternHasCharClass(pattern)

	if !spec.hasSlash {
		if !hasMeta {
			spec.componentExact = pattern
			return spec, nil
		}

		if !hasCharClass {
			spec.componentGlob = newSegmentPattern(pattern)
			return spec, nil
		}

		re, err := regexp.Compile("^" + globToRegexComponent(pattern) + "$")
		if err != nil {
			return matchSpec{}, fmt.Errorf("%w: compile component %q: %v", ErrInvalidPattern, raw, err)
		}

		spec.componentRE = re
		return spec, nil
	}

	if !hasMeta {
		spec.pathExact = pattern
		return spec, nil
	}

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		// Trailing "/**" is common and can be matched as "prefix directory + any descendant".
		if prefix != "" && canUseSimplePathSegments(prefix) {
			spec.pathPrefixSegments = compilePathSegments(prefix)
			return spec, nil
		}
	}

	if canUseSimplePathSegments(pattern) {
		spec.pathSegments = compilePathSegments(pattern)
		return spec, nil
	}

	// Fallback for char classes and complex "**" combinations.
	re, err := regexp.Compile("^" + globToRegexPath(pattern) + "$")
	if err != nil {
		return matchSpec{}, fmt.Errorf("%w: compile path pattern %q: %v", ErrInvalidPattern, raw, err)
	}

	spec.pathRE = re
	return spec, nil
}

// matches reports whether the compiled pattern matches a normalized candidate
// path relative to the defining directory.
func (s *matchSpec) matches(candidate string, isDir bool) bool {
	if s.macro || candidate == "" {
		return false
	}

	if s.dirOnly && !isDir {
		return false
	}

	if s.hasSlash {
		if s.pathExact != "" {
			return candidate == s.pathExact
		}

		if len(s.pathPrefixSegments) > 0 {
			end, ok := matchPathSegmentsAt(s.pathPrefixSegments, candidate, 0)
			// "prefix/**" matches descendants only, never the prefix directory itself.
			return ok && end < len(candidate) && candidate[end] == '/'
		}

		if len(s.pathSegments) > 0 {
			end, ok := matchPathSegmentsAt(s.pathSegments, candidate, 0)
			return ok && end == len(candidate)
		}

		return s.pathRE != nil && s.pathRE.MatchString(candidate)
	}

	base := pathBase(candidate)
	if s.componentExact != "" {
		return base == s.componentExact
	}

	if s.componentGlob.text != "" {
		return matchSegmentPattern(s.componentGlob, base)
	}

	return s.componentRE != nil && s.componentRE.MatchString(base)
}

// patternHasGlobMeta reports whether pattern contains supported glob meta.
func patternHasGlobMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?':
			return true
		case '[':
			if findCharClassEnd(pattern, i) >= 0 {
				return true
			}
		}
	}

	return false
}

// patternHasCharClass reports whether pattern contains at least one valid "[...]" class.
func patternHasCharClass(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '[' {
			continue
		}

		if findCharClassEnd(pattern, i) >= 0 {
			return true
		}
	}

	return false
}

// canUseSimplePathSegments reports whether slash pattern can use lightweight segment matching.
func canUseSimplePathSegments(pattern string) bool {
	if pattern == "" {
		return false
	}

	if strings.Contains(pattern, "**") {
		return false
	}

	return !patternHasCharClass(pattern)
}

// newSegmentPattern precompiles one segment pattern.
func newSegmentPattern(pattern string) segmentPattern {
	return segmentPattern{
		text:     pattern,
		wildcard: strings.ContainsAny(pattern, "*?"),
	}
}

// compilePathSegments precompiles slash-separated path pattern segments.
func compilePathSegments(pattern string) []segmentPattern {
	segments := make([]segmentPattern, 0, strings.Count(pattern, "/")+1)
	start := 0

	for i := 0; i <= len(pattern); i++ {
		if i != len(pattern) && pattern[i] != '/' {
			continue
		}

		segments = append(segments, newSegmentPattern(pattern[start:i]))
		start = i + 1
	}

	return segments
}

// matchSegmentPattern matches one precompiled segment pattern.
func matchSegmentPattern(pattern segmentPattern, segment string) bool {
	if !pattern.wildcard {
		return segment == pattern.text
	}

	return matchSimpleWildcard(pattern.text, segment)
}

// matchSimpleWildcard matches "*" and "?" wildcard pattern against one segment.
func matchSimpleWildcard(pattern string, input string) bool {
	pIdx := 0
	sIdx := 0
	starPattern := -1
	starInput := 0

	for sIdx < len(input) {
		if pIdx < len(pattern) && (pattern[pIdx] == '?' || pattern[pIdx] == input[sIdx]) {
			pIdx++
			sIdx++
			continue
		}

		if pIdx < len(pattern) && pattern[pIdx] == '*' {
			// Remember star position and continue greedily from current input index.
			starPattern = pIdx
			pIdx++
			starInput = sIdx
			continue
		}

		if starPattern >= 0 {
			// Mismatch after a previous star: backtrack pattern to token after '*'
			// and let '*' consume one more input byte.
			pIdx = starPattern + 1
			starInput++
			sIdx = starInput
			continue
		}

		return false
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}

// matchPathSegmentsAt matches precompiled path segments starting at candidate boundary index.
func matchPathSegmentsAt(pattern []segmentPattern, candidate string, start int) (int, bool) {
	if start < 0 || start >= len(candidate) {
		return 0, false
	}

	index := start
	for seg := range pattern {
		end := index
		for end < len(candidate) && candidate[end] != '/' {
			end++
		}

		if end == index {
			return 0, false
		}

		if !matchSegmentPattern(pattern[seg], candidate[index:end]) {
			return 0, false
		}

		index = end
		if seg == len(pattern)-1 {
			// Return end position to let caller validate terminal constraints
			// (full match vs descendant match).
			return index, true
		}

		if index >= len(candidate) || candidate[index] != '/' {
			return 0, false
		}

		index++
	}

	return index, true
}

// globToRegexComponent converts a gitignore-like component pattern to regex body.
func globToRegexComponent(pat string) string {
	var b strings.Builder

	for i := 0; i < len(pat); i++ {
		if next, ok := appendCharClassRegex(pat, i, &b); ok {
			i = next
			continue
		}

		c := pat[i]
		switch c {
		case '*':
			// Treat ** as * when matching a single path component.
			if i+1 < len(pat) && pat[i+1] == '*' {
				i++
			}
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			b.WriteString(regexEscapeByte(c))
		}
	}

	return b.String()
}

// globToRegexPath converts a gitignore-like path pattern to regex body.
func globToRegexPath(pat string) string {
	var b strings.Builder

	for i := 0; i < len(pat); i++ {
		// Handle "**/" so it can match zero or more directories.
		if pat[i] == '*' && i+2 < len(pat) && pat[i+1] == '*' && pat[i+2] == '/' {
			b.WriteString(`(?:.*/)?`)
			i += 2
			continue
		}

		if next, ok := appendCharClassRegex(pat, i, &b); ok {
			i = next
			continue
		}

		c := pat[i]
		switch c {
		case '*':
			if i+1 < len(pat) && pat[i+1] == '*' {
				b.WriteString(`.*`)
				i++
				continue
			}
			b.WriteString(`[^/]*`)
		case '?':
			b.WriteString(`[^/]`)
		default:
			b.WriteString(regexEscapeByte(c))
		}
	}

	return b.String()
}

// appendCharClassRegex appends a parsed glob char class (`[...]`) as regex class.
func appendCharClassRegex(pat string, start int, b *strings.Builder) (int, bool) {
	if start < 0 || start >= len(pat) || pat[start] != '[' {
		return start, false
	}

	end := findCharClassEnd(pat, start)
	if end < 0 {
		return start, false
	}

	b.WriteByte('[')

	idx := start + 1
	if idx < end && pat[idx] == '!' {
		// gitignore-style class negation "[!x]" maps to regex "[^x]".
		b.WriteByte('^')
		idx++
	} else if idx < end && pat[idx] == '^' {
		// Literal leading '^' must be escaped in regex char class.
		b.WriteString(`\^`)
		idx++
	}

	if idx < end && pat[idx] == ']' {
		// Leading ']' is treated as literal in both glob and regex classes.
		b.WriteByte(']')
		idx++
	}

	for ; idx < end; idx++ {
		if pat[idx] == '\\' {
			b.WriteString(`\\`)
			continue
		}

		b.WriteByte(pat[idx])
	}

	b.WriteByte(']')
	return end, true
}

// findCharClassEnd locates closing bracket for a glob char class.
func findCharClassEnd(pat string, start int) int {
	if start < 0 || start >= len(pat) || pat[start] != '[' {
		return -1
	}

	idx := start + 1
	if idx < len(pat) && (pat[idx] == '!' || pat[idx] == '^') {
		idx++
	}

	if idx < len(pat) && pat[idx] == ']' {
		idx++
	}

	for ; idx < len(pat); idx++ {
		if pat[idx] == ']' {
			return idx
		}
	}

	return -1
}

// regexEscapeByte escapes one byte for regexp source.
func regexEscapeByte(c byte) string {
	switch c {
	case '.', '+', '(', ')', '|', '{', '}', '[', ']', '^', '$', '\\':
		return `\` + string(c)
	default:
		return string(c)
	}
}
