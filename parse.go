// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// macroPrefix introduces a macro definition line.
const macroPrefix = "[attr]"

// macroStore gives the parser access to the macro registry.
//
// Lookup expands True-valued assignments that name a macro; insert registers
// macro definitions encountered in eligible files so that later lines can
// reference them.
type macroStore interface {
	lookupMacro(name string) *rule
	insertMacro(r *rule)
}

// parseAttrFile parses one attributes source into its ordered rule list.
//
// Semantics, matching git:
//   - blank lines and "#" comments are ignored
//   - "[attr]name assignments..." defines a macro, registered only when
//     allowMacros is set; ineligible files skip the line entirely
//   - negative ("!") patterns are ignored lines in attributes files
//   - a line whose pattern or any attribute name is malformed contributes nothing
//   - patterns with spaces use C-style double quoting
func parseAttrFile(content []byte, src Source, macros macroStore, allowMacros bool) (*attrFile, error) {
	f := &attrFile{
		source: src,
		relDir: sourceRelDir(src),
	}

	s := bufio.NewScanner(bytes.NewReader(content))
	for s.Scan() {
		line := strings.TrimRight(s.Text(), "\r")
		line = strings.TrimLeft(line, " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, `\#`) {
			line = line[1:]
		}

		if rest, ok := strings.CutPrefix(line, macroPrefix); ok {
			if !allowMacros || macros == nil {
				continue
			}

			name, body := splitToken(rest)
			if !validAttrName(name) {
				continue
			}

			assigns, err := parseAssignments(body, macros)
			if err != nil || len(assigns) == 0 {
				continue
			}

			macros.insertMacro(&rule{match: macroSpec(name), assigns: assigns})
			continue
		}

		pattern, rest, ok := splitPattern(line)
		if !ok || strings.HasPrefix(pattern, "!") {
			continue
		}

		spec, err := compileMatchSpec(pattern)
		if err != nil {
			continue
		}

		assigns, err := parseAssignments(rest, macros)
		if err != nil || len(assigns) == 0 {
			continue
		}

		f.rules = append(f.rules, rule{match: spec, assigns: assigns})
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan attributes: %w", err)
	}

	return f, nil
}

// parseAssignments parses whitespace-separated attribute tokens into a sorted list.
//
// Token forms: "name" (set), "-name" (unset), "!name" (unspecified),
// "name=value" (text). A True-valued token naming a registered macro splices
// the macro's assignments in at the token's position.
func parseAssignments(text string, macros macroStore) ([]assignment, error) {
	var list []assignment

	for _, tok := range strings.Fields(text) {
		name := tok
		value := TrueValue()

		switch {
		case strings.HasPrefix(tok, "-"):
			name, value = tok[1:], FalseValue()
		case strings.HasPrefix(tok, "!"):
			name, value = tok[1:], UnspecifiedValue()
		default:
			if eq := strings.IndexByte(tok, '='); eq >= 0 {
				name, value = tok[:eq], StringValue(tok[eq+1:])
			}
		}

		if !validAttrName(name) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, tok)
		}

		list = insertAssign(list, assignment{
			name:  name,
			hash:  nameHash(name),
			value: value,
		})

		if value.Kind != ValueTrue || macros == nil {
			continue
		}

		if m := macros.lookupMacro(name); m != nil {
			for _, a := range m.assigns {
				list = insertAssign(list, a)
			}
		}
	}

	return list, nil
}

// splitPattern cuts the pattern token off an attributes line.
//
// A leading double quote starts a C-style quoted pattern that may contain
// whitespace.
func splitPattern(line string) (string, string, bool) {
	if line == "" {
		return "", "", false
	}

	if line[0] != '"' {
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			return line[:i], line[i+1:], true
		}

		return line, "", true
	}

	for i := 1; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}

		if line[i] == '"' {
			pattern, err := strconv.Unquote(line[:i+1])
			if err != nil {
				return "", "", false
			}

			return pattern, line[i+1:], true
		}
	}

	return "", "", false
}

// splitToken cuts the first whitespace-delimited token off a line remainder.
func splitToken(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}

	return s, ""
}

// validAttrName reports whether name is a legal attribute or macro name.
//
// Legal names use ASCII alphanumerics, "-", "_" and "." and do not start
// with a dash.
func validAttrName(name string) bool {
	if name == "" || name[0] == '-' {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}

	return true
}

// sourceRelDir returns the directory walked sources anchor their patterns to.
func sourceRelDir(src Source) string {
	switch src.Kind {
	case SourceWorkingFile, SourceIndexBlob, SourceHeadBlob:
		return src.Base
	default:
		return ""
	}
}
