// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

// maxLevelSources bounds the planner output per hierarchy level.
const maxLevelSources = 3

// decideSources returns the ordered source kinds to consult at one hierarchy level.
//
// A kind whose backing store is unavailable is silently omitted.
func decideSources(opts CheckOptions, hasWorkdir, hasIndex bool) []SourceKind {
	kinds := make([]SourceKind, 0, maxLevelSources)

	switch opts.Order {
	case FileThenIndex:
		if hasWorkdir {
			kinds = append(kinds, SourceWorkingFile)
		}
		if hasIndex {
			kinds = append(kinds, SourceIndexBlob)
		}
	case IndexThenFile:
		if hasIndex {
			kinds = append(kinds, SourceIndexBlob)
		}
		if hasWorkdir {
			kinds = append(kinds, SourceWorkingFile)
		}
	case IndexOnly:
		if hasIndex {
			kinds = append(kinds, SourceIndexBlob)
		}
	}

	if opts.IncludeHead {
		kinds = append(kinds, SourceHeadBlob)
	}

	return kinds
}
