// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

/*
Package gitattr resolves git attributes: the effective value of named
per-path properties (text/binary handling, diff and merge driver selection,
and any user-defined attribute) merged from every layered source a git
repository carries.

Sources are consulted in strict precedence order, highest first:
  - $GIT_DIR/info/attributes
  - .gitattributes files along the path hierarchy, deepest directory first,
    read from the working tree, the index, or HEAD per query options
  - the file named by core.attributesFile (or git's XDG default)
  - the per-installation system file

Basic flow:
  - open a repository (`Open`) or assemble one from billy filesystems and
    blob readers (`Repo` fields)
  - resolve one attribute (`Get`), a batch (`GetMany`), or enumerate
    everything assigned to a path (`ForEach`)
  - define macros at runtime (`AddMacro`); macros found in eligible files
    register themselves

Parsed files are cached per repository, so repeated queries stay cheap; a
`Session` additionally amortizes per-query setup across a batch. All query
entry points are safe for concurrent use.
*/
package gitattr
