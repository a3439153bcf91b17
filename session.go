// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

// Session amortizes one-time query setup across a bounded batch of queries.
//
// A session is not safe for concurrent use; give each query batch its own.
// Queries without a session stay correct and simply repeat the setup work.
type Session struct {
	// setupDone guards repeated macro preloading.
	setupDone bool
	// sysInit reports whether system file discovery already ran.
	sysInit bool
	// sysFile is the discovered system attributes file, "" when absent.
	sysFile string
}

// NewSession returns an empty query session.
func NewSession() *Session {
	return &Session{}
}

// setup preloads every source that may define macros, so definitions are
// registered before any query-time rule is parsed or evaluated.
//
// Idempotent per session. Missing sources contribute nothing; any other
// failure aborts the query that triggered setup.
func (r *Repo) setup(opts CheckOptions) error {
	s := opts.Session
	if s != nil && s.setupDone {
		return nil
	}

	c := r.attrs()

	if sys := r.systemAttrFile(s); sys != "" {
		if _, err := c.get(r, Source{Kind: SourceSystemFile, Name: sys}, true); err != nil {
			return err
		}
	}

	if cf := r.configAttributesFile(); cf != "" {
		if _, err := c.get(r, Source{Kind: SourceConfigFile, Name: cf}, true); err != nil {
			return err
		}
	}

	if _, err := c.get(r, Source{Kind: SourceInfoFile, Name: infoAttrPath}, true); err != nil {
		return err
	}

	if r.Workdir != nil {
		if _, err := c.get(r, Source{Kind: SourceWorkingFile, Name: attrFileName}, true); err != nil {
			return err
		}
	}

	if r.Index != nil {
		if _, err := c.get(r, Source{Kind: SourceIndexBlob, Name: attrFileName}, true); err != nil {
			return err
		}
	}

	if opts.IncludeHead && r.Head != nil {
		if _, err := c.get(r, Source{Kind: SourceHeadBlob, Name: attrFileName}, true); err != nil {
			return err
		}
	}

	if s != nil {
		s.setupDone = true
	}

	return nil
}
