// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import "fmt"

// collectFiles assembles the attribute files governing one query path,
// highest precedence first:
//
//  1. $GIT_DIR/info/attributes
//  2. .gitattributes along the path hierarchy, deepest directory first,
//     per-level sources ordered by the planner
//  3. the config-designated attributes file
//  4. the per-installation system file, unless NoSystem
//
// Missing files contribute nothing; any other failure aborts the collection
// and the partial list is dropped.
func (r *Repo) collectFiles(pathname string, opts CheckOptions) ([]*attrFile, attrPath, error) {
	if !opts.Order.valid() {
		return nil, attrPath{}, fmt.Errorf("%w: source order %d", ErrInvalidOptions, opts.Order)
	}

	p, err := newAttrPath(pathname)
	if err != nil {
		return nil, attrPath{}, err
	}

	if err := r.setup(opts); err != nil {
		return nil, attrPath{}, err
	}

	c := r.attrs()
	files := make([]*attrFile, 0, 8)
	push := func(src Source, allowMacros bool) error {
		f, err := c.get(r, src, allowMacros)
		if err != nil {
			return err
		}

		if f != nil {
			files = append(files, f)
		}

		return nil
	}

	if err := push(Source{Kind: SourceInfoFile, Name: infoAttrPath}, true); err != nil {
		return nil, attrPath{}, err
	}

	for _, level := range walkUp(p.dir) {
		// Availability is level-invariant, but the decision stays per level
		// to keep the source plan visible where it is consumed.
		kinds := decideSources(opts, r.Workdir != nil, r.Index != nil)

		// During the walk only the work-tree root may introduce macros.
		allowMacros := r.Workdir != nil && level == ""

		for _, kind := range kinds {
			src := Source{Kind: kind, Base: level, Name: attrFileName}
			if err := push(src, allowMacros); err != nil {
				return nil, attrPath{}, err
			}
		}
	}

	if cf := r.configAttributesFile(); cf != "" {
		if err := push(Source{Kind: SourceConfigFile, Name: cf}, true); err != nil {
			return nil, attrPath{}, err
		}
	}

	if !opts.NoSystem {
		if sys := r.systemAttrFile(opts.Session); sys != "" {
			if err := push(Source{Kind: SourceSystemFile, Name: sys}, true); err != nil {
				return nil, attrPath{}, err
			}
		}
	}

	debugf("collected %d attribute files for %q", len(files), p.path)

	return files, p, nil
}
