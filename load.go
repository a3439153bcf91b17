// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5/util"
)

const (
	// attrFileName is the per-directory attributes file.
	attrFileName = ".gitattributes"
	// infoAttrPath is the repository info file under $GIT_DIR.
	infoAttrPath = "info/attributes"
	// systemAttrPath is the default per-installation attributes file.
	systemAttrPath = "/etc/gitattributes"
)

// readSource reads raw content for one attributes source.
//
// An unavailable backing store (bare repository, no index handle) reads as
// fs.ErrNotExist, the same as a missing file.
func (r *Repo) readSource(src Source) ([]byte, error) {
	switch src.Kind {
	case SourceWorkingFile:
		if r.Workdir == nil {
			return nil, fs.ErrNotExist
		}

		return util.ReadFile(r.Workdir, path.Join(src.Base, src.Name))
	case SourceIndexBlob:
		if r.Index == nil {
			return nil, fs.ErrNotExist
		}

		return r.Index.ReadBlob(path.Join(src.Base, src.Name))
	case SourceHeadBlob:
		if r.Head == nil {
			return nil, fs.ErrNotExist
		}

		return r.Head.ReadBlob(path.Join(src.Base, src.Name))
	case SourceInfoFile:
		if r.GitDir == nil {
			return nil, fs.ErrNotExist
		}

		return util.ReadFile(r.GitDir, src.Name)
	case SourceConfigFile, SourceSystemFile:
		return os.ReadFile(src.Name)
	default:
		return nil, fmt.Errorf("unsupported source kind %d", src.Kind)
	}
}
