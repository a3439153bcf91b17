// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/gopasspw/gitconfig"
)

// BlobReader reads tracked blobs by repository-relative path.
//
// Implementations report an absent blob with an error matching
// fs.ErrNotExist; any other error aborts the query that needed the blob.
type BlobReader interface {
	ReadBlob(path string) ([]byte, error)
}

// Repo resolves attributes for paths of one repository.
//
// The zero value of every field is usable: a nil Workdir marks a bare
// repository, nil Index/Head omit those sources, a nil Config skips
// core.attributesFile lookup. Safe for concurrent queries.
type Repo struct {
	// Workdir is the working tree root, nil in a bare repository.
	Workdir billy.Filesystem
	// GitDir is the repository directory holding info/attributes.
	GitDir billy.Filesystem
	// Index reads .gitattributes blobs from the index. Optional.
	Index BlobReader
	// Head reads .gitattributes blobs from the HEAD commit. Optional.
	Head BlobReader
	// Config supplies core.attributesFile. Optional.
	Config *gitconfig.Configs
	// SystemFile overrides per-installation file discovery.
	SystemFile string
	// AttributesFile overrides the config-designated attributes file.
	AttributesFile string

	// cacheOnce guards lazy cache construction for zero-value repos.
	cacheOnce sync.Once
	// cache is the shared parsed-file store and macro registry.
	cache *attrCache
}

// New creates a repository over explicit work-tree and git-dir filesystems.
//
// Pass a nil workdir for a bare repository.
func New(workdir, gitDir billy.Filesystem) *Repo {
	return &Repo{
		Workdir: workdir,
		GitDir:  gitDir,
	}
}

// Open opens the repository rooted at dir on the host filesystem.
//
// A regular checkout (dir/.git) yields a work-tree repository; a directory
// with a bare layout (objects/ present) yields a bare one. Index and HEAD
// blob access stays nil; wire a BlobReader for object-database sources.
func Open(dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("abs repository path: %w", err)
	}

	gitDir := filepath.Join(abs, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		cfg := gitconfig.New()
		cfg.LoadAll(abs)

		return &Repo{
			Workdir: osfs.New(abs),
			GitDir:  osfs.New(gitDir),
			Config:  cfg,
		}, nil
	}

	if st, err := os.Stat(filepath.Join(abs, "objects")); err == nil && st.IsDir() {
		cfg := gitconfig.New()
		cfg.LocalConfig = "config"
		cfg.LoadAll(abs)

		return &Repo{
			GitDir: osfs.New(abs),
			Config: cfg,
		}, nil
	}

	return nil, fmt.Errorf("open %q: %w", dir, ErrNotRepository)
}

// Bare reports whether the repository has no working tree.
func (r *Repo) Bare() bool {
	return r.Workdir == nil
}

// attrs returns the lazily-built shared cache, valid for zero-value repos.
func (r *Repo) attrs() *attrCache {
	r.cacheOnce.Do(func() {
		r.cache = newAttrCache()
	})

	return r.cache
}

// configAttributesFile resolves the config-designated attributes file path.
//
// Order: explicit override, core.attributesFile, then git's XDG default
// when a repository config is present at all.
func (r *Repo) configAttributesFile() string {
	if r.AttributesFile != "" {
		return expandHome(r.AttributesFile)
	}

	if r.Config == nil {
		return ""
	}

	if v := r.Config.Get("core.attributesfile"); v != "" {
		return expandHome(v)
	}

	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "git", "attributes")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "git", "attributes")
	}

	return ""
}

// systemAttrFile locates the per-installation attributes file.
//
// Discovery stats the default location once per session; an explicit
// SystemFile override skips discovery entirely.
func (r *Repo) systemAttrFile(s *Session) string {
	if r.SystemFile != "" {
		return r.SystemFile
	}

	if s != nil && s.sysInit {
		return s.sysFile
	}

	found := ""
	if _, err := os.Stat(systemAttrPath); err == nil {
		found = systemAttrPath
	}

	if s != nil {
		s.sysFile = found
		s.sysInit = true
	}

	return found
}

// expandHome rewrites a leading "~/" against the current user's home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}

		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}

	return p
}
