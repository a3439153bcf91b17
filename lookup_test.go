// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/gitattr

package gitattr

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// mapBlobReader serves blobs from a fixed map, missing paths read as absent.
type mapBlobReader map[string]string

func (m mapBlobReader) ReadBlob(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}

	return []byte(content), nil
}

// errBlobReader fails every read with a fixed error.
type errBlobReader struct{ err error }

func (e errBlobReader) ReadBlob(string) ([]byte, error) {
	return nil, e.err
}

// writeTree materializes path/content pairs on a billy filesystem.
func writeTree(tb testing.TB, fsys billy.Filesystem, files map[string]string) {
	tb.Helper()

	for name, content := range files {
		require.NoError(tb, util.WriteFile(fsys, name, []byte(content), 0o644))
	}
}

// newTestRepo builds an in-memory repository from work-tree and git-dir trees.
//
// A nil work tree yields a bare repository. The system file points at a path
// that does not exist, so host configuration never leaks into tests.
func newTestRepo(tb testing.TB, work, git map[string]string) *Repo {
	tb.Helper()

	r := &Repo{
		GitDir:     memfs.New(),
		SystemFile: filepath.Join(tb.TempDir(), "no-system"),
	}

	if work != nil {
		r.Workdir = memfs.New()
		writeTree(tb, r.Workdir, work)
	}

	writeTree(tb, r.GitDir, git)

	return r
}

func TestGetBasic(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.txt text\n*.iso -text\n*.md eol=lf\n",
	}, nil)

	cases := []struct {
		path string
		name string
		want Value
	}{
		{"notes.txt", "text", TrueValue()},
		{"image.iso", "text", FalseValue()},
		{"README.md", "eol", StringValue("lf")},
		{"notes.txt", "eol", UnspecifiedValue()},
		{"main.go", "text", UnspecifiedValue()},
	}

	for _, tc := range cases {
		got, err := r.Get(CheckOptions{}, tc.path, tc.name)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "Get(%q, %q)", tc.path, tc.name)
	}
}

func TestGetDeeperDirectoryWins(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes":          "*.c eol=lf\n",
		"vendor/.gitattributes":   "*.c eol=crlf\n",
		"vendor/x/.gitattributes": "*.c -text\n",
	}, nil)

	got, err := r.Get(CheckOptions{}, "main.c", "eol")
	require.NoError(t, err)
	require.Equal(t, StringValue("lf"), got)

	got, err = r.Get(CheckOptions{}, "vendor/lib.c", "eol")
	require.NoError(t, err)
	require.Equal(t, StringValue("crlf"), got)

	// The deepest file says nothing about eol, so the next level up answers.
	got, err = r.Get(CheckOptions{}, "vendor/x/gen.c", "eol")
	require.NoError(t, err)
	require.Equal(t, StringValue("crlf"), got)

	got, err = r.Get(CheckOptions{}, "vendor/x/gen.c", "text")
	require.NoError(t, err)
	require.Equal(t, FalseValue(), got)
}

func TestGetInfoFileOverridesAll(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes":     "*.c text=work\n",
		"sub/.gitattributes": "*.c text=sub\n",
	}, map[string]string{
		"info/attributes": "*.c text=info\n",
	})

	got, err := r.Get(CheckOptions{}, "sub/a.c", "text")
	require.NoError(t, err)
	require.Equal(t, StringValue("info"), got)
}

func TestGetSystemFile(t *testing.T) {
	t.Parallel()

	sys := filepath.Join(t.TempDir(), "gitattributes")
	require.NoError(t, os.WriteFile(sys, []byte("*.c text=auto\n*.bin diff\n"), 0o644))

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.bin -diff\n",
	}, nil)
	r.SystemFile = sys

	got, err := r.Get(CheckOptions{}, "main.c", "text")
	require.NoError(t, err)
	require.Equal(t, StringValue("auto"), got)

	// Any in-repository source outranks the system file.
	got, err = r.Get(CheckOptions{}, "blob.bin", "diff")
	require.NoError(t, err)
	require.Equal(t, FalseValue(), got)

	got, err = r.Get(CheckOptions{NoSystem: true}, "main.c", "text")
	require.NoError(t, err)
	require.Equal(t, UnspecifiedValue(), got)
}

func TestGetDirectoryQuery(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "build/ export-ignore\n",
	}, nil)

	got, err := r.Get(CheckOptions{}, "build/", "export-ignore")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)

	// Without the trailing slash the query is a file path.
	got, err = r.Get(CheckOptions{}, "build", "export-ignore")
	require.NoError(t, err)
	require.Equal(t, UnspecifiedValue(), got)

	// Contents of the directory are not covered by a directory pattern.
	got, err = r.Get(CheckOptions{}, "build/a.o", "export-ignore")
	require.NoError(t, err)
	require.Equal(t, UnspecifiedValue(), got)
}

func TestGetBuiltinBinaryMacro(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.dat binary\n",
	}, nil)

	for _, name := range []string{"diff", "merge", "text"} {
		got, err := r.Get(CheckOptions{}, "blob.dat", name)
		require.NoError(t, err)
		require.Equal(t, FalseValue(), got, "attribute %q", name)
	}

	got, err := r.Get(CheckOptions{}, "blob.dat", "binary")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)
}

func TestGetFileMacroExpansion(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes":     "[attr]fancy diff merge\n*.x fancy\n",
		"sub/.gitattributes": "*.x -diff\n",
	}, nil)

	got, err := r.Get(CheckOptions{}, "a.x", "diff")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)

	got, err = r.Get(CheckOptions{}, "a.x", "merge")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)

	// A deeper direct assignment outranks the root-level macro expansion.
	got, err = r.Get(CheckOptions{}, "sub/a.x", "diff")
	require.NoError(t, err)
	require.Equal(t, FalseValue(), got)

	got, err = r.Get(CheckOptions{}, "sub/a.x", "merge")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)
}

func TestAddMacro(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.tar archived\n",
	}, nil)

	require.NoError(t, r.AddMacro("archived", "export-ignore -text"))

	got, err := r.Get(CheckOptions{}, "dist.tar", "export-ignore")
	require.NoError(t, err)
	require.Equal(t, TrueValue(), got)

	got, err = r.Get(CheckOptions{}, "dist.tar", "text")
	require.NoError(t, err)
	require.Equal(t, FalseValue(), got)
}

func TestAddMacroRedefinesBuiltin(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.dat binary\n",
	}, nil)

	// Registered before the first query, so expansion sees the new definition.
	require.NoError(t, r.AddMacro("binary", "-delta"))

	got, err := r.Get(CheckOptions{}, "blob.dat", "delta")
	require.NoError(t, err)
	require.Equal(t, FalseValue(), got)

	got, err = r.Get(CheckOptions{}, "blob.dat", "diff")
	require.NoError(t, err)
	require.Equal(t, UnspecifiedValue(), got)
}

func TestAddMacroRejectsBadInput(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, nil, nil)

	require.ErrorIs(t, r.AddMacro("-bad", "diff"), ErrInvalidName)
	require.ErrorIs(t, r.AddMacro("empty", "   "), ErrInvalidMacro)
	require.ErrorIs(t, r.AddMacro("broken", "te$t"), ErrInvalidMacro)
}

func TestGetManyMatchesGet(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes":     "*.c text eol=lf\n",
		"gen/.gitattributes": "*.c -diff linguist-generated\n",
	}, nil)

	names := []string{"text", "eol", "diff", "linguist-generated", "missing"}

	values, err := r.GetMany(CheckOptions{}, "gen/p.c", names)
	require.NoError(t, err)
	require.Len(t, values, len(names))

	for i, name := range names {
		single, err := r.Get(CheckOptions{}, "gen/p.c", name)
		require.NoError(t, err)
		require.Equal(t, single, values[i], "attribute %q", name)
	}

	require.Equal(t, UnspecifiedValue(), values[4])
}

func TestGetManyZeroNames(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, nil, nil)

	values, err := r.GetMany(CheckOptions{}, "a.c", nil)
	require.NoError(t, err)
	require.Nil(t, values)
}

func TestForEachReportsEachNameOnce(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes":     "*.c text eol=lf\n",
		"sub/.gitattributes": "*.c text=override\n",
	}, nil)

	seen := map[string]Value{}
	err := r.ForEach(CheckOptions{}, "sub/a.c", func(name string, value Value) error {
		_, dup := seen[name]
		require.False(t, dup, "attribute %q reported twice", name)
		seen[name] = value
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, map[string]Value{
		"text": StringValue("override"),
		"eol":  StringValue("lf"),
	}, seen)

	// Every reported value agrees with a direct lookup.
	for name, value := range seen {
		single, err := r.Get(CheckOptions{}, "sub/a.c", name)
		require.NoError(t, err)
		require.Equal(t, single, value)
	}
}

func TestForEachStop(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, map[string]string{
		".gitattributes": "*.c one two three four\n",
	}, nil)

	count := 0
	err := r.ForEach(CheckOptions{}, "a.c", func(string, Value) error {
		count++
		if count == 2 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	boom := errors.New("boom")
	count = 0
	err = r.ForEach(CheckOptions{}, "a.c", func(string, Value) error {
		count++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, count)
}

func TestForEachNilCallback(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, nil, nil)

	require.ErrorIs(t, r.ForEach(CheckOptions{}, "a.c", nil), ErrInvalidOptions)
}

func TestGetInvalidArguments(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t, nil, nil)

	_, err := r.Get(CheckOptions{}, "a.c", "bad name")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = r.Get(CheckOptions{}, "../outside.c", "text")
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = r.Get(CheckOptions{Order: SourceOrder(9)}, "a.c", "text")
	require.ErrorIs(t, err, ErrInvalidOptions)

	_, err = r.GetMany(CheckOptions{}, "a.c", []string{"text", ""})
	require.ErrorIs(t, err, ErrInvalidName)
}
