// Copyright 2024 The Schemac Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source_test

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/source"
)

// memFS is a minimal in-memory Filesystem fake used to test roots without
// touching the real filesystem.
type memFS struct {
	dirs  map[string][]string // dir -> children (full paths)
	files map[string]string
}

func newMemFS() *memFS {
	return &memFS{dirs: map[string][]string{}, files: map[string]string{}}
}

func (m *memFS) addFile(path, contents string) {
	m.files[path] = contents
}

func (m *memFS) addDir(dir string, children ...string) {
	m.dirs[dir] = children
}

func (m *memFS) Open(path string) (io.ReadCloser, error) {
	if c, ok := m.files[path]; ok {
		return io.NopCloser(strings.NewReader(c)), nil
	}
	return nil, io.ErrUnexpectedEOF
}

func (m *memFS) List(path string) ([]string, error) {
	return m.dirs[path], nil
}

func (m *memFS) IsDirectory(path string) bool {
	_, ok := m.dirs[path]
	return ok
}

func (m *memFS) IsArchive(path string) bool {
	return strings.HasSuffix(path, ".zip")
}

func TestDirRootEnumerateIsSortedAndRecursive(t *testing.T) {
	fsys := newMemFS()
	fsys.addDir("proto", "proto/a.proto", "proto/sub")
	fsys.addDir("proto/sub", "proto/sub/b.proto")
	fsys.addFile("proto/a.proto", "package a;")
	fsys.addFile("proto/sub/b.proto", "package b;")

	root, err := source.NewRoot(fsys, "proto")
	require.NoError(t, err)

	entries, err := root.Enumerate()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a.proto", entries[0].Location.Path)
	require.Equal(t, "sub/b.proto", entries[1].Location.Path)
}

func TestSetLocateEarliestRootWins(t *testing.T) {
	fsys := newMemFS()
	fsys.addDir("first", "first/x.proto")
	fsys.addFile("first/x.proto", "package first;")
	fsys.addDir("second", "second/x.proto")
	fsys.addFile("second/x.proto", "package second;")

	first, err := source.NewRoot(fsys, "first")
	require.NoError(t, err)
	second, err := source.NewRoot(fsys, "second")
	require.NoError(t, err)

	set := source.NewSet(first, second)
	loc, data, err := set.Locate("x.proto")
	require.NoError(t, err)
	require.Equal(t, "first", loc.Base)
	require.Equal(t, "package first;", string(data))
}

func TestSetLocateNotFound(t *testing.T) {
	set := source.NewSet()
	_, _, err := set.Locate("missing.proto")
	require.Error(t, err)
}

func TestArchiveRootWalksZipTree(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("pkg/a.proto")
	require.NoError(t, err)
	_, err = w.Write([]byte("package pkg;"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	fsys := newMemFS()
	fsys.files["bundle.zip"] = buf.String()

	root, err := source.NewRoot(fsys, "bundle.zip")
	require.NoError(t, err)

	entries, err := root.Enumerate()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "pkg/a.proto", entries[0].Location.Path)

	data, ok, err := root.Locate("pkg/a.proto")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "package pkg;", string(data))
}

func TestFileRootYieldsItself(t *testing.T) {
	fsys := newMemFS()
	fsys.addFile("solo.proto", "package solo;")

	root, err := source.NewRoot(fsys, "solo.proto")
	require.NoError(t, err)

	entries, err := root.Enumerate()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	sorted := make([]string, len(entries))
	for i, e := range entries {
		sorted[i] = e.Location.Path
	}
	sort.Strings(sorted)
	require.Equal(t, []string{"solo.proto"}, sorted)
}
