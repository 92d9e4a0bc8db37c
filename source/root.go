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

package source

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/protolink/schemac/location"
)

// Entry is one file discovered under a Root: its Location and raw contents.
type Entry struct {
	Location location.Location
	Data     []byte
}

// Root is one search root of a SourceSet: a directory, a zip/jar archive, or
// a single file.
type Root interface {
	// Base identifies this root for Location.Base.
	Base() string
	// Locate returns the contents of importPath if this root contains it.
	Locate(importPath string) ([]byte, bool, error)
	// Enumerate returns every ".proto" file transitively under this root,
	// in a stable, deterministic order.
	Enumerate() ([]Entry, error)
}

// NewRoot inspects base using fsys and returns the appropriate Root
// implementation: a directory root, an archive root, or (if base names
// neither) a single-file root.
func NewRoot(fsys Filesystem, base string) (Root, error) {
	switch {
	case fsys.IsDirectory(base):
		return &dirRoot{fsys: fsys, base: base}, nil
	case fsys.IsArchive(base):
		return newArchiveRoot(fsys, base)
	default:
		return &fileRoot{fsys: fsys, base: base}, nil
	}
}

// dirRoot walks a filesystem directory recursively via the injected
// Filesystem.
type dirRoot struct {
	fsys Filesystem
	base string
}

func (r *dirRoot) Base() string { return r.base }

func (r *dirRoot) Locate(importPath string) ([]byte, bool, error) {
	full := filepath.Join(r.base, filepath.FromSlash(importPath))
	if !r.fsys.IsDirectory(r.base) {
		return nil, false, nil
	}
	rc, err := r.fsys.Open(full)
	if err != nil {
		return nil, false, nil //nolint:nilerr // absence is reported via the bool, not an error
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *dirRoot) Enumerate() ([]Entry, error) {
	var entries []Entry
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		children, err := r.fsys.List(dir)
		if err != nil {
			return err
		}
		sort.Strings(children)
		for _, child := range children {
			name := filepath.Base(child)
			childRel := path.Join(rel, name)
			if r.fsys.IsDirectory(child) {
				if err := walk(child, childRel); err != nil {
					return err
				}
				continue
			}
			if !strings.HasSuffix(childRel, ".proto") {
				continue
			}
			rc, err := r.fsys.Open(child)
			if err != nil {
				return err
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return err
			}
			entries = append(entries, Entry{
				Location: location.File(r.base, childRel),
				Data:     data,
			})
		}
		return nil
	}
	if err := walk(r.base, ""); err != nil {
		return nil, err
	}
	return entries, nil
}

// archiveRoot reads a read-only zip-format container; the whole archive is
// buffered into memory so it can be consulted repeatedly without keeping
// an OS file handle open for the SchemaLoader's lifetime.
type archiveRoot struct {
	base    string
	entries map[string][]byte
	order   []string
}

func newArchiveRoot(fsys Filesystem, base string) (*archiveRoot, error) {
	rc, err := fsys.Open(base)
	if err != nil {
		return nil, fmt.Errorf("opening archive %q: %w", base, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading archive %q: %w", base, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive %q: %w", base, err)
	}

	root := &archiveRoot{base: base, entries: map[string][]byte{}}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".proto") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("reading %q from archive %q: %w", f.Name, base, err)
		}
		contents, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %q from archive %q: %w", f.Name, base, err)
		}
		root.entries[f.Name] = contents
		root.order = append(root.order, f.Name)
	}
	sort.Strings(root.order)
	return root, nil
}

func (r *archiveRoot) Base() string { return r.base }

func (r *archiveRoot) Locate(importPath string) ([]byte, bool, error) {
	data, ok := r.entries[path.Clean(importPath)]
	return data, ok, nil
}

func (r *archiveRoot) Enumerate() ([]Entry, error) {
	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, Entry{
			Location: location.File(r.base, name),
			Data:     r.entries[name],
		})
	}
	return entries, nil
}

// fileRoot is a single-file root: it yields itself and resolves only its
// own path (spec Open Question (b): any import under a sibling directory
// requires an explicit proto-path entry).
type fileRoot struct {
	fsys Filesystem
	base string
}

func (r *fileRoot) Base() string { return r.base }

func (r *fileRoot) Locate(importPath string) ([]byte, bool, error) {
	if importPath != r.base && path.Base(importPath) != path.Base(r.base) {
		return nil, false, nil
	}
	rc, err := r.fsys.Open(r.base)
	if err != nil {
		return nil, false, nil //nolint:nilerr
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *fileRoot) Enumerate() ([]Entry, error) {
	rc, err := r.fsys.Open(r.base)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return []Entry{{Location: location.File("", r.base), Data: data}}, nil
}
