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

// Package source implements the SourceSet: a uniform read interface over an
// ordered list of search roots, each a directory, a zip/jar archive, or a
// single file.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Filesystem is the injected abstraction the core uses for all storage
// access. Implementations must be safe for concurrent use, since the
// SchemaLoader may fan out parsing of independent files across goroutines.
type Filesystem interface {
	// Open returns a readable stream for path, or an error if it does not
	// exist or cannot be read.
	Open(path string) (io.ReadCloser, error)
	// List returns the immediate children of path (files and
	// subdirectories). It is only called when IsDirectory(path) is true.
	List(path string) ([]string, error)
	// IsDirectory reports whether path names a directory.
	IsDirectory(path string) bool
	// IsArchive reports whether path names a zip-format archive.
	IsArchive(path string) bool
}

// OSFilesystem is the default Filesystem, backed directly by the host
// operating system.
type OSFilesystem struct{}

var _ Filesystem = OSFilesystem{}

func (OSFilesystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (OSFilesystem) List(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.Join(path, e.Name()))
	}
	return out, nil
}

func (OSFilesystem) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFilesystem) IsArchive(path string) bool {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".zip" || ext == ".jar"
}
