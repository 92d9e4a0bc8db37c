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

package loader

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/source"
)

// memFS is a trivial in-memory source.Filesystem, mirroring the fake used
// by the source package's own tests.
type memFS struct {
	dirs  map[string]bool
	files map[string][]byte
}

func newMemFS() *memFS { return &memFS{dirs: map[string]bool{}, files: map[string][]byte{}} }

func (m *memFS) addFile(path string, data []byte) {
	m.files[path] = data
}

func (m *memFS) Open(path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memFS) List(dir string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	prefix := dir + "/"
	for p := range m.files {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			rest := p[len(prefix):]
			for i := 0; i < len(rest); i++ {
				if rest[i] == '/' {
					rest = rest[:i]
					break
				}
			}
			child := dir + "/" + rest
			if !seen[child] {
				seen[child] = true
				out = append(out, child)
			}
		}
	}
	return out, nil
}

func (m *memFS) IsDirectory(path string) bool {
	if _, ok := m.files[path]; ok {
		return false
	}
	prefix := path + "/"
	for p := range m.files {
		if len(p) > len(prefix) && p[:len(prefix)] == prefix {
			return true
		}
	}
	return path == "src" || path == "deps"
}

func (m *memFS) IsArchive(path string) bool { return false }

func TestLoaderResolvesTransitiveImports(t *testing.T) {
	fsys := newMemFS()
	fsys.addFile("src/main.proto", []byte(`
		syntax = "proto3";
		import "dep.proto";
		message Top { Dep d = 1; }
	`))
	fsys.addFile("src/dep.proto", []byte(`
		syntax = "proto3";
		message Dep { int32 x = 1; }
	`))

	root, err := source.NewRoot(fsys, "src")
	require.NoError(t, err)
	sp := source.NewSet(root)

	ld := New(sp, nil, 2)
	h := reporter.NewHandler(nil)
	result, err := ld.Load(context.Background(), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	// main.proto and dep.proto from the source path, plus the implicitly
	// loaded google/protobuf/descriptor.proto.
	require.Len(t, result.Files, 3)
	require.True(t, result.Files[0].FromSourceSet)
}

func TestLoaderFallsBackToWellKnownTypes(t *testing.T) {
	fsys := newMemFS()
	fsys.addFile("src/main.proto", []byte(`
		syntax = "proto3";
		import "google/protobuf/timestamp.proto";
		message Event { google.protobuf.Timestamp at = 1; }
	`))
	root, err := source.NewRoot(fsys, "src")
	require.NoError(t, err)
	sp := source.NewSet(root)

	ld := New(sp, nil, 2)
	h := reporter.NewHandler(nil)
	result, err := ld.Load(context.Background(), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	// main.proto, timestamp.proto, and the implicitly loaded descriptor.proto.
	require.Len(t, result.Files, 3)

	var found bool
	for _, f := range result.Files {
		if f.PackageName == "google.protobuf" {
			found = true
		}
	}
	require.True(t, found)
}

func TestLoaderReportsImportNotFound(t *testing.T) {
	fsys := newMemFS()
	fsys.addFile("src/main.proto", []byte(`
		syntax = "proto3";
		import "missing.proto";
		message Top {}
	`))
	root, err := source.NewRoot(fsys, "src")
	require.NoError(t, err)
	sp := source.NewSet(root)

	ld := New(sp, nil, 2)
	rep := &collectingReporter{}
	h := reporter.NewHandler(rep)
	_, err = ld.Load(context.Background(), h)
	require.NoError(t, err)
	require.NotEmpty(t, rep.errs)

	var notFound *reporter.ImportNotFound
	require.ErrorAs(t, rep.errs[0], &notFound)
	assert.Equal(t, "missing.proto", notFound.ImportPath)
	assert.Equal(t, "main.proto", notFound.ImportingFile)
}

type collectingReporter struct {
	errs []error
}

func (r *collectingReporter) ReportError(err error) error {
	r.errs = append(r.errs, err)
	return nil
}
func (r *collectingReporter) ReportWarning(error) {}
