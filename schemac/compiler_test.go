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

package schemac

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/schema"
	"github.com/protolink/schemac/source"
	"github.com/protolink/schemac/target"
)

// memFS is a minimal in-memory source.Filesystem fake, enough to drive a
// Compiler run without touching the real filesystem.
type memFS struct {
	dirs  map[string][]string
	files map[string]string
}

func newMemFS() *memFS { return &memFS{dirs: map[string][]string{}, files: map[string]string{}} }

func (m *memFS) addFile(dir, name, contents string) {
	m.files[dir+"/"+name] = contents
	m.dirs[dir] = append(m.dirs[dir], dir+"/"+name)
}

func (m *memFS) Open(path string) (io.ReadCloser, error) {
	if c, ok := m.files[path]; ok {
		return io.NopCloser(strings.NewReader(c)), nil
	}
	return nil, io.ErrUnexpectedEOF
}
func (m *memFS) List(path string) ([]string, error) { return m.dirs[path], nil }
func (m *memFS) IsDirectory(path string) bool        { _, ok := m.dirs[path]; return ok }
func (m *memFS) IsArchive(string) bool               { return false }

type collectingHandler struct {
	claimed []string
}

func (h *collectingHandler) Handle(t *schema.Type) error {
	h.claimed = append(h.claimed, t.QualifiedName())
	return nil
}

func recordingTarget(elements []string, h *collectingHandler) target.Descriptor {
	return target.Descriptor{
		Elements: elements,
		NewHandler: func(*schema.Schema, source.Filesystem, target.Logger) (target.Handler, error) {
			return h, nil
		},
	}
}

func TestCompileSingleDirectoryRoot(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `syntax = "proto3"; package p; message M { int32 x = 1; }`)

	h := &collectingHandler{}
	c := New(Config{
		Filesystem: fs,
		SourcePath: []string{"proto"},
		Targets:    []target.Descriptor{recordingTarget([]string{"*"}, h)},
	})
	_, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p.M"}, h.claimed)
}

func TestCompileCrossFileImport(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `syntax = "proto3"; package p; import "q.proto"; message M { q.N n = 1; }`)
	fs.addFile("proto", "q.proto", `syntax = "proto3"; package q; message N {}`)

	h := &collectingHandler{}
	c := New(Config{
		Filesystem: fs,
		SourcePath: []string{"proto"},
		Targets:    []target.Descriptor{recordingTarget([]string{"*"}, h)},
	})
	_, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p.M", "q.N"}, h.claimed)
}

func TestCompileProtoPathOnlyExcludedFromDispatch(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `syntax = "proto3"; package p; import "q.proto"; message M { q.N n = 1; }`)
	fs.addFile("protopath", "q.proto", `syntax = "proto3"; package q; message N {}`)

	h := &collectingHandler{}
	c := New(Config{
		Filesystem: fs,
		SourcePath: []string{"proto"},
		ProtoPath:  []string{"protopath"},
		Targets:    []target.Descriptor{recordingTarget([]string{"*"}, h)},
	})
	_, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p.M"}, h.claimed)
}

func TestCompileMultipleTargetsLeftover(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `
syntax = "proto3";
package p;
message A { int32 x = 1; }
message B { int32 y = 1; }
`)

	first := &collectingHandler{}
	second := &collectingHandler{}
	c := New(Config{
		Filesystem: fs,
		SourcePath: []string{"proto"},
		Targets: []target.Descriptor{
			recordingTarget([]string{"p.A"}, first),
			recordingTarget([]string{"*"}, second),
		},
	})
	_, err := c.Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p.A"}, first.claimed)
	assert.Equal(t, []string{"p.B"}, second.claimed)
}

func TestCompileTreeShakingRubbish(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `
syntax = "proto3";
package p;
message Keep { int32 x = 1; }
message Drop { int32 y = 1; }
`)
	fs.addFile("proto", "vitess.proto", `syntax = "proto3"; package vitess; message X { int32 z = 1; }`)

	s, err := New(Config{
		Filesystem:         fs,
		SourcePath:         []string{"proto"},
		TreeShakingRubbish: []string{"vitess.*"},
	}).Compile(context.Background())
	require.NoError(t, err)

	_, _, ok := s.Lookup("p.Keep")
	assert.True(t, ok)
	_, _, ok = s.Lookup("p.Drop")
	assert.True(t, ok)
	_, _, ok = s.Lookup("vitess.X")
	assert.False(t, ok)
}

func TestCompileDispatchesAfterPruning(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `
syntax = "proto3";
package p;
message Keep { int32 x = 1; }
message Drop { int32 y = 1; }
`)

	h := &collectingHandler{}
	_, err := New(Config{
		Filesystem:       fs,
		SourcePath:       []string{"proto"},
		TreeShakingRoots: []string{"p.Keep"},
		Targets:          []target.Descriptor{recordingTarget([]string{"*"}, h)},
	}).Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p.Keep"}, h.claimed)
}

func TestCompileUnusedRuleDiagnostic(t *testing.T) {
	fs := newMemFS()
	fs.addFile("proto", "a.proto", `syntax = "proto3"; package p; message M { int32 x = 1; }`)

	logger := &recordingLoggerForCompiler{}
	_, err := New(Config{
		Filesystem:         fs,
		SourcePath:         []string{"proto"},
		TreeShakingRubbish: []string{"nonexistent.*"},
		Logger:             logger,
	}).Compile(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, logger.infos)
	assert.Contains(t, logger.infos[0], "nonexistent.*")
}

type recordingLoggerForCompiler struct {
	infos, warns, errs []string
}

func (l *recordingLoggerForCompiler) Info(m string)  { l.infos = append(l.infos, m) }
func (l *recordingLoggerForCompiler) Warn(m string)  { l.warns = append(l.warns, m) }
func (l *recordingLoggerForCompiler) Error(m string) { l.errs = append(l.errs, m) }
