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

// Package loader implements the SchemaLoader: it enumerates a source path,
// parses every file it finds, then resolves each file's imports
// transitively against the source path, the proto path, and finally the
// embedded well-known types, fanning parsing out across a bounded worker
// pool.
package loader

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/parser"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
	"github.com/protolink/schemac/source"
	"github.com/protolink/schemac/wellknown"
)

// Loader resolves a Schema's complete file set: every file on the source
// path plus every file transitively imported from it.
type Loader struct {
	sourcePath  *source.Set
	protoPath   *source.Set
	parallelism int
}

// New builds a Loader. protoPath may be nil, meaning imports are resolved
// only against sourcePath and the well-known types. parallelism <= 0
// defaults to GOMAXPROCS, capped to NumCPU.
func New(sourcePath, protoPath *source.Set, parallelism int) *Loader {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); parallelism > cpus {
			parallelism = cpus
		}
	}
	if protoPath == nil {
		protoPath = source.NewSet()
	}
	return &Loader{sourcePath: sourcePath, protoPath: protoPath, parallelism: parallelism}
}

// descriptorProtoPath is always resolved as part of loading, independent
// of whether any file in the set imports it.
const descriptorProtoPath = "google/protobuf/descriptor.proto"

// Result is the fully-loaded, not-yet-linked file set.
type Result struct {
	// Files lists every parsed ProtoFile: source-set files first (in
	// enumeration order), followed by transitively-imported files sorted
	// by import path for determinism independent of fetch order.
	Files []*schema.ProtoFile
}

type parsedFile struct {
	path string
	file *schema.ProtoFile
}

// Load enumerates the source path, parses it, and resolves every import
// transitively. Parse and resolution failures are reported through h and
// do not necessarily abort the whole run (per h's Reporter policy); an I/O
// failure reading the source path or proto path, and an abort requested by
// h's Reporter, are returned directly.
func (l *Loader) Load(ctx context.Context, h *reporter.Handler) (*Result, error) {
	entries, err := l.sourcePath.Enumerate()
	if err != nil {
		return nil, err
	}

	seen := map[string]location.Location{}
	var direct []source.Entry
	for _, e := range entries {
		importPath := e.Location.Path
		if prev, ok := seen[importPath]; ok {
			if abort := h.HandleError(&reporter.DuplicatePath{ImportPath: importPath, First: prev, Second: e.Location}); abort != nil {
				return nil, abort
			}
			continue
		}
		seen[importPath] = e.Location
		direct = append(direct, e)
	}

	sourceFiles, err := l.parseWave(ctx, direct, h)
	if err != nil {
		return nil, err
	}
	for _, pf := range sourceFiles {
		if pf.file != nil {
			pf.file.FromSourceSet = true
		}
	}

	resolved := map[string]*schema.ProtoFile{}
	for _, pf := range sourceFiles {
		resolved[pf.path] = pf.file
	}

	// descriptor.proto is always pulled in, whether or not any file
	// imports it, so that plain option names (deprecated, packed,
	// java_package, and the rest) resolve against google.protobuf's
	// *Options messages during option validation.
	frontier := append(importsOf(sourceFiles), importEdge{path: descriptorProtoPath})
	visited := map[string]bool{}
	for path := range seen {
		visited[path] = true
	}

	for len(frontier) > 0 {
		var toFetch []importEdge
		for _, imp := range frontier {
			if visited[imp.path] {
				continue
			}
			visited[imp.path] = true
			toFetch = append(toFetch, imp)
		}
		frontier = nil
		if len(toFetch) == 0 {
			continue
		}
		sort.Slice(toFetch, func(i, j int) bool { return toFetch[i].path < toFetch[j].path })

		var entries []source.Entry
		for _, imp := range toFetch {
			e, ok, err := l.locate(imp.path)
			if err != nil {
				return nil, err
			}
			if !ok {
				if abort := h.HandleError(&reporter.ImportNotFound{ImportingFile: imp.importingFile, ImportPath: imp.path}); abort != nil {
					return nil, abort
				}
				continue
			}
			entries = append(entries, e)
		}

		parsed, err := l.parseWave(ctx, entries, h)
		if err != nil {
			return nil, err
		}
		for _, pf := range parsed {
			resolved[pf.path] = pf.file
			if pf.file != nil {
				frontier = append(frontier, importsOf([]parsedFile{pf})...)
			}
		}
	}

	var importedPaths []string
	for path, file := range resolved {
		if file == nil {
			continue
		}
		if !file.FromSourceSet {
			importedPaths = append(importedPaths, path)
		}
	}
	sort.Strings(importedPaths)

	result := &Result{}
	for _, pf := range sourceFiles {
		if pf.file != nil {
			result.Files = append(result.Files, pf.file)
		}
	}
	for _, path := range importedPaths {
		result.Files = append(result.Files, resolved[path])
	}
	return result, nil
}

// locate resolves importPath against the source path, then the proto
// path, then the embedded well-known types, in that order.
func (l *Loader) locate(importPath string) (source.Entry, bool, error) {
	var notFound *reporter.ImportNotFound

	loc, data, err := l.sourcePath.Locate(importPath)
	if err == nil {
		return source.Entry{Location: loc, Data: data}, true, nil
	} else if !errors.As(err, &notFound) {
		return source.Entry{}, false, err
	}

	loc, data, err = l.protoPath.Locate(importPath)
	if err == nil {
		return source.Entry{Location: loc, Data: data}, true, nil
	} else if !errors.As(err, &notFound) {
		return source.Entry{}, false, err
	}

	if src, ok := wellknown.Lookup(importPath); ok {
		return source.Entry{Location: location.File("wellknown", importPath), Data: []byte(src)}, true, nil
	}
	return source.Entry{}, false, nil
}

// parseWave parses a batch of entries concurrently, bounded by
// l.parallelism, preserving the per-entry association between import path
// and resulting ProtoFile.
func (l *Loader) parseWave(ctx context.Context, entries []source.Entry, h *reporter.Handler) ([]parsedFile, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	results := make([]parsedFile, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)
	var mu sync.Mutex
	var abortErr error

	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			file, err := parser.Parse(e.Location.Base, e.Location.Path, e.Data, h)
			mu.Lock()
			results[i] = parsedFile{path: e.Location.Path, file: file}
			if err != nil && abortErr == nil {
				abortErr = err
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if abortErr != nil {
		return nil, abortErr
	}
	return results, nil
}

// importEdge names one file's import, so a later ImportNotFound diagnostic
// can name the file that requested the missing path.
type importEdge struct {
	path          string
	importingFile string
}

func importsOf(files []parsedFile) []importEdge {
	var out []importEdge
	for _, pf := range files {
		if pf.file == nil {
			continue
		}
		for _, imp := range pf.file.Imports {
			out = append(out, importEdge{path: imp, importingFile: pf.file.Location.Path})
		}
	}
	return out
}
