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

// Package schemac wires the SourceSet, ProtoParser, SchemaLoader, Linker,
// Pruner, and TargetDispatcher into one end-to-end compilation pipeline.
package schemac

import (
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/source"
	"github.com/protolink/schemac/target"
)

// Config is the complete configuration accepted by a Compiler run.
type Config struct {
	// Filesystem is the injected storage abstraction every SourcePath and
	// ProtoPath entry is resolved against.
	Filesystem source.Filesystem

	// SourcePath lists the roots (directories, archives, or single files)
	// whose files are eligible for code generation.
	SourcePath []string
	// ProtoPath lists the roots loaded only to satisfy imports.
	ProtoPath []string

	// TreeShakingRoots defaults to ["*"] — every declared type.
	TreeShakingRoots []string
	// TreeShakingRubbish defaults to an empty list.
	TreeShakingRubbish []string

	// Targets is the ordered list of backends the dispatcher routes types
	// to, first-match-wins.
	Targets []target.Descriptor

	// Parallelism bounds the loader's concurrent parse fan-out. <= 0 means
	// the loader picks a sensible default.
	Parallelism int

	// Reporter receives linker diagnostics as they're found. nil means the
	// default fail-fast-on-first-error policy.
	Reporter reporter.Reporter

	// Logger receives the core's own diagnostics (unused rules, recoverable
	// generation errors). nil means diagnostics are discarded.
	Logger Logger
}

// normalize fills in every defaultable field, returning a config safe to
// build a pipeline from.
func (c Config) normalize() Config {
	if len(c.TreeShakingRoots) == 0 {
		c.TreeShakingRoots = []string{"*"}
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	return c
}
