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

// Package linker implements the two-pass linker: Pass A assigns every
// declared Type its place in the Schema's arena, Pass B resolves every
// reference (field types, RPC request/response types, extendees, option
// names) against proto's lexical scoping rules, and a validation step
// checks the structural invariants the Schema must hold. Every error
// encountered is accumulated into the supplied Handler rather than
// aborting the run, collecting everything over one Schema's arena-based
// representation instead of protoreflect descriptors.
package linker

import (
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// linker holds the mutable state threaded through both passes.
type linker struct {
	schema *schema.Schema
	h      *reporter.Handler

	// fileOf maps an arena index to the ProtoFile that declared it,
	// including synthetic map-entry messages (mapped to the file owning
	// the message that declared the map field).
	fileOf map[int]*schema.ProtoFile

	// byPath indexes every loaded file by its import path, for import
	// visibility computation in Pass B.
	byPath map[string]*schema.ProtoFile

	// extensionsByTarget collects every extend block's fields, keyed by
	// the resolved arena index of the extendee, once Pass B has resolved
	// extendee references.
	extensionsByTarget map[int][]*schema.Field

	// extensionFieldsByName indexes every extension field by its own
	// qualified name ("scope.field_name"), the form option paths like
	// "(scope.field_name)" reference (populated by passB).
	extensionFieldsByName map[string]*schema.Field
}

// Link runs both passes and the validation ledger over files, returning the
// resulting Schema. The returned error is nil unless h's Reporter aborted
// the run early; callers should also check h.Error() for the accumulated
// diagnostics regardless of whether Link itself returned an error.
func Link(files []*schema.ProtoFile, h *reporter.Handler) (*schema.Schema, error) {
	l := &linker{
		schema:             schema.New(),
		h:                  h,
		fileOf:             map[int]*schema.ProtoFile{},
		byPath:             map[string]*schema.ProtoFile{},
		extensionsByTarget: map[int][]*schema.Field{},
	}
	for _, f := range files {
		l.byPath[f.Location.Path] = f
		l.schema.Files = append(l.schema.Files, f)
	}

	if err := l.passA(files); err != nil {
		return nil, err
	}
	if err := l.desugarMaps(files); err != nil {
		return nil, err
	}
	if err := l.passB(files); err != nil {
		return nil, err
	}
	l.validate(files)

	return l.schema, nil
}

// passA walks every file's Declared list (top-level and nested message/enum
// types, in pre-order) and inserts each into the Schema's arena.
func (l *linker) passA(files []*schema.ProtoFile) error {
	for _, f := range files {
		for _, t := range f.Declared {
			idx, err := l.schema.Declare(t, t.DeclLocation())
			if err != nil {
				if abort := l.h.HandleError(err); abort != nil {
					return abort
				}
				continue
			}
			l.fileOf[idx] = f
		}
	}
	return nil
}
