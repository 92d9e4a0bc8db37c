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

package schema

import (
	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
)

// Schema owns the full set of loaded ProtoFiles plus an arena of Type
// declarations indexed by qualified name. It is built incrementally by the
// Linker's Pass A/Pass B and is treated as immutable by the Pruner and
// TargetDispatcher once linking completes. The Pruner produces a new
// Schema rather than mutating this one.
type Schema struct {
	Files []*ProtoFile

	arena []*Type
	index *symbolIndex
}

// New returns an empty Schema ready for declaration indexing.
func New() *Schema {
	return &Schema{index: newSymbolIndex()}
}

// Declare inserts t into the arena under its qualified name, failing with a
// *reporter.DuplicateType if the name is already bound.
// It returns the new type's arena index.
func (s *Schema) Declare(t *Type, at location.Location) (int, error) {
	name := t.QualifiedName()
	idx := len(s.arena)
	if prev, exists := s.index.insert(name, idx, at); exists {
		// name collided: put the arena back the way it was and report.
		return -1, &reporter.DuplicateType{QualifiedName: name, First: prev.loc, Second: at}
	}
	s.arena = append(s.arena, t)
	return idx, nil
}

// Lookup returns the Type declared under name, and its arena index.
func (s *Schema) Lookup(name string) (*Type, int, bool) {
	decl, ok := s.index.lookup(name)
	if !ok {
		return nil, 0, false
	}
	return s.arena[decl.index], decl.index, true
}

// TypeAt returns the arena entry at idx.
func (s *Schema) TypeAt(idx int) *Type { return s.arena[idx] }

// Types returns every declared Type, in declaration (arena) order — the
// same order TargetDispatcher relies on for stable iteration.
func (s *Schema) Types() []*Type { return s.arena }

// Len returns the number of declared types.
func (s *Schema) Len() int { return len(s.arena) }

// Resolve fills in ref.Index from the Schema's index if ref names a
// declared type, leaving ref.Resolved false (and returning false) if it
// does not.
func (s *Schema) Resolve(ref *TypeRef) bool {
	decl, ok := s.index.lookup(ref.Name)
	if !ok {
		return false
	}
	ref.Resolved = true
	ref.Index = decl.index
	return true
}
