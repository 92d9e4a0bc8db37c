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
	art "github.com/kralicky/go-adaptive-radix-tree"

	"github.com/protolink/schemac/location"
)

// symbolIndex maps qualified names to arena indices using an adaptive
// radix tree keyed by the qualified name, indexing this package's own
// arena instead of protoreflect descriptors.
type symbolIndex struct {
	tree art.Tree
}

func newSymbolIndex() *symbolIndex {
	return &symbolIndex{tree: art.New()}
}

// declaration records where a name was first bound, for DuplicateType
// reporting.
type declaration struct {
	index int
	loc   location.Location
}

func (s *symbolIndex) lookup(name string) (declaration, bool) {
	v, found := s.tree.Search(art.Key(name))
	if !found {
		return declaration{}, false
	}
	return v.(declaration), true
}

// insert binds name to idx/loc only if it is not already bound. If name is
// already bound, the tree is left untouched and the existing declaration is
// returned with ok=true so the caller can report the collision without
// corrupting the index.
func (s *symbolIndex) insert(name string, idx int, loc location.Location) (declaration, bool) {
	if existing, found := s.lookup(name); found {
		return existing, true
	}
	s.tree.Insert(art.Key(name), declaration{index: idx, loc: loc})
	return declaration{}, false
}

func (s *symbolIndex) size() int {
	return s.tree.Size()
}
