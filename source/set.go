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
	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
)

// Set is a uniform read interface over an ordered list of Roots. When
// multiple roots contain the same import path, the earliest root in the
// list wins — this ordering is an observable, user-facing guarantee (spec
// §4.1) and every method here preserves it by scanning roots in order.
type Set struct {
	roots []Root
}

// NewSet builds a Set from already-constructed roots, preserving order.
func NewSet(roots ...Root) *Set {
	return &Set{roots: roots}
}

// Locate returns the Location and contents of importPath, found under the
// first root (in list order) that contains it.
func (s *Set) Locate(importPath string) (location.Location, []byte, error) {
	for _, root := range s.roots {
		data, ok, err := root.Locate(importPath)
		if err != nil {
			return location.Location{}, nil, &reporter.IoError{Path: importPath, Err: err}
		}
		if ok {
			return location.File(root.Base(), importPath), data, nil
		}
	}
	return location.Location{}, nil, &reporter.ImportNotFound{ImportPath: importPath}
}

// Enumerate returns every ".proto" file transitively under every root, in
// root order and then each root's own deterministic order.
func (s *Set) Enumerate() ([]Entry, error) {
	var all []Entry
	for _, root := range s.roots {
		entries, err := root.Enumerate()
		if err != nil {
			return nil, &reporter.IoError{Path: root.Base(), Err: err}
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Roots returns the underlying root list, in order.
func (s *Set) Roots() []Root { return s.roots }
