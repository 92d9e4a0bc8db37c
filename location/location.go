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

// Package location identifies positions in proto source files.
package location

import "fmt"

// Location identifies a file by the search root it was found under (Base)
// and its path relative to that root. Line and Column are 1-based source
// positions and are -1 when a Location refers to a whole file rather than a
// specific point within it.
//
// Location is a plain value type: two Locations are equal if and only if
// all four fields are equal.
type Location struct {
	Base   string
	Path   string
	Line   int
	Column int
}

// File returns the Location identifying path as a whole, with no line or
// column information.
func File(base, path string) Location {
	return Location{Base: base, Path: path, Line: -1, Column: -1}
}

// WithPos returns a copy of l pointing at the given 1-based line and column.
func (l Location) WithPos(line, column int) Location {
	l.Line = line
	l.Column = column
	return l
}

// HasPos reports whether l identifies a specific line/column, as opposed to
// an entire file.
func (l Location) HasPos() bool {
	return l.Line > 0
}

// String renders the location the way diagnostics report it: "path:line:col"
// when a position is present, otherwise just "path".
func (l Location) String() string {
	if l.Path == "" {
		return "<unknown>"
	}
	if !l.HasPos() {
		return l.Path
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.Path, l.Line)
}
