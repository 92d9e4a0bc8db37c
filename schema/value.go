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

import "github.com/protolink/schemac/location"

// ValueKind discriminates the literal forms an option or default value can
// take, collapsed to exactly what option/default interpretation needs.
type ValueKind int

const (
	KindBool ValueKind = iota
	KindInt
	KindUint
	KindFloat
	KindString
	KindIdent // bare identifier: an enum value name, or an unresolved message/enum option field path component
	KindMessageLiteral
	KindList
)

// Value is a parsed literal, retained uninterpreted by the parser until the
// Linker's option interpreter type-checks it against the option field's
// declared type.
type Value struct {
	Kind  ValueKind
	Pos   location.Location
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Ident string
	List  []Value
	// Message holds a message-literal's fields in source order; duplicate
	// field names are legal for repeated fields and illegal otherwise,
	// validated during option interpretation, not parsing.
	Message []MessageLiteralField
}

// MessageLiteralField is one `name: value` or `name { ... }` entry of a
// message literal used as an option or default value.
type MessageLiteralField struct {
	Name  string
	Value Value
}

// Option is a single `[...]`-syntax or file-level option assignment. Name
// may be a simple identifier (a known, compiled-in option field) or an
// extension path such as "(custom.option).nested_field".
type Option struct {
	Name  string
	Value Value
	Pos   location.Location
}
