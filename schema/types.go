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

// Package schema defines the compiler's data model: the arena of Type
// declarations, ProtoFiles, Fields, Services, and the Schema that ties them
// together with a qualified-name index. Before linking, a Schema's TypeRefs
// are bare name strings; after linking they are resolved arena indices,
// avoiding pointer cycles between mutually-recursive message types.
package schema

import "github.com/protolink/schemac/location"

// Syntax is a proto file's declared syntax version.
type Syntax int

const (
	Proto2 Syntax = iota
	Proto3
)

func (s Syntax) String() string {
	if s == Proto3 {
		return "proto3"
	}
	return "proto2"
}

// Label is a field's cardinality.
type Label int

const (
	Optional Label = iota
	Required
	Repeated
	OneofMember
)

// TypeRef refers to a declared Type, either by name (before Pass B) or by
// arena index (after Pass B resolves it).
type TypeRef struct {
	Name     string
	Resolved bool
	Index    int
}

// UnresolvedRef returns a TypeRef awaiting linking.
func UnresolvedRef(name string) TypeRef { return TypeRef{Name: name} }

// ReservedRange is an inclusive tag range excluded from use, from a
// `reserved N to M;` declaration. End == MaxTag means "to max".
type ReservedRange struct {
	Start, End int32
}

// MaxTag is the largest legal field tag (protobuf's field-number ceiling).
const MaxTag int32 = 1<<29 - 1

// Contains reports whether tag falls within the inclusive range.
func (r ReservedRange) Contains(tag int32) bool { return tag >= r.Start && tag <= r.End }

// ReservedTagRangeStart and ReservedTagRangeEnd bound protobuf's reserved
// tag range: field tags may never fall here.
const (
	ReservedTagRangeStart int32 = 19000
	ReservedTagRangeEnd   int32 = 19999
)

// ExtensionRange is an `extensions N to M;` declaration on a message,
// matched against extension fields that target it.
type ExtensionRange struct {
	Start, End int32
	Options    []Option
}

// Contains reports whether tag falls within the inclusive range.
func (r ExtensionRange) Contains(tag int32) bool { return tag >= r.Start && tag <= r.End }

// Field is one message field or extension field.
type Field struct {
	Name     string
	Tag      int32
	Label    Label
	Type     TypeRef
	Default  *Value
	Options  []Option
	Doc      string
	Location location.Location

	IsExtension bool
	// Extendee names the message being extended; only set when IsExtension.
	Extendee TypeRef

	IsPacked *bool

	// OneofIndex is the index into the enclosing MessageType.Oneofs this
	// field belongs to, or -1 if it is not part of a oneof.
	OneofIndex int

	// IsMap marks a `map<K, V>` field as parsed, before the Linker
	// desugars it into a synthetic nested message and rewrites Type to
	// refer to that message. MapKeyTypeName/MapValueTypeName are the
	// parsed K/V type names; they are consumed and cleared by desugaring.
	IsMap           bool
	MapKeyTypeName  string
	MapValueTypeName string

	// Synthetic is true for the key/value fields of a desugared map entry
	// message.
	Synthetic bool
}

// Oneof is a set of mutually-exclusive fields sharing the message's tag
// space.
type Oneof struct {
	Name     string
	Location location.Location
}

// MessageType is a message declaration.
type MessageType struct {
	QualifiedName string
	Location      location.Location
	Doc           string

	Fields  []*Field
	Oneofs  []*Oneof
	Nested  []string // qualified names of nested message/enum types, in declaration order
	Options []Option

	ReservedRanges []ReservedRange
	ReservedNames  []string
	ExtensionRanges []ExtensionRange

	// IsMapEntry marks a message synthesized by map-field desugaring; such
	// messages are never emitted as their own top-level declaration by a
	// well-behaved Target.
	IsMapEntry bool
}

// FieldByName returns the field named name, or nil.
func (m *MessageType) FieldByName(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// EnumValue is one `NAME = TAG;` constant of an EnumType.
type EnumValue struct {
	Name     string
	Tag      int32
	Options  []Option
	Location location.Location
}

// EnumType is an enum declaration.
type EnumType struct {
	QualifiedName string
	Location      location.Location
	Doc           string
	Values        []EnumValue
	Options       []Option
}

// TypeKind discriminates the Type union.
type TypeKind int

const (
	MessageKind TypeKind = iota
	EnumKind
)

// Type is the tagged union of MessageType and EnumType that the Schema
// arena stores.
type Type struct {
	Kind    TypeKind
	Message *MessageType
	Enum    *EnumType
}

// QualifiedName returns the fully-qualified name of the underlying
// declaration.
func (t *Type) QualifiedName() string {
	if t.Kind == MessageKind {
		return t.Message.QualifiedName
	}
	return t.Enum.QualifiedName
}

// DeclLocation returns the underlying declaration's source Location.
func (t *Type) DeclLocation() location.Location {
	if t.Kind == MessageKind {
		return t.Message.Location
	}
	return t.Enum.Location
}

// Rpc is one method of a Service.
type Rpc struct {
	Name              string
	Request, Response TypeRef
	RequestStreaming  bool
	ResponseStreaming bool
	Options           []Option
	Doc               string
	Location          location.Location
}

// Service is a service declaration.
type Service struct {
	QualifiedName string
	Rpcs          []*Rpc
	Options       []Option
	Doc           string
	Location      location.Location
}

// ExtendBlock is an `extend X { ... }` declaration, top-level or nested
// inside a message.
type ExtendBlock struct {
	Extendee TypeRef
	Fields   []*Field
	Location location.Location

	// Scope is the package or enclosing message qualified name the block
	// was declared in — the prefix each field's own extension name
	// ("scope.field_name", referenced in option paths as
	// "(scope.field_name)") is built from.
	Scope string
}

// ProtoFile is everything parsed from one .proto source text.
type ProtoFile struct {
	Location    location.Location
	PackageName string
	Syntax      Syntax

	Imports       []string
	PublicImports map[string]bool

	// TopLevelTypes holds the qualified names of this file's top-level
	// (non-nested) message and enum declarations, in declaration order.
	// Pruning retention is decided against this list, not against
	// Declared, which also includes nested types.
	TopLevelTypes []string

	// Declared holds every message/enum Type declared anywhere in this
	// file — top-level and nested — in pre-order declaration sequence.
	// The Linker's Pass A inserts each of these into the Schema arena;
	// MessageType.Nested then looks its children back up by qualified
	// name.
	Declared []*Type

	Services    []*Service
	Extends     []*ExtendBlock
	FileOptions []Option

	// FromSourceSet is true for files enumerated directly from the source
	// path, as opposed to files pulled in only to satisfy an import. The
	// TargetDispatcher's initial "remaining" set is seeded from only the
	// types declared in FromSourceSet files.
	FromSourceSet bool
}

// IsPublicImport reports whether path was imported with the `public`
// modifier.
func (f *ProtoFile) IsPublicImport(path string) bool {
	return f.PublicImports[path]
}
