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

package linker

import (
	"fmt"
	"strings"

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// validateOptions covers ledger item 7: every option value is checked
// against its declared field's type, whether that field is a plain field
// of the relevant *Options holder message (from the implicitly-loaded
// descriptor proto) or a custom extension field declared by an `extend`
// block.
func (l *linker) validateOptions(files []*schema.ProtoFile) {
	for _, f := range files {
		l.checkOptionSet(f.FileOptions, "google.protobuf.FileOptions")
		for _, t := range f.Declared {
			switch t.Kind {
			case schema.MessageKind:
				l.checkOptionSet(t.Message.Options, "google.protobuf.MessageOptions")
				for _, field := range t.Message.Fields {
					l.checkOptionSet(field.Options, "google.protobuf.FieldOptions")
				}
				for _, er := range t.Message.ExtensionRanges {
					l.checkOptionSet(er.Options, "google.protobuf.ExtensionRangeOptions")
				}
			case schema.EnumKind:
				l.checkOptionSet(t.Enum.Options, "google.protobuf.EnumOptions")
				for i := range t.Enum.Values {
					l.checkOptionSet(t.Enum.Values[i].Options, "google.protobuf.EnumValueOptions")
				}
			}
		}
		for _, svc := range f.Services {
			l.checkOptionSet(svc.Options, "google.protobuf.ServiceOptions")
			for _, rpc := range svc.Rpcs {
				l.checkOptionSet(rpc.Options, "google.protobuf.MethodOptions")
			}
		}
	}
}

func (l *linker) checkOptionSet(opts []schema.Option, holderTypeName string) {
	for _, opt := range opts {
		l.checkOption(opt, holderTypeName)
	}
}

func (l *linker) checkOption(opt schema.Option, holderTypeName string) {
	if strings.HasPrefix(opt.Name, "(") {
		l.checkExtensionOption(opt, holderTypeName)
		return
	}

	t, _, ok := l.schema.Lookup(holderTypeName)
	if !ok || t.Kind != schema.MessageKind {
		// descriptor.proto wasn't resolvable; nothing to check against.
		return
	}
	field := t.Message.FieldByName(opt.Name)
	if field == nil {
		// unknown plain option names are retained uninterpreted, per the
		// ProtoParser's documented contract — not an error.
		return
	}
	l.checkValueKind(field.Type, opt.Value, opt.Pos)
}

func (l *linker) checkExtensionOption(opt schema.Option, holderTypeName string) {
	extName, trailing := splitExtensionOptionName(opt.Name)
	field, ok := l.extensionFieldsByName[extName]
	if !ok {
		l.h.HandleError(&reporter.ValidationError{Pos: opt.Pos, Message: fmt.Sprintf("unknown extension option %q", opt.Name)})
		return
	}
	if field.Extendee.Resolved {
		if _, wantIdx, wantOk := l.schema.Lookup(holderTypeName); wantOk && field.Extendee.Index != wantIdx {
			l.h.HandleError(&reporter.ValidationError{Pos: opt.Pos, Message: fmt.Sprintf("extension %q does not extend %s", extName, holderTypeName)})
			return
		}
	}

	target := field.Type
	for _, segment := range trailing {
		if !target.Resolved || target.Index < 0 {
			return
		}
		t := l.schema.TypeAt(target.Index)
		if t.Kind != schema.MessageKind {
			return
		}
		next := t.Message.FieldByName(segment)
		if next == nil {
			l.h.HandleError(&reporter.ValidationError{Pos: opt.Pos, Message: fmt.Sprintf("%q has no field %q", t.Message.QualifiedName, segment)})
			return
		}
		target = next.Type
	}
	l.checkValueKind(target, opt.Value, opt.Pos)
}

// splitExtensionOptionName splits "(pkg.Ext).trailing.path" into
// ("pkg.Ext", ["trailing", "path"]).
func splitExtensionOptionName(name string) (string, []string) {
	if !strings.HasPrefix(name, "(") {
		return name, nil
	}
	end := strings.Index(name, ")")
	if end < 0 {
		return name, nil
	}
	ext := name[1:end]
	rest := strings.TrimPrefix(name[end+1:], ".")
	if rest == "" {
		return ext, nil
	}
	return ext, strings.Split(rest, ".")
}

// checkValueKind checks a literal value's syntactic kind against a
// resolved field type: scalar kinds must match their literal form, enum
// values must name a declared constant, and message-literal values are
// checked recursively, field by field.
func (l *linker) checkValueKind(fieldType schema.TypeRef, val schema.Value, pos location.Location) {
	if !fieldType.Resolved {
		return
	}
	if fieldType.Index < 0 {
		l.checkScalarValueKind(fieldType.Name, val, pos)
		return
	}
	t := l.schema.TypeAt(fieldType.Index)
	switch t.Kind {
	case schema.EnumKind:
		if val.Kind != schema.KindIdent {
			l.h.HandleError(&reporter.ValidationError{Pos: pos, Message: fmt.Sprintf("expected enum value name for %q, found a %s literal", t.Enum.QualifiedName, valueKindName(val.Kind))})
			return
		}
		for _, ev := range t.Enum.Values {
			if ev.Name == val.Ident {
				return
			}
		}
		l.h.HandleError(&reporter.ValidationError{Pos: pos, Message: fmt.Sprintf("%q is not a value of enum %q", val.Ident, t.Enum.QualifiedName)})
	case schema.MessageKind:
		if val.Kind != schema.KindMessageLiteral {
			l.h.HandleError(&reporter.ValidationError{Pos: pos, Message: fmt.Sprintf("expected a message literal for %q, found a %s literal", t.Message.QualifiedName, valueKindName(val.Kind))})
			return
		}
		seen := map[string]bool{}
		for _, entry := range val.Message {
			f := t.Message.FieldByName(entry.Name)
			if f == nil {
				l.h.HandleError(&reporter.ValidationError{Pos: entry.Value.Pos, Message: fmt.Sprintf("%q has no field %q", t.Message.QualifiedName, entry.Name)})
				continue
			}
			if seen[entry.Name] && f.Label != schema.Repeated {
				l.h.HandleError(&reporter.ValidationError{Pos: entry.Value.Pos, Message: fmt.Sprintf("non-repeated field %q of %q is set more than once", entry.Name, t.Message.QualifiedName)})
				continue
			}
			seen[entry.Name] = true
			l.checkValueKind(f.Type, entry.Value, entry.Value.Pos)
		}
	}
}

func (l *linker) checkScalarValueKind(scalar string, val schema.Value, pos location.Location) {
	var ok bool
	switch scalar {
	case "bool":
		ok = val.Kind == schema.KindBool
	case "string", "bytes":
		ok = val.Kind == schema.KindString
	case "double", "float":
		ok = val.Kind == schema.KindFloat || val.Kind == schema.KindInt || val.Kind == schema.KindUint
	case "int32", "int64", "sint32", "sint64", "sfixed32", "sfixed64":
		ok = val.Kind == schema.KindInt || val.Kind == schema.KindUint
	case "uint32", "uint64", "fixed32", "fixed64":
		ok = val.Kind == schema.KindUint
	default:
		ok = true
	}
	if !ok {
		l.h.HandleError(&reporter.ValidationError{Pos: pos, Message: fmt.Sprintf("value of kind %s does not match scalar type %q", valueKindName(val.Kind), scalar)})
	}
}

func valueKindName(k schema.ValueKind) string {
	switch k {
	case schema.KindBool:
		return "bool"
	case schema.KindInt:
		return "int"
	case schema.KindUint:
		return "uint"
	case schema.KindFloat:
		return "float"
	case schema.KindString:
		return "string"
	case schema.KindIdent:
		return "identifier"
	case schema.KindMessageLiteral:
		return "message literal"
	case schema.KindList:
		return "list"
	default:
		return "unknown"
	}
}
