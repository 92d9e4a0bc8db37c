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
	"strings"

	"github.com/protolink/schemac/schema"
)

// desugarMaps rewrites every `map<K, V>` field parsed into IsMap/
// MapKeyTypeName/MapValueTypeName form into a synthetic nested MapEntry
// message with `key = 1, value = 2` fields, inserting that message into
// the Schema arena and pointing the original field at it. Key/value type
// names are resolved the same way Pass B resolves ordinary field types,
// since the entry message's own scope is its owning message.
func (l *linker) desugarMaps(files []*schema.ProtoFile) error {
	for _, f := range files {
		visible := visibleFiles(f, l.byPath)
		for _, t := range f.Declared {
			if t.Kind != schema.MessageKind {
				continue
			}
			msg := t.Message
			for _, field := range msg.Fields {
				if !field.IsMap {
					continue
				}
				if err := l.desugarMapField(f, msg, field, visible); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (l *linker) desugarMapField(f *schema.ProtoFile, owner *schema.MessageType, field *schema.Field, visible map[*schema.ProtoFile]bool) error {
	entryName := mapEntryName(field.Name)
	qn := owner.QualifiedName + "." + entryName

	keyField := &schema.Field{Name: "key", Tag: 1, Label: schema.Optional, Type: schema.UnresolvedRef(field.MapKeyTypeName), Synthetic: true, Location: field.Location, OneofIndex: -1}
	valField := &schema.Field{Name: "value", Tag: 2, Label: schema.Optional, Type: schema.UnresolvedRef(field.MapValueTypeName), Synthetic: true, Location: field.Location, OneofIndex: -1}

	chain := scopeChain(owner.QualifiedName)
	if err := l.resolveRef(&keyField.Type, chain, visible, field.Location); err != nil {
		return err
	}
	if err := l.resolveRef(&valField.Type, chain, visible, field.Location); err != nil {
		return err
	}

	entry := &schema.MessageType{
		QualifiedName: qn,
		Location:      field.Location,
		Fields:        []*schema.Field{keyField, valField},
		IsMapEntry:    true,
	}
	entryType := &schema.Type{Kind: schema.MessageKind, Message: entry}

	idx, err := l.schema.Declare(entryType, field.Location)
	if err != nil {
		if abort := l.h.HandleError(err); abort != nil {
			return abort
		}
		return nil
	}
	l.fileOf[idx] = f
	owner.Nested = append(owner.Nested, qn)
	f.Declared = append(f.Declared, entryType)

	field.Type = schema.TypeRef{Name: qn, Resolved: true, Index: idx}
	field.MapKeyTypeName = ""
	field.MapValueTypeName = ""
	return nil
}

// mapEntryName follows protoc's convention: snake_case field name becomes
// PascalCase + "Entry".
func mapEntryName(fieldName string) string {
	parts := strings.Split(fieldName, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	sb.WriteString("Entry")
	return sb.String()
}
