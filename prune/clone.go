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

package prune

import (
	"github.com/protolink/schemac/identset"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// cloneType produces a new Type sharing its owning ProtoFile's immutable
// scalars but carrying its own Fields/Values slice, filtered by roots'
// per-member decisions and with every surviving TypeRef.Index rewritten
// through remap to its position in the pruned arena.
func cloneType(t *schema.Type, roots *identset.IdentifierSet, remap map[int]int, fileByPath map[string]*schema.ProtoFile, h *reporter.Handler) (*schema.Type, error) {
	switch t.Kind {
	case schema.MessageKind:
		return cloneMessage(t, roots, remap)
	case schema.EnumKind:
		return cloneEnum(t, roots, fileByPath, h)
	default:
		return t, nil
	}
}

func cloneMessage(t *schema.Type, roots *identset.IdentifierSet, remap map[int]int) (*schema.Type, error) {
	orig := t.Message
	qn := orig.QualifiedName
	cloned := *orig
	cloned.Fields = nil
	for _, f := range orig.Fields {
		if !f.Synthetic && !roots.DecideMember(qn, f.Name) {
			continue
		}
		if f.Type.Resolved && f.Type.Index >= 0 {
			if _, stillPresent := remap[f.Type.Index]; !stillPresent {
				// the field's type was pruned (directly or via rubbish);
				// the field cannot survive pointing at nothing.
				continue
			}
		}
		nf := *f
		nf.Type = remapRef(f.Type, remap)
		nf.Extendee = remapRef(f.Extendee, remap)
		cloned.Fields = append(cloned.Fields, &nf)
	}
	return &schema.Type{Kind: schema.MessageKind, Message: &cloned}, nil
}

func cloneEnum(t *schema.Type, roots *identset.IdentifierSet, fileByPath map[string]*schema.ProtoFile, h *reporter.Handler) (*schema.Type, error) {
	orig := t.Enum
	qn := orig.QualifiedName
	cloned := *orig
	cloned.Values = nil
	for _, v := range orig.Values {
		if roots.DecideMember(qn, v.Name) {
			cloned.Values = append(cloned.Values, v)
		}
	}
	if len(cloned.Values) == 0 {
		if abort := h.HandleError(&reporter.EmptyEnum{QualifiedName: qn}); abort != nil {
			return nil, abort
		}
		return &schema.Type{Kind: schema.EnumKind, Enum: &cloned}, nil
	}
	isProto3 := false
	if f, ok := fileByPath[orig.Location.Path]; ok {
		isProto3 = f.Syntax == schema.Proto3
	}
	if isProto3 && hadZero(orig.Values) && !hadZero(cloned.Values) {
		if abort := h.HandleError(&reporter.EmptyEnum{QualifiedName: qn}); abort != nil {
			return nil, abort
		}
	}
	return &schema.Type{Kind: schema.EnumKind, Enum: &cloned}, nil
}

func hadZero(values []schema.EnumValue) bool {
	for _, v := range values {
		if v.Tag == 0 {
			return true
		}
	}
	return false
}

func remapRef(ref schema.TypeRef, remap map[int]int) schema.TypeRef {
	if !ref.Resolved || ref.Index < 0 {
		return ref
	}
	newIdx, ok := remap[ref.Index]
	if !ok {
		return schema.TypeRef{Name: ref.Name}
	}
	ref.Index = newIdx
	return ref
}
