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

	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// validate runs every check in the validation ledger. Unlike Pass A/B,
// validation never aborts early on an individual finding — every check
// keeps running over every declaration so a single run surfaces every
// problem, consistent with the Linker's "collect all, report once" policy.
// An abort returned by the Reporter does not stop validation: every check
// still runs, and every finding is recorded in the Handler.
func (l *linker) validate(files []*schema.ProtoFile) {
	for idx, t := range l.schema.Types() {
		if t.Kind != schema.MessageKind {
			continue
		}
		l.validateMessage(idx, t.Message)
	}
	for idx, t := range l.schema.Types() {
		if t.Kind != schema.EnumKind {
			continue
		}
		if f, ok := l.fileOf[idx]; ok && f.Syntax != schema.Proto3 {
			continue
		}
		l.validateEnumZeroValue(t.Enum)
	}
	l.validateImportAcyclicity(files)
	l.validateOptions(files)
}

func (l *linker) validateMessage(idx int, msg *schema.MessageType) {
	l.validateTagsAndReserved(idx, msg)
	l.validateOneofs(msg)
}

// validateTagsAndReserved covers ledger items 1, 2, and 6: tag uniqueness
// (including extension fields targeting this message), positivity,
// exclusion from the protobuf reserved tag band, exclusion from this
// message's own `reserved` ranges/names, and extension-range matching.
func (l *linker) validateTagsAndReserved(idx int, msg *schema.MessageType) {
	seen := map[int32]*schema.Field{}

	check := func(f *schema.Field, isExtension bool) {
		if f.Synthetic {
			return
		}
		if f.Tag <= 0 {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("field %q has non-positive tag %d", f.Name, f.Tag)})
			return
		}
		if f.Tag >= schema.ReservedTagRangeStart && f.Tag <= schema.ReservedTagRangeEnd {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("field %q uses tag %d in the reserved range %d-%d", f.Name, f.Tag, schema.ReservedTagRangeStart, schema.ReservedTagRangeEnd)})
		}
		for _, r := range msg.ReservedRanges {
			if r.Contains(f.Tag) {
				l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("field %q uses reserved tag %d", f.Name, f.Tag)})
			}
		}
		if !isExtension {
			for _, name := range msg.ReservedNames {
				if f.Name == name {
					l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("field name %q is reserved", f.Name)})
				}
			}
		}
		if prev, ok := seen[f.Tag]; ok && prev != f {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("tag %d used by both %q and %q", f.Tag, prev.Name, f.Name)})
			return
		}
		seen[f.Tag] = f

		if isExtension {
			inRange := false
			for _, r := range msg.ExtensionRanges {
				if r.Contains(f.Tag) {
					inRange = true
					break
				}
			}
			if !inRange {
				l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("extension field %q (tag %d) does not fall within any extensions range declared by %q", f.Name, f.Tag, msg.QualifiedName)})
			}
		}
	}

	for _, f := range msg.Fields {
		check(f, false)
	}
	for _, f := range l.extensionsByTarget[idx] {
		check(f, true)
	}
}

// validateOneofs covers ledger item 5: oneof members are singular,
// non-repeated, and share the message's own tag space (already guaranteed
// by validateTagsAndReserved running over the same msg.Fields slice, since
// oneof members live there too).
func (l *linker) validateOneofs(msg *schema.MessageType) {
	for _, f := range msg.Fields {
		if f.OneofIndex < 0 {
			continue
		}
		if f.OneofIndex >= len(msg.Oneofs) {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("field %q references an undeclared oneof", f.Name)})
			continue
		}
		if f.Label == schema.Repeated {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("oneof member %q may not be repeated", f.Name)})
		}
	}
}

// validateEnumZeroValue covers ledger item 3.
func (l *linker) validateEnumZeroValue(en *schema.EnumType) {
	if len(en.Values) == 0 {
		return
	}
	if en.Values[0].Tag != 0 {
		l.h.HandleError(&reporter.ValidationError{Pos: en.Location, Message: fmt.Sprintf("proto3 enum %q must declare its zero-valued constant first", en.QualifiedName)})
	}
}

// validateImportAcyclicity covers ledger item 8: the import graph formed
// by non-public imports must be acyclic. Public-import chains are excluded
// from this graph entirely.
func (l *linker) validateImportAcyclicity(files []*schema.ProtoFile) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var visit func(path string, stack []string) []string
	visit = func(path string, stack []string) []string {
		if color[path] == black {
			return nil
		}
		if color[path] == gray {
			return append(append([]string{}, stack...), path)
		}
		color[path] = gray
		defer func() { color[path] = black }()
		stack = append(stack, path)
		f, ok := l.byPath[path]
		if ok {
			for _, imp := range f.Imports {
				if f.IsPublicImport(imp) {
					continue
				}
				if cycle := visit(imp, stack); cycle != nil {
					return cycle
				}
			}
		}
		return nil
	}
	for _, f := range files {
		if cycle := visit(f.Location.Path, nil); cycle != nil {
			l.h.HandleError(&reporter.ValidationError{Pos: f.Location, Message: fmt.Sprintf("import cycle detected: %v", cycle)})
		}
	}
}
