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

// Package prune implements tree-shaking over a linked Schema: starting from
// a seed set of root types, it walks every reachability edge (message field
// types, service request/response types, extension field types) and
// produces a new Schema containing only what reachability, plus per-field
// and per-constant IdentifierSet decisions, chose to keep.
package prune

import (
	"github.com/protolink/schemac/identset"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// Options configures one pruning pass: Roots seeds reachability (default
// ["*"], meaning every declared type is a root), Rubbish excludes types
// from ever being retained even if otherwise reachable.
type Options struct {
	Roots   []string
	Rubbish []string
}

// Prune returns a new Schema retaining only the types reachable from
// Options.Roots (less Options.Rubbish), with every message field and enum
// constant re-checked against the same IdentifierSet for member-level
// retention. When Roots is the default wildcard and Rubbish is empty, the
// input Schema is returned unchanged.
func Prune(s *schema.Schema, opts Options, h *reporter.Handler) (*schema.Schema, error) {
	roots, err := identset.Build(defaultRoots(opts.Roots), opts.Rubbish)
	if err != nil {
		return nil, err
	}
	if roots.IsUnrestricted() {
		return s, nil
	}

	reachable := walkReachability(s, roots)

	remap := make(map[int]int, len(reachable))
	var newArenaOrder []int
	for idx := range s.Types() {
		if reachable[idx] {
			remap[idx] = len(newArenaOrder)
			newArenaOrder = append(newArenaOrder, idx)
		}
	}

	fileByPath := map[string]*schema.ProtoFile{}
	for _, f := range s.Files {
		fileByPath[f.Location.Path] = f
	}

	out := schema.New()
	for _, oldIdx := range newArenaOrder {
		cloned, err := cloneType(s.TypeAt(oldIdx), roots, remap, fileByPath, h)
		if err != nil {
			return nil, err
		}
		if _, declErr := out.Declare(cloned, cloned.DeclLocation()); declErr != nil {
			if abort := h.HandleError(declErr); abort != nil {
				return nil, abort
			}
		}
	}

	pruneNestedLists(out)

	keptTypes := make(map[*schema.Type]bool, len(reachable))
	for idx, t := range s.Types() {
		if reachable[idx] {
			keptTypes[t] = true
		}
	}
	out.Files = rebuildFiles(s.Files, keptTypes, out)
	return out, nil
}

// pruneNestedLists drops a message's Nested entries that no longer name a
// surviving declaration, keeping MessageType.Nested a truthful child list
// in the pruned Schema.
func pruneNestedLists(out *schema.Schema) {
	for _, t := range out.Types() {
		if t.Kind != schema.MessageKind || len(t.Message.Nested) == 0 {
			continue
		}
		var kept []string
		for _, name := range t.Message.Nested {
			if _, _, ok := out.Lookup(name); ok {
				kept = append(kept, name)
			}
		}
		t.Message.Nested = kept
	}
}

func defaultRoots(roots []string) []string {
	if len(roots) == 0 {
		return []string{"*"}
	}
	return roots
}

// walkReachability computes the full transitive closure of every type
// reachable from the roots IdentifierSet's seed types, plus the
// unconditional edges a service's own RPCs and an extend block's fields
// contribute once their target message is reached. Enums are leaves: their
// constants carry no further type references.
func walkReachability(s *schema.Schema, roots *identset.IdentifierSet) map[int]bool {
	reachable := map[int]bool{}
	var queue []int

	enqueue := func(ref schema.TypeRef) {
		if !ref.Resolved || ref.Index < 0 || reachable[ref.Index] {
			return
		}
		if roots.IsExcluded(s.TypeAt(ref.Index).QualifiedName()) {
			return
		}
		reachable[ref.Index] = true
		queue = append(queue, ref.Index)
	}

	for idx, t := range s.Types() {
		if roots.DecideType(t.QualifiedName()) {
			enqueue(schema.TypeRef{Resolved: true, Index: idx})
		}
	}
	// A service isn't itself an arena entry, but its qualified name is
	// still subject to the same roots decision; an included service pulls
	// in the request/response types of every one of its RPCs.
	for _, f := range s.Files {
		for _, svc := range f.Services {
			if !roots.DecideType(svc.QualifiedName) {
				continue
			}
			for _, rpc := range svc.Rpcs {
				enqueue(rpc.Request)
				enqueue(rpc.Response)
			}
		}
	}

	extendsByExtendee := map[int][]*schema.ExtendBlock{}
	for _, f := range s.Files {
		for _, ext := range f.Extends {
			if ext.Extendee.Resolved && ext.Extendee.Index >= 0 {
				extendsByExtendee[ext.Extendee.Index] = append(extendsByExtendee[ext.Extendee.Index], ext)
			}
		}
	}

	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		t := s.TypeAt(idx)
		if t.Kind != schema.MessageKind {
			continue
		}
		for _, f := range t.Message.Fields {
			enqueue(f.Type)
		}
		for _, ext := range extendsByExtendee[idx] {
			for _, f := range ext.Fields {
				enqueue(f.Type)
			}
		}
	}
	return reachable
}
