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

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// scalarTypeNames mirrors the parser's own scalar keyword set: these names
// never appear in the Schema arena, so Pass B must recognize and skip them
// rather than treat them as unresolved references.
var scalarTypeNames = map[string]bool{
	"double": true, "float": true, "int32": true, "int64": true,
	"uint32": true, "uint64": true, "sint32": true, "sint64": true,
	"fixed32": true, "fixed64": true, "sfixed32": true, "sfixed64": true,
	"bool": true, "string": true, "bytes": true,
}

// scopeChain returns the innermost-to-outermost sequence of scope prefixes
// a reference made from within start should be tried against: start
// itself, each ancestor scope obtained by trimming one dotted segment, and
// finally the empty (root) scope.
func scopeChain(start string) []string {
	chain := []string{start}
	s := start
	for {
		idx := strings.LastIndex(s, ".")
		if idx < 0 {
			break
		}
		s = s[:idx]
		chain = append(chain, s)
	}
	if start != "" {
		chain = append(chain, "")
	}
	return chain
}

func joinScope(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// visibleFiles computes the set of files reachable from start under the
// import-visibility rule: start itself, every file it directly imports,
// and every file transitively reachable from those through a chain of
// public imports.
func visibleFiles(start *schema.ProtoFile, byPath map[string]*schema.ProtoFile) map[*schema.ProtoFile]bool {
	visible := map[*schema.ProtoFile]bool{start: true}
	queue := append([]string{}, start.Imports...)
	queued := map[string]bool{}
	for _, im := range queue {
		queued[im] = true
	}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		f, ok := byPath[path]
		if !ok || visible[f] {
			continue
		}
		visible[f] = true
		for _, im := range f.Imports {
			if f.IsPublicImport(im) && !queued[im] {
				queued[im] = true
				queue = append(queue, im)
			}
		}
	}
	return visible
}

// resolveName searches scopeChain (or, for an absolute ".a.b.c" name, looks
// it up directly) for a declaration visible from the current file,
// returning its arena index.
func (l *linker) resolveName(name string, chain []string, visible map[*schema.ProtoFile]bool) (int, bool) {
	if strings.HasPrefix(name, ".") {
		return l.lookupVisible(name[1:], visible)
	}
	for _, scope := range chain {
		if idx, ok := l.lookupVisible(joinScope(scope, name), visible); ok {
			return idx, true
		}
	}
	return 0, false
}

func (l *linker) lookupVisible(name string, visible map[*schema.ProtoFile]bool) (int, bool) {
	_, idx, ok := l.schema.Lookup(name)
	if !ok {
		return 0, false
	}
	if f := l.fileOf[idx]; f != nil && !visible[f] {
		return 0, false
	}
	return idx, true
}

// resolveRef resolves ref in place against chain/visible, reporting
// *reporter.UnresolvedReference through h on failure. Scalar type names
// always succeed trivially with Index -1 (not an arena type). The returned
// error is non-nil only when the Handler's Reporter chose to abort the
// pass; an ordinary accumulated failure leaves ref unresolved and returns
// nil so the caller continues on to the next reference.
func (l *linker) resolveRef(ref *schema.TypeRef, chain []string, visible map[*schema.ProtoFile]bool, from location.Location) error {
	if scalarTypeNames[ref.Name] {
		ref.Resolved = true
		ref.Index = -1
		return nil
	}
	idx, ok := l.resolveName(ref.Name, chain, visible)
	if !ok {
		return l.h.HandleError(&reporter.UnresolvedReference{Name: ref.Name, From: from})
	}
	ref.Resolved = true
	ref.Index = idx
	return nil
}
