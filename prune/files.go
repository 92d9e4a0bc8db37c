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

import "github.com/protolink/schemac/schema"

// rebuildFiles returns a copy of files with Declared and TopLevelTypes
// filtered down to what keptTypes (the pre-prune *Type pointers that
// survived) retained, dropping any file left with neither a surviving
// top-level declaration (ProtoFile.TopLevelTypes) nor a service. Surviving
// Declared entries are rewritten to point at their clone in pruned (looked up by qualified name) rather than the pre-prune
// original: every other Type a caller can reach from the returned Schema —
// via Lookup, Types, or a field's resolved TypeRef — is already a clone, and
// a Declared slice mixing old and new pointers would make the sourceSet
// type-identity check downstream unable to recognize its own types.
func rebuildFiles(files []*schema.ProtoFile, keptTypes map[*schema.Type]bool, pruned *schema.Schema) []*schema.ProtoFile {
	keptNames := map[string]bool{}
	for _, f := range files {
		for _, t := range f.Declared {
			if keptTypes[t] {
				keptNames[t.QualifiedName()] = true
			}
		}
	}

	var out []*schema.ProtoFile
	for _, f := range files {
		nf := *f
		nf.Declared = nil
		for _, t := range f.Declared {
			if !keptTypes[t] {
				continue
			}
			cloned, _, ok := pruned.Lookup(t.QualifiedName())
			if !ok {
				continue
			}
			nf.Declared = append(nf.Declared, cloned)
		}
		nf.TopLevelTypes = nil
		for _, name := range f.TopLevelTypes {
			if keptNames[name] {
				nf.TopLevelTypes = append(nf.TopLevelTypes, name)
			}
		}
		if len(nf.TopLevelTypes) == 0 && len(nf.Services) == 0 {
			continue
		}
		out = append(out, &nf)
	}
	return out
}
