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

import "github.com/protolink/schemac/schema"

// passB resolves every field type, RPC request/response type, and
// extendee across every file, plus the extension-field name table that
// option-path resolution consults afterward.
func (l *linker) passB(files []*schema.ProtoFile) error {
	l.extensionFieldsByName = map[string]*schema.Field{}

	for _, f := range files {
		visible := visibleFiles(f, l.byPath)

		for _, t := range f.Declared {
			if t.Kind != schema.MessageKind {
				continue
			}
			msg := t.Message
			chain := scopeChain(msg.QualifiedName)
			for _, field := range msg.Fields {
				if field.Type.Resolved {
					continue
				}
				if err := l.resolveRef(&field.Type, chain, visible, field.Location); err != nil {
					return err
				}
			}
		}

		fileChain := scopeChain(f.PackageName)
		for _, svc := range f.Services {
			for _, rpc := range svc.Rpcs {
				if err := l.resolveRef(&rpc.Request, fileChain, visible, rpc.Location); err != nil {
					return err
				}
				if err := l.resolveRef(&rpc.Response, fileChain, visible, rpc.Location); err != nil {
					return err
				}
			}
		}

		for _, ext := range f.Extends {
			chain := scopeChain(ext.Scope)
			if err := l.resolveRef(&ext.Extendee, chain, visible, ext.Location); err != nil {
				return err
			}
			if ext.Extendee.Resolved {
				l.extensionsByTarget[ext.Extendee.Index] = append(l.extensionsByTarget[ext.Extendee.Index], ext.Fields...)
			}
			for _, field := range ext.Fields {
				if err := l.resolveRef(&field.Type, chain, visible, field.Location); err != nil {
					return err
				}
				l.extensionFieldsByName[joinScope(ext.Scope, field.Name)] = field
			}
		}
	}
	return nil
}
