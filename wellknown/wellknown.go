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

// Package wellknown holds the literal .proto source text for the standard
// "google/protobuf/*.proto" files, the same way a resolver commonly
// special-cases these paths rather than shipping them on disk: a compiler
// has to let any file `import "google/protobuf/timestamp.proto";` without
// requiring the caller to supply it on the source path or proto path.
//
// This is a source of last resort: the SchemaLoader only consults it after
// both the source path and proto path have failed to locate an import.
//
// descriptor.proto is trimmed to the option-holder messages a schema
// actually extends: the FileDescriptorSet/FileDescriptorProto wire shapes
// themselves are out of scope (no wire-format serialization), but custom
// options are declared as extensions of these *Options messages, so the
// Linker needs them resolvable.
package wellknown

import (
	"embed"
	"io/fs"
)

//go:embed protos
var embedded embed.FS

// Files maps a well-known import path to its embedded .proto source,
// populated once at package init from the protos/ tree.
var Files = mustLoadFiles()

func mustLoadFiles() map[string]string {
	files := map[string]string{}
	err := fs.WalkDir(embedded, "protos", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		files[path[len("protos/"):]] = string(data)
		return nil
	})
	if err != nil {
		panic("wellknown: embedding proto sources: " + err.Error())
	}
	return files
}

// Lookup returns the embedded source for path, if it is a recognized
// well-known file.
func Lookup(path string) (string, bool) {
	src, ok := Files[path]
	return src, ok
}
