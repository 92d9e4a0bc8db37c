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

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

func mustParse(t *testing.T, src string) *schema.ProtoFile {
	t.Helper()
	h := reporter.NewHandler(nil)
	file, err := Parse("testdata", "x.proto", []byte(src), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	return file
}

func TestParseBasicMessage(t *testing.T) {
	file := mustParse(t, `
		syntax = "proto3";
		package foo.bar;

		message Person {
			string name = 1;
			int32 id = 2;
			repeated string tags = 3;
		}
	`)
	require.Equal(t, schema.Proto3, file.Syntax)
	require.Equal(t, "foo.bar", file.PackageName)
	require.Len(t, file.Declared, 1)
	msg := file.Declared[0].Message
	require.Equal(t, "foo.bar.Person", msg.QualifiedName)
	require.Len(t, msg.Fields, 3)
	require.Equal(t, "name", msg.Fields[0].Name)
	require.Equal(t, int32(1), msg.Fields[0].Tag)
	require.Equal(t, schema.Repeated, msg.Fields[2].Label)
}

func TestParseNestedMessageAndEnum(t *testing.T) {
	file := mustParse(t, `
		message Outer {
			message Inner {
				int32 value = 1;
			}
			enum Color {
				RED = 0;
				BLUE = 1;
			}
			Inner inner = 1;
			Color color = 2;
		}
	`)
	require.Len(t, file.Declared, 3)
	outer := file.Declared[0].Message
	require.ElementsMatch(t, []string{"Outer.Inner", "Outer.Color"}, outer.Nested)

	inner := file.Declared[1].Message
	require.Equal(t, "Outer.Inner", inner.QualifiedName)

	color := file.Declared[2].Enum
	require.Equal(t, "Outer.Color", color.QualifiedName)
	require.Len(t, color.Values, 2)
}

func TestParseOneof(t *testing.T) {
	file := mustParse(t, `
		message Event {
			oneof payload {
				string text = 1;
				int32 code = 2;
			}
		}
	`)
	msg := file.Declared[0].Message
	require.Len(t, msg.Oneofs, 1)
	require.Equal(t, "payload", msg.Oneofs[0].Name)
	require.Len(t, msg.Fields, 2)
	require.Equal(t, 0, msg.Fields[0].OneofIndex)
	require.Equal(t, schema.OneofMember, msg.Fields[1].Label)
}

func TestParseMapField(t *testing.T) {
	file := mustParse(t, `
		message Config {
			map<string, int32> counters = 1;
		}
	`)
	field := file.Declared[0].Message.Fields[0]
	require.True(t, field.IsMap)
	require.Equal(t, "string", field.MapKeyTypeName)
	require.Equal(t, "int32", field.MapValueTypeName)
}

func TestParseReservedAndExtensions(t *testing.T) {
	file := mustParse(t, `
		message Thing {
			reserved 2, 9 to 11;
			reserved "foo", "bar";
			extensions 100 to max;
		}
	`)
	msg := file.Declared[0].Message
	require.Len(t, msg.ReservedRanges, 2)
	require.Equal(t, int32(9), msg.ReservedRanges[1].Start)
	require.Equal(t, int32(11), msg.ReservedRanges[1].End)
	require.Equal(t, []string{"foo", "bar"}, msg.ReservedNames)
	require.Len(t, msg.ExtensionRanges, 1)
	require.Equal(t, schema.MaxTag, msg.ExtensionRanges[0].End)
}

func TestParseServiceWithStreaming(t *testing.T) {
	file := mustParse(t, `
		service Greeter {
			rpc SayHello (HelloRequest) returns (HelloReply);
			rpc Chat (stream ChatMessage) returns (stream ChatMessage) {
				option idempotency_level = IDEMPOTENT;
			}
		}
	`)
	require.Len(t, file.Services, 1)
	svc := file.Services[0]
	require.Len(t, svc.Rpcs, 2)
	require.False(t, svc.Rpcs[0].RequestStreaming)
	require.True(t, svc.Rpcs[1].RequestStreaming)
	require.True(t, svc.Rpcs[1].ResponseStreaming)
	require.Len(t, svc.Rpcs[1].Options, 1)
}

func TestParseExtendBlock(t *testing.T) {
	file := mustParse(t, `
		extend google.protobuf.FileOptions {
			string my_option = 50001;
		}
	`)
	require.Len(t, file.Extends, 1)
	block := file.Extends[0]
	require.Equal(t, "google.protobuf.FileOptions", block.Extendee.Name)
	require.Len(t, block.Fields, 1)
	require.True(t, block.Fields[0].IsExtension)
}

func TestParseCompactFieldOptionsAndMessageLiteral(t *testing.T) {
	file := mustParse(t, `
		message Req {
			option (custom.msg_opt) = { name: "x" count: 3 };
			int32 id = 1 [deprecated = true, packed = false];
		}
	`)
	msg := file.Declared[0].Message
	require.Len(t, msg.Options, 1)
	require.Equal(t, schema.KindMessageLiteral, msg.Options[0].Value.Kind)
	require.Len(t, msg.Options[0].Value.Message, 2)

	field := msg.Fields[0]
	require.Len(t, field.Options, 2)
	require.NotNil(t, field.IsPacked)
	require.False(t, *field.IsPacked)
}

func TestParseImportVariants(t *testing.T) {
	file := mustParse(t, `
		import "a.proto";
		import public "b.proto";
		import weak "c.proto";
	`)
	require.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, file.Imports)
	require.True(t, file.IsPublicImport("b.proto"))
	require.False(t, file.IsPublicImport("c.proto"))
	require.False(t, file.IsPublicImport("a.proto"))
}

func TestParseNegativeEnumValueAndEnumValueOption(t *testing.T) {
	file := mustParse(t, `
		enum Status {
			UNKNOWN = 0;
			FAILED = -1 [deprecated = true];
		}
	`)
	en := file.Declared[0].Enum
	require.Equal(t, int32(-1), en.Values[1].Tag)
	require.Len(t, en.Values[1].Options, 1)
}

func TestParseSyntaxErrorReported(t *testing.T) {
	h := reporter.NewHandler(nil)
	_, err := Parse("testdata", "bad.proto", []byte(`message { }`), h)
	require.Error(t, err)
}
