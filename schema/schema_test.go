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

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

func TestDeclareAndLookup(t *testing.T) {
	s := schema.New()
	msg := &schema.Type{Kind: schema.MessageKind, Message: &schema.MessageType{QualifiedName: "p.M"}}

	idx, err := s.Declare(msg, location.File("proto", "a.proto"))
	require.NoError(t, err)
	require.Equal(t, 0, idx)

	got, gotIdx, ok := s.Lookup("p.M")
	require.True(t, ok)
	require.Equal(t, 0, gotIdx)
	require.Same(t, msg, got)
}

func TestDeclareDuplicateFails(t *testing.T) {
	s := schema.New()
	msg := &schema.Type{Kind: schema.MessageKind, Message: &schema.MessageType{QualifiedName: "p.M"}}
	other := &schema.Type{Kind: schema.MessageKind, Message: &schema.MessageType{QualifiedName: "p.M"}}

	_, err := s.Declare(msg, location.File("proto", "a.proto"))
	require.NoError(t, err)

	_, err = s.Declare(other, location.File("proto", "b.proto"))
	require.Error(t, err)

	var dup *reporter.DuplicateType
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "p.M", dup.QualifiedName)
}

func TestResolve(t *testing.T) {
	s := schema.New()
	msg := &schema.Type{Kind: schema.MessageKind, Message: &schema.MessageType{QualifiedName: "p.M"}}
	_, err := s.Declare(msg, location.File("proto", "a.proto"))
	require.NoError(t, err)

	ref := schema.UnresolvedRef("p.M")
	require.True(t, s.Resolve(&ref))
	require.True(t, ref.Resolved)
	require.Equal(t, 0, ref.Index)

	missing := schema.UnresolvedRef("p.Missing")
	require.False(t, s.Resolve(&missing))
	require.False(t, missing.Resolved)
}
