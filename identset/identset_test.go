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

package identset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/reporter"
)

func TestDecideTypeDefaultWildcard(t *testing.T) {
	s, err := Build([]string{"*"}, nil)
	require.NoError(t, err)
	assert.True(t, s.DecideType("a.b.C"))
	assert.True(t, s.IsUnrestricted())
}

func TestDecideTypePackageWildcardIncludesNested(t *testing.T) {
	s, err := Build([]string{"a.b.*"}, nil)
	require.NoError(t, err)
	assert.True(t, s.DecideType("a.b.C"))
	assert.True(t, s.DecideType("a.b.C.Nested"))
	assert.False(t, s.DecideType("a.c.D"))
}

func TestDecideTypeExcludeWins(t *testing.T) {
	s, err := Build([]string{"*"}, []string{"a.b.C"})
	require.NoError(t, err)
	assert.False(t, s.DecideType("a.b.C"))
	assert.True(t, s.DecideType("a.b.D"))
}

func TestDecideTypeExcludePackageBeatsIncludeType(t *testing.T) {
	s, err := Build([]string{"a.b.C"}, []string{"a.*"})
	require.NoError(t, err)
	assert.False(t, s.DecideType("a.b.C"))
}

func TestDecideTypeDefaultsToExcluded(t *testing.T) {
	s, err := Build([]string{"a.b.C"}, nil)
	require.NoError(t, err)
	assert.False(t, s.DecideType("a.b.D"))
}

func TestDecideTypeTrueWhenOnlyMemberRuleIncludesIt(t *testing.T) {
	s, err := Build([]string{"a.b.C#x"}, nil)
	require.NoError(t, err)
	assert.True(t, s.DecideType("a.b.C"))
	assert.False(t, s.DecideType("a.b.D"))
}

func TestDecideMemberInheritsTypeDecision(t *testing.T) {
	s, err := Build([]string{"a.b.C"}, nil)
	require.NoError(t, err)
	assert.True(t, s.DecideMember("a.b.C", "x"))
}

func TestDecideMemberExplicitListExcludesOthers(t *testing.T) {
	s, err := Build([]string{"a.b.C#x"}, nil)
	require.NoError(t, err)
	assert.True(t, s.DecideMember("a.b.C", "x"))
	assert.False(t, s.DecideMember("a.b.C", "y"))
}

func TestDecideMemberExcludeWins(t *testing.T) {
	s, err := Build([]string{"a.b.C"}, []string{"a.b.C#secret"})
	require.NoError(t, err)
	assert.True(t, s.DecideMember("a.b.C", "x"))
	assert.False(t, s.DecideMember("a.b.C", "secret"))
}

func TestBuildRejectsRedundantPackageWithinType(t *testing.T) {
	_, err := Build([]string{"a.*", "a.b.C"}, nil)
	require.Error(t, err)
	var cfgErr *reporter.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildRejectsRedundantWildcardWithinType(t *testing.T) {
	_, err := Build([]string{"*", "a.b.*"}, nil)
	require.Error(t, err)
}

func TestBuildAllowsSameRuleAcrossIncludeAndExclude(t *testing.T) {
	_, err := Build([]string{"a.*"}, []string{"a.*"})
	assert.NoError(t, err)
}

func TestBuildRejectsMalformedMemberRule(t *testing.T) {
	_, err := Build([]string{"a.b.C#"}, nil)
	require.Error(t, err)
}

func TestUnusedRulesReportsRulesThatNeverFired(t *testing.T) {
	s, err := Build([]string{"a.b.C", "x.y.Z"}, nil)
	require.NoError(t, err)
	s.DecideType("a.b.C")
	unused := s.UnusedRules()
	require.Len(t, unused, 1)
	assert.Equal(t, "x.y.Z", unused[0])
}
