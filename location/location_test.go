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

package location_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/location"
)

func TestEquality(t *testing.T) {
	a := location.File("proto", "a.proto")
	b := location.File("proto", "a.proto")
	require.Equal(t, a, b)

	c := a.WithPos(3, 5)
	require.NotEqual(t, a, c)
	require.True(t, c.HasPos())
	require.False(t, a.HasPos())
}

func TestString(t *testing.T) {
	require.Equal(t, "a.proto", location.File("proto", "a.proto").String())
	require.Equal(t, "a.proto:3:5", location.File("proto", "a.proto").WithPos(3, 5).String())
	require.Equal(t, "<unknown>", location.Location{}.String())
}
