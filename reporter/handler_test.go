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

package reporter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/protolink/schemac/reporter"
)

func TestHandlerFailsFastByDefaultAndRecords(t *testing.T) {
	h := reporter.NewHandler(nil)
	first := errors.New("first")
	require.ErrorIs(t, h.HandleError(first), first)
	err := h.Error()
	require.Error(t, err)

	var lf *reporter.LinkFailure
	require.ErrorAs(t, err, &lf)
	require.Len(t, lf.Errors, 1)
}

func TestHandlerAbortsWhenReporterSaysSo(t *testing.T) {
	sentinel := errors.New("stop")
	h := reporter.NewHandler(abortingReporter{err: sentinel})
	err := h.HandleError(errors.New("boom"))
	require.ErrorIs(t, err, sentinel)
}

func TestHandlerCollectsMultipleErrors(t *testing.T) {
	h := reporter.NewHandler(collectingReporter{})
	require.NoError(t, h.HandleError(errors.New("a")))
	require.NoError(t, h.HandleError(errors.New("b")))

	var lf *reporter.LinkFailure
	require.ErrorAs(t, h.Error(), &lf)
	require.Len(t, lf.Errors, 2)
}

type abortingReporter struct{ err error }

func (a abortingReporter) ReportError(error) error { return a.err }
func (abortingReporter) ReportWarning(error)        {}

type collectingReporter struct{}

func (collectingReporter) ReportError(error) error { return nil }
func (collectingReporter) ReportWarning(error)      {}
