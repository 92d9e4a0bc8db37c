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

package reporter

import "sync"

// Reporter is the user-supplied callback for non-fatal diagnostics. It is
// invoked once per error/warning as they're discovered. If ReportError
// returns a non-nil error, the pass that's currently running aborts
// immediately with that error; returning nil lets the pass continue
// accumulating further problems.
type Reporter interface {
	ReportError(err error) error
	ReportWarning(err error)
}

// NewHandler wraps r (which may be nil, yielding the default
// fail-fast-on-error reporter) in a Handler.
func NewHandler(r Reporter) *Handler {
	if r == nil {
		r = defaultReporter{}
	}
	return &Handler{rep: r}
}

type defaultReporter struct{}

func (defaultReporter) ReportError(err error) error { return err }
func (defaultReporter) ReportWarning(error)          {}

// Handler accumulates errors reported during a single pass and exposes them
// as one aggregate at the end, collecting everything rather than stopping
// at the first problem. It is safe for concurrent use by the SchemaLoader's
// parallel parse fan-out.
type Handler struct {
	mu   sync.Mutex
	rep  Reporter
	errs []error
}

// HandleError reports err through the underlying Reporter and records it.
// If the Reporter aborts the pass (by returning a non-nil error), that error
// is returned so the caller can stop immediately; otherwise nil is returned
// and the caller should continue.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if abort := h.rep.ReportError(err); abort != nil {
		h.errs = append(h.errs, err)
		return abort
	}
	h.errs = append(h.errs, err)
	return nil
}

// HandleWarning reports a non-fatal diagnostic. Warnings never abort a pass
// and are not included in Error()'s aggregate.
func (h *Handler) HandleWarning(err error) {
	h.rep.ReportWarning(err)
}

// Errors returns every error accumulated so far, in report order.
func (h *Handler) Errors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]error, len(h.errs))
	copy(out, h.errs)
	return out
}

// Error returns nil if no errors were accumulated, a *LinkFailure wrapping
// all of them otherwise.
func (h *Handler) Error() error {
	errs := h.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &LinkFailure{Errors: errs}
}
