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

// Package reporter defines the core's error taxonomy and the accumulating
// handler that every pass (parser, loader, linker, pruner) reports through.
package reporter

import (
	"errors"
	"fmt"

	"github.com/protolink/schemac/location"
)

// ErrInvalidSource is a sentinel for invalid proto source. No pass in this
// module returns it: a pass whose Reporter suppressed every error (by
// returning nil from ReportError) leaves them in the Handler, where
// Handler.Error reports them as a *LinkFailure.
var ErrInvalidSource = errors.New("schemac: invalid proto source")

// ErrorWithPos is an error that carries the source Location responsible for
// it.
type ErrorWithPos interface {
	error
	Position() location.Location
	Unwrap() error
}

type errorWithPos struct {
	pos        location.Location
	underlying error
}

func (e errorWithPos) Error() string         { return fmt.Sprintf("%s: %v", e.pos, e.underlying) }
func (e errorWithPos) Position() location.Location { return e.pos }
func (e errorWithPos) Unwrap() error         { return e.underlying }

// Error wraps err with the given position.
func Error(pos location.Location, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

// Errorf is like Error but builds the underlying error with fmt.Errorf.
func Errorf(pos location.Location, format string, args ...any) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

// The error kinds below are each a distinct type so callers can use
// errors.As to branch on the failure category.

// ConfigError reports a malformed rule string, a redundant/duplicate rule,
// or a reference to an unknown target.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "config: " + e.Message }

// IoError wraps a filesystem or archive read failure.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("io error reading %q: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// ParseError reports malformed .proto syntax at a specific Location.
type ParseError struct {
	Pos     location.Location
	Message string
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// ImportNotFound reports that no search root could satisfy an import.
type ImportNotFound struct {
	ImportingFile string
	ImportPath    string
}

func (e *ImportNotFound) Error() string {
	return fmt.Sprintf("%s: import %q not found in source path or proto path", e.ImportingFile, e.ImportPath)
}

// DuplicatePath reports that two distinct (base, path) pairs resolved to the
// same effective import path in conflict.
type DuplicatePath struct {
	ImportPath string
	First      location.Location
	Second     location.Location
}

func (e *DuplicatePath) Error() string {
	return fmt.Sprintf("import path %q resolves to both %s and %s", e.ImportPath, e.First, e.Second)
}

// DuplicateType reports that two declarations share a qualified name.
type DuplicateType struct {
	QualifiedName string
	First         location.Location
	Second        location.Location
}

func (e *DuplicateType) Error() string {
	return fmt.Sprintf("%s: %q already defined at %s", e.Second, e.QualifiedName, e.First)
}

// UnresolvedReference reports that a type, field type, or extendee name
// could not be bound to any visible declaration.
type UnresolvedReference struct {
	Name string
	From location.Location
}

func (e *UnresolvedReference) Error() string {
	return fmt.Sprintf("%s: could not resolve reference %q", e.From, e.Name)
}

// ValidationError reports a schema-validity violation: tag collisions,
// reserved-range violations, map/one-of constraint violations, extension
// range mismatches, option type mismatches, or a missing proto3 zero value.
type ValidationError struct {
	Pos     location.Location
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// EmptyEnum reports that pruning removed the mandatory zero constant of a
// proto3 enum (or removed every constant).
type EmptyEnum struct {
	QualifiedName string
}

func (e *EmptyEnum) Error() string {
	return fmt.Sprintf("pruning %q would leave it with no proto3 zero-value constant", e.QualifiedName)
}

// LinkFailure aggregates every error raised by a single linker run.
type LinkFailure struct {
	Errors []error
}

func (e *LinkFailure) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors found during linking:\n%s", len(e.Errors), joinErrors(e.Errors))
}

func (e *LinkFailure) Unwrap() []error { return e.Errors }

func joinErrors(errs []error) string {
	var s string
	for i, err := range errs {
		if i > 0 {
			s += "\n"
		}
		s += "  " + err.Error()
	}
	return s
}
