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

package schemac

import "log/slog"

// Logger is the diagnostic sink a Compiler run writes "unused rule" and
// recoverable-generation-error messages to. It is the same shape the
// target package's dispatcher expects, so a Config's Logger is passed
// straight through to target.Dispatch.
type Logger interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// NopLogger discards every message; it is the default when Config.Logger
// is left nil.
type NopLogger struct{}

func (NopLogger) Info(string)  {}
func (NopLogger) Warn(string)  {}
func (NopLogger) Error(string) {}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	Logger *slog.Logger
}

func (l SlogLogger) Info(message string)  { l.Logger.Info(message) }
func (l SlogLogger) Warn(message string)  { l.Logger.Warn(message) }
func (l SlogLogger) Error(message string) { l.Logger.Error(message) }
