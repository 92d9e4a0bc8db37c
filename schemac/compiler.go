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

import (
	"context"
	"fmt"

	"github.com/protolink/schemac/linker"
	"github.com/protolink/schemac/loader"
	"github.com/protolink/schemac/prune"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
	"github.com/protolink/schemac/source"
)

// PanicError wraps a panic recovered from a user-supplied Filesystem or
// Logger implementation, converting it into an ordinary fatal error
// instead of crashing the run.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic in schemac callback: %v", e.Recovered) }

// Compiler drives one SourceSet → ProtoParser → SchemaLoader → Linker →
// Pruner → TargetDispatcher pipeline over a Config.
type Compiler struct {
	cfg Config
}

// New builds a Compiler from cfg, applying every documented default.
func New(cfg Config) *Compiler {
	return &Compiler{cfg: cfg.normalize()}
}

// Compile runs the full pipeline, returning the final (possibly pruned)
// Schema. Parse/loader failures and an aborting Reporter return directly;
// otherwise the aggregate *reporter.LinkFailure from linking, if any, is
// returned alongside the most complete Schema the pipeline could build.
// ctx is checked between passes; once it is done, Compile returns
// ctx.Err() before starting the next pass.
func (c *Compiler) Compile(ctx context.Context) (s *schema.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, &PanicError{Recovered: r}
		}
	}()

	sourceSet, err := buildSet(c.cfg.Filesystem, c.cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	protoSet, err := buildSet(c.cfg.Filesystem, c.cfg.ProtoPath)
	if err != nil {
		return nil, err
	}

	h := reporter.NewHandler(c.cfg.Reporter)

	ld := loader.New(sourceSet, protoSet, c.cfg.Parallelism)
	result, err := ld.Load(ctx, h)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	linked, err := linker.Link(result.Files, h)
	if err != nil {
		return nil, err
	}
	if linkErr := h.Error(); linkErr != nil {
		return linked, linkErr
	}
	if err := ctx.Err(); err != nil {
		return linked, err
	}

	pruned, err := prune.Prune(linked, prune.Options{
		Roots:   c.cfg.TreeShakingRoots,
		Rubbish: c.cfg.TreeShakingRubbish,
	}, h)
	if err != nil {
		return linked, err
	}
	if err := ctx.Err(); err != nil {
		return pruned, err
	}

	if err := dispatch(pruned, c.cfg); err != nil {
		return pruned, err
	}
	return pruned, nil
}

func buildSet(fs source.Filesystem, bases []string) (*source.Set, error) {
	var roots []source.Root
	for _, base := range bases {
		r, err := source.NewRoot(fs, base)
		if err != nil {
			return nil, err
		}
		roots = append(roots, r)
	}
	return source.NewSet(roots...), nil
}
