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
	"github.com/protolink/schemac/schema"
	"github.com/protolink/schemac/target"
)

// dispatch hands the pruned Schema's source-set types to every configured
// target, in order.
func dispatch(s *schema.Schema, cfg Config) error {
	if len(cfg.Targets) == 0 {
		return nil
	}
	return target.Dispatch(s, cfg.Targets, cfg.Filesystem, cfg.Logger)
}
