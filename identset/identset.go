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

// Package identset implements the IdentifierSet: a compiled pair of
// include/exclude rule lists over qualified names, used both by the
// Pruner's tree-shaking roots/rubbish and by a Target's element selection.
package identset

import (
	"fmt"
	"strings"

	art "github.com/kralicky/go-adaptive-radix-tree"

	"github.com/protolink/schemac/reporter"
)

// kind ranks a rule's specificity: higher is more specific. The Decide
// procedure and the unused-rule tracker both break ties by this order.
type kind int

const (
	kindWildcard kind = iota
	kindPackage
	kindType
	kindMember
)

// Rule is one compiled include/exclude entry.
type Rule struct {
	Raw     string
	Kind    kind
	Package string // for kindPackage: the package prefix, e.g. "pkg.sub"
	Type    string // for kindType/kindMember: the exact qualified type name
	Member  string // for kindMember: the field/constant name

	used bool
}

func (r *Rule) String() string { return r.Raw }

// parseRule compiles one rule string into a Rule.
func parseRule(raw string) (*Rule, error) {
	if raw == "*" {
		return &Rule{Raw: raw, Kind: kindWildcard}, nil
	}
	if hash := strings.IndexByte(raw, '#'); hash >= 0 {
		typeName, member := raw[:hash], raw[hash+1:]
		if typeName == "" || member == "" {
			return nil, &reporter.ConfigError{Message: fmt.Sprintf("malformed member rule %q", raw)}
		}
		return &Rule{Raw: raw, Kind: kindMember, Type: typeName, Member: member}, nil
	}
	if strings.HasSuffix(raw, ".*") {
		pkg := strings.TrimSuffix(raw, ".*")
		if pkg == "" {
			return nil, &reporter.ConfigError{Message: fmt.Sprintf("malformed package rule %q", raw)}
		}
		return &Rule{Raw: raw, Kind: kindPackage, Package: pkg}, nil
	}
	if raw == "" {
		return nil, &reporter.ConfigError{Message: "empty rule string"}
	}
	return &Rule{Raw: raw, Kind: kindType, Type: raw}, nil
}

// IdentifierSet is a compiled, matchable pair of rule lists.
type IdentifierSet struct {
	includes []*Rule
	excludes []*Rule

	// exactIncludes/exactExcludes index kindType and kindMember rules by
	// their exact match key for O(1) lookup.
	exactIncludes map[string]*Rule
	exactExcludes map[string]*Rule

	// pkgIncludes/pkgExcludes index kindPackage rules by their package
	// prefix in a radix tree, so testing whether a candidate's ancestor
	// chain hits a package rule is a sequence of exact tree lookups
	// rather than a linear scan of every package rule.
	pkgIncludes art.Tree
	pkgExcludes art.Tree

	wildcardInclude *Rule
	wildcardExclude *Rule

	// memberTypes records, for each exact type name, whether any
	// member-scoped rule (include or exclude) names it — switching that
	// type into "explicit member list" mode for DecideMember.
	memberTypes map[string]bool
}

// Build compiles includes/excludes into an IdentifierSet, failing with a
// *reporter.ConfigError on a malformed rule string or a redundant rule
// within either list.
func Build(includes, excludes []string) (*IdentifierSet, error) {
	s := &IdentifierSet{
		exactIncludes: map[string]*Rule{},
		exactExcludes: map[string]*Rule{},
		pkgIncludes:   art.New(),
		pkgExcludes:   art.New(),
		memberTypes:   map[string]bool{},
	}

	inc, err := compileList(includes)
	if err != nil {
		return nil, err
	}
	exc, err := compileList(excludes)
	if err != nil {
		return nil, err
	}
	if err := checkRedundancy(inc); err != nil {
		return nil, err
	}
	if err := checkRedundancy(exc); err != nil {
		return nil, err
	}

	s.includes = inc
	s.excludes = exc
	s.index(inc, s.exactIncludes, s.pkgIncludes, &s.wildcardInclude)
	s.index(exc, s.exactExcludes, s.pkgExcludes, &s.wildcardExclude)
	// Only include-list member rules switch a type into explicit-member
	// mode: an exclude-list member rule just knocks out that one member,
	// leaving the rest to inherit the type-level decision.
	for _, r := range inc {
		if r.Kind == kindMember {
			s.memberTypes[r.Type] = true
		}
	}
	return s, nil
}

func compileList(raws []string) ([]*Rule, error) {
	var out []*Rule
	for _, raw := range raws {
		r, err := parseRule(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *IdentifierSet) index(rules []*Rule, exact map[string]*Rule, pkgTree art.Tree, wildcard **Rule) {
	for _, r := range rules {
		switch r.Kind {
		case kindWildcard:
			*wildcard = r
		case kindPackage:
			pkgTree.Insert(art.Key(r.Package), r)
		case kindType:
			exact[r.Type] = r
		case kindMember:
			exact[r.Type+"#"+r.Member] = r
		}
	}
}

// checkRedundancy implements the spec's redundancy rule: within one rule
// list, a more specific rule is redundant if every entity it could ever
// match is already matched by some less specific rule in the same list.
func checkRedundancy(rules []*Rule) error {
	for _, specific := range rules {
		for _, general := range rules {
			if specific == general || general.Kind >= specific.Kind {
				continue
			}
			if subsetOf(specific, general) {
				return &reporter.ConfigError{Message: fmt.Sprintf("rule %q is redundant: already covered by %q", specific.Raw, general.Raw)}
			}
		}
	}
	return nil
}

// subsetOf reports whether every name specific matches is also matched by
// general, used only for compile-time redundancy checking (never for
// runtime Decide).
func subsetOf(specific, general *Rule) bool {
	switch general.Kind {
	case kindWildcard:
		return true
	case kindPackage:
		switch specific.Kind {
		case kindPackage:
			return specific.Package == general.Package || strings.HasPrefix(specific.Package, general.Package+".")
		case kindType:
			return inPackage(specific.Type, general.Package)
		case kindMember:
			return inPackage(specific.Type, general.Package)
		}
	case kindType:
		switch specific.Kind {
		case kindMember:
			return specific.Type == general.Type
		}
	}
	return false
}

func inPackage(qualifiedName, pkg string) bool {
	return qualifiedName == pkg || strings.HasPrefix(qualifiedName, pkg+".")
}

// DecideType reports whether typeName is included, per §4.5's
// exclude-wins-then-include-then-default-exclude procedure, marking
// whichever rule fired (most specific wins when several rules in the same
// list would have matched) as used.
func (s *IdentifierSet) DecideType(typeName string) bool {
	if r := s.mostSpecificMatch(typeName, s.exactExcludes, s.pkgExcludes, s.wildcardExclude); r != nil {
		r.used = true
		return false
	}
	if r := s.mostSpecificMatch(typeName, s.exactIncludes, s.pkgIncludes, s.wildcardInclude); r != nil {
		r.used = true
		return true
	}
	// A type named only by a member-reference include (e.g. "pkg.Type#FIELD")
	// is itself included — DecideMember then decides which members survive.
	return s.memberTypes[typeName]
}

// IsExcluded reports whether name matches some rule in the exclude list,
// independent of whether it would otherwise be included. The Pruner uses
// this to keep a rubbish type out of the reachability closure even when a
// surviving type's field still names it.
func (s *IdentifierSet) IsExcluded(name string) bool {
	if r := s.mostSpecificMatch(name, s.exactExcludes, s.pkgExcludes, s.wildcardExclude); r != nil {
		r.used = true
		return true
	}
	return false
}

// DecideMember reports whether one message field or enum constant
// survives, given that its owning type already decided DecideType(typeName)
// == true. A member-specific exclude always wins; a member-specific
// include is required once any member rule names the owning type (the
// "named by member-reference only" carve-out); otherwise the member
// inherits the type-level decision.
func (s *IdentifierSet) DecideMember(typeName, member string) bool {
	key := typeName + "#" + member
	if r, ok := s.exactExcludes[key]; ok {
		r.used = true
		return false
	}
	if r := s.mostSpecificMatch(typeName, s.exactExcludes, s.pkgExcludes, s.wildcardExclude); r != nil {
		r.used = true
		return false
	}
	if r, ok := s.exactIncludes[key]; ok {
		r.used = true
		return true
	}
	if s.memberTypes[typeName] {
		// some member rule names this type; members without their own
		// explicit include are excluded.
		return false
	}
	return s.DecideType(typeName)
}

// mostSpecificMatch returns the highest-kind rule in one list (exact map,
// package tree, wildcard) that matches name, without mutating used flags.
func (s *IdentifierSet) mostSpecificMatch(name string, exact map[string]*Rule, pkgTree art.Tree, wildcard *Rule) *Rule {
	if r, ok := exact[name]; ok {
		return r
	}
	for _, scope := range ancestry(name) {
		if v, found := pkgTree.Search(art.Key(scope)); found {
			return v.(*Rule)
		}
	}
	return wildcard
}

// ancestry returns name and each of its dotted ancestor scopes, innermost
// first, the same walk scopeChain performs for reference resolution.
func ancestry(name string) []string {
	chain := []string{name}
	s := name
	for {
		idx := strings.LastIndex(s, ".")
		if idx < 0 {
			break
		}
		s = s[:idx]
		chain = append(chain, s)
	}
	return chain
}

// UnusedRules returns the raw text of every rule (from either list) whose
// used flag never fired, in configuration order.
func (s *IdentifierSet) UnusedRules() []string {
	var out []string
	for _, r := range s.includes {
		if !r.used {
			out = append(out, r.Raw)
		}
	}
	for _, r := range s.excludes {
		if !r.used {
			out = append(out, r.Raw)
		}
	}
	return out
}

// IsUnrestricted reports whether this set is the default "all, nothing
// excluded" configuration, letting the Pruner take its fast path.
func (s *IdentifierSet) IsUnrestricted() bool {
	return len(s.excludes) == 0 && len(s.includes) == 1 && s.includes[0].Kind == kindWildcard
}
