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

package parser

import "github.com/protolink/schemac/schema"

// parseEnum parses an `enum Name { ... }` declaration. Unlike messages,
// enums cannot nest further declarations, only values and options (spec
// §3).
func (p *parser) parseEnum(file *schema.ProtoFile, scopePrefix string, topLevel bool) error {
	doc := p.cur.Doc
	loc := p.cur.Pos
	if err := p.expectKeyword("enum"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	qn := qualifiedPrefix(scopePrefix, name)
	en := &schema.EnumType{QualifiedName: qn, Location: loc, Doc: doc}

	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside enum %q", qn)
		}
		if err := p.enumElement(en); err != nil {
			return err
		}
	}
	if err := p.expectSymbol('}'); err != nil {
		return err
	}

	t := &schema.Type{Kind: schema.EnumKind, Enum: en}
	file.Declared = append(file.Declared, t)
	if topLevel {
		file.TopLevelTypes = append(file.TopLevelTypes, qn)
	}
	return nil
}

func (p *parser) enumElement(en *schema.EnumType) error {
	switch {
	case p.cur.IsSymbol(';'):
		return p.advance()
	case p.cur.IsKeyword("option"):
		opt, err := p.parseOptionDecl()
		if err != nil {
			return err
		}
		en.Options = append(en.Options, opt)
		return nil
	case p.cur.IsKeyword("reserved"):
		return p.parseEnumReserved(en)
	default:
		return p.parseEnumValue(en)
	}
}

func (p *parser) parseEnumValue(en *schema.EnumType) error {
	loc := p.cur.Pos
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol('='); err != nil {
		return err
	}
	tag, err := p.expectInt()
	if err != nil {
		return err
	}
	val := schema.EnumValue{Name: name, Tag: int32(tag), Location: loc}
	if p.cur.IsSymbol('[') {
		opts, err := p.compactOptions()
		if err != nil {
			return err
		}
		val.Options = opts
	}
	en.Values = append(en.Values, val)
	return p.expectSymbol(';')
}

// parseEnumReserved accepts the same reserved syntax as messages but
// discards the result: enum values carry no separate reserved-range field,
// so this exists purely so reserved declarations inside an enum body parse
// without error.
func (p *parser) parseEnumReserved(en *schema.EnumType) error {
	if err := p.expectKeyword("reserved"); err != nil {
		return err
	}
	if p.cur.Kind == TokenString {
		for {
			if _, err := p.expectString(); err != nil {
				return err
			}
			if ok, err := p.tryConsumeSymbol(','); err != nil {
				return err
			} else if !ok {
				break
			}
		}
		return p.expectSymbol(';')
	}
	if _, err := p.rangeList(); err != nil {
		return err
	}
	return p.expectSymbol(';')
}
