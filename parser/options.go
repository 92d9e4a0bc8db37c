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

import (
	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/schema"
)

// parseOptionDecl parses a standalone `option name = value;` statement.
func (p *parser) parseOptionDecl() (schema.Option, error) {
	if err := p.expectKeyword("option"); err != nil {
		return schema.Option{}, err
	}
	pos := p.cur.Pos
	name, err := p.optionName()
	if err != nil {
		return schema.Option{}, err
	}
	if err := p.expectSymbol('='); err != nil {
		return schema.Option{}, err
	}
	val, err := p.optionValue()
	if err != nil {
		return schema.Option{}, err
	}
	if err := p.expectSymbol(';'); err != nil {
		return schema.Option{}, err
	}
	return schema.Option{Name: name, Value: val, Pos: pos}, nil
}

// compactOptions parses a `[name = value, ...]` field/enum-value/extension-
// range trailer.
func (p *parser) compactOptions() ([]schema.Option, error) {
	if err := p.expectSymbol('['); err != nil {
		return nil, err
	}
	var opts []schema.Option
	for {
		pos := p.cur.Pos
		name, err := p.optionName()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol('='); err != nil {
			return nil, err
		}
		val, err := p.optionValue()
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.Option{Name: name, Value: val, Pos: pos})
		if ok, err := p.tryConsumeSymbol(','); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return opts, p.expectSymbol(']')
}

// optionName parses a plain identifier, a dotted identifier, or an
// extension path `(pkg.ExtensionName)[.field]*`.
func (p *parser) optionName() (string, error) {
	var name string
	if p.cur.IsSymbol('(') {
		if err := p.advance(); err != nil {
			return "", err
		}
		ext, err := p.qualifiedIdent()
		if err != nil {
			return "", err
		}
		if err := p.expectSymbol(')'); err != nil {
			return "", err
		}
		name = "(" + ext + ")"
	} else {
		first, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name = first
	}
	for p.cur.IsSymbol('.') {
		if err := p.advance(); err != nil {
			return "", err
		}
		next, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name += "." + next
	}
	return name, nil
}

// optionValue parses a scalar literal, identifier, or message-literal value.
func (p *parser) optionValue() (schema.Value, error) {
	pos := p.cur.Pos
	switch {
	case p.cur.IsKeyword("true"):
		return schema.Value{Kind: schema.KindBool, Bool: true, Pos: pos}, p.advance()
	case p.cur.IsKeyword("false"):
		return schema.Value{Kind: schema.KindBool, Bool: false, Pos: pos}, p.advance()
	case p.cur.Kind == TokenString:
		s, err := p.expectString()
		return schema.Value{Kind: schema.KindString, Str: s, Pos: pos}, err
	case p.cur.Kind == TokenIdent:
		id, err := p.qualifiedIdent()
		return schema.Value{Kind: schema.KindIdent, Ident: id, Pos: pos}, err
	case p.cur.IsSymbol('-') || p.cur.Kind == TokenInt || p.cur.Kind == TokenFloat:
		return p.numericValue(pos)
	case p.cur.IsSymbol('{'):
		return p.messageLiteralValue(pos)
	case p.cur.IsSymbol('['):
		return p.listValue(pos)
	default:
		return schema.Value{}, p.errf("unexpected token %q in option value", p.cur.Text)
	}
}

func (p *parser) numericValue(pos location.Location) (schema.Value, error) {
	neg := false
	if p.cur.IsSymbol('-') {
		neg = true
		if err := p.advance(); err != nil {
			return schema.Value{}, err
		}
	}
	if p.cur.Kind == TokenFloat {
		text := p.cur.Text
		if err := p.advance(); err != nil {
			return schema.Value{}, err
		}
		f, err := parseFloatText(text)
		if err != nil {
			return schema.Value{}, p.errf("invalid float literal %q: %v", text, err)
		}
		if neg {
			f = -f
		}
		return schema.Value{Kind: schema.KindFloat, Float: f, Pos: pos}, nil
	}
	text := p.cur.Text
	if err := p.advance(); err != nil {
		return schema.Value{}, err
	}
	n, err := ParseInt(text)
	if err != nil {
		return schema.Value{}, p.errf("invalid integer literal %q: %v", text, err)
	}
	if neg {
		return schema.Value{Kind: schema.KindInt, Int: -n, Pos: pos}, nil
	}
	return schema.Value{Kind: schema.KindUint, Uint: uint64(n), Pos: pos}, nil
}

func (p *parser) messageLiteralValue(pos location.Location) (schema.Value, error) {
	if err := p.expectSymbol('{'); err != nil {
		return schema.Value{}, err
	}
	var fields []schema.MessageLiteralField
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return schema.Value{}, p.errf("unexpected end of file inside message literal")
		}
		if p.cur.IsSymbol(';') || p.cur.IsSymbol(',') {
			if err := p.advance(); err != nil {
				return schema.Value{}, err
			}
			continue
		}
		name, err := p.optionName()
		if err != nil {
			return schema.Value{}, err
		}
		var val schema.Value
		if p.cur.IsSymbol('{') {
			val, err = p.messageLiteralValue(p.cur.Pos)
		} else {
			if err = p.expectSymbol(':'); err != nil {
				return schema.Value{}, err
			}
			val, err = p.optionValue()
		}
		if err != nil {
			return schema.Value{}, err
		}
		fields = append(fields, schema.MessageLiteralField{Name: name, Value: val})
	}
	if err := p.expectSymbol('}'); err != nil {
		return schema.Value{}, err
	}
	return schema.Value{Kind: schema.KindMessageLiteral, Message: fields, Pos: pos}, nil
}

func (p *parser) listValue(pos location.Location) (schema.Value, error) {
	if err := p.expectSymbol('['); err != nil {
		return schema.Value{}, err
	}
	var items []schema.Value
	for !p.cur.IsSymbol(']') {
		v, err := p.optionValue()
		if err != nil {
			return schema.Value{}, err
		}
		items = append(items, v)
		if ok, err := p.tryConsumeSymbol(','); err != nil {
			return schema.Value{}, err
		} else if !ok {
			break
		}
	}
	return schema.Value{Kind: schema.KindList, List: items, Pos: pos}, p.expectSymbol(']')
}
