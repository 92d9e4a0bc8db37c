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

var scalarTypeNames = map[string]bool{
	"double": true, "float": true, "int32": true, "int64": true,
	"uint32": true, "uint64": true, "sint32": true, "sint64": true,
	"fixed32": true, "fixed64": true, "sfixed32": true, "sfixed64": true,
	"bool": true, "string": true, "bytes": true,
}

// parseField parses one field declaration, including the `map<K, V>` form.
// The leading label (optional/required/repeated) is itself optional, since
// proto3 fields normally carry none.
func (p *parser) parseField() (*schema.Field, error) {
	doc := p.cur.Doc
	loc := p.cur.Pos

	label := schema.Optional
	switch {
	case p.cur.IsKeyword("optional"):
		label = schema.Optional
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.cur.IsKeyword("required"):
		label = schema.Required
		if err := p.advance(); err != nil {
			return nil, err
		}
	case p.cur.IsKeyword("repeated"):
		label = schema.Repeated
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.cur.IsKeyword("map") {
		return p.parseMapField(doc, loc)
	}

	typeName, err := p.typeName()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol('='); err != nil {
		return nil, err
	}
	tag, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	field := &schema.Field{
		Name:     name,
		Tag:      int32(tag),
		Label:    label,
		Type:     schema.UnresolvedRef(typeName),
		Doc:      doc,
		Location: loc,
	}
	if p.cur.IsSymbol('[') {
		opts, err := p.compactOptions()
		if err != nil {
			return nil, err
		}
		field.Options = opts
		applyWellKnownFieldOptions(field, opts)
	}
	return field, p.expectSymbol(';')
}

func (p *parser) parseMapField(doc string, loc location.Location) (*schema.Field, error) {
	if err := p.expectKeyword("map"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol('<'); err != nil {
		return nil, err
	}
	keyType, err := p.typeName()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(','); err != nil {
		return nil, err
	}
	valType, err := p.typeName()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol('>'); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol('='); err != nil {
		return nil, err
	}
	tag, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	field := &schema.Field{
		Name:             name,
		Tag:              int32(tag),
		Label:            schema.Repeated,
		IsMap:            true,
		MapKeyTypeName:   keyType,
		MapValueTypeName: valType,
		Doc:              doc,
		Location:         loc,
	}
	if p.cur.IsSymbol('[') {
		opts, err := p.compactOptions()
		if err != nil {
			return nil, err
		}
		field.Options = opts
	}
	return field, p.expectSymbol(';')
}

// typeName parses a field type: a scalar keyword or a (possibly qualified,
// possibly leading-dot) message/enum name.
func (p *parser) typeName() (string, error) {
	if p.cur.Kind == TokenIdent && scalarTypeNames[p.cur.Text] {
		name := p.cur.Text
		return name, p.advance()
	}
	return p.qualifiedIdent()
}

func (p *parser) parseOneof(msg *schema.MessageType) error {
	if err := p.expectKeyword("oneof"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	idx := len(msg.Oneofs)
	msg.Oneofs = append(msg.Oneofs, &schema.Oneof{Name: name})
	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside oneof %q", name)
		}
		if p.cur.IsSymbol(';') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		if p.cur.IsKeyword("option") {
			// oneof-scoped options are parsed but not attached to any
			// field; Oneof has no Options slice to retain them on, so
			// they are simply consumed.
			if _, err := p.parseOptionDecl(); err != nil {
				return err
			}
			continue
		}
		field, err := p.parseField()
		if err != nil {
			return err
		}
		field.OneofIndex = idx
		field.Label = schema.OneofMember
		msg.Fields = append(msg.Fields, field)
	}
	return p.expectSymbol('}')
}

func (p *parser) parseReserved(msg *schema.MessageType) error {
	if err := p.expectKeyword("reserved"); err != nil {
		return err
	}
	if p.cur.Kind == TokenString {
		for {
			s, err := p.expectString()
			if err != nil {
				return err
			}
			msg.ReservedNames = append(msg.ReservedNames, s)
			if ok, err := p.tryConsumeSymbol(','); err != nil {
				return err
			} else if !ok {
				break
			}
		}
		return p.expectSymbol(';')
	}
	ranges, err := p.rangeList()
	if err != nil {
		return err
	}
	msg.ReservedRanges = append(msg.ReservedRanges, ranges...)
	return p.expectSymbol(';')
}

func (p *parser) parseExtensionRanges(msg *schema.MessageType) error {
	if err := p.expectKeyword("extensions"); err != nil {
		return err
	}
	ranges, err := p.rangeList()
	if err != nil {
		return err
	}
	var opts []schema.Option
	if p.cur.IsSymbol('[') {
		opts, err = p.compactOptions()
		if err != nil {
			return err
		}
	}
	for _, r := range ranges {
		msg.ExtensionRanges = append(msg.ExtensionRanges, schema.ExtensionRange{Start: r.Start, End: r.End, Options: opts})
	}
	return p.expectSymbol(';')
}

// rangeList parses `N [to (M|max)] (',' N [to (M|max)])*`.
func (p *parser) rangeList() ([]schema.ReservedRange, error) {
	var out []schema.ReservedRange
	for {
		start, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		end := start
		if ok, err := p.tryConsumeKeyword("to"); err != nil {
			return nil, err
		} else if ok {
			e, err := p.expectInt()
			if err != nil {
				return nil, err
			}
			end = e
		}
		out = append(out, schema.ReservedRange{Start: int32(start), End: int32(end)})
		if ok, err := p.tryConsumeSymbol(','); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	return out, nil
}

func (p *parser) parseExtend(file *schema.ProtoFile, scopePrefix string) error {
	loc := p.cur.Pos
	if err := p.expectKeyword("extend"); err != nil {
		return err
	}
	extendee, err := p.qualifiedIdent()
	if err != nil {
		return err
	}
	block := &schema.ExtendBlock{Extendee: schema.UnresolvedRef(extendee), Location: loc, Scope: scopePrefix}
	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside extend %q", extendee)
		}
		if p.cur.IsSymbol(';') {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		field, err := p.parseField()
		if err != nil {
			return err
		}
		field.IsExtension = true
		field.Extendee = schema.UnresolvedRef(extendee)
		field.OneofIndex = -1
		block.Fields = append(block.Fields, field)
	}
	if err := p.expectSymbol('}'); err != nil {
		return err
	}
	file.Extends = append(file.Extends, block)
	return nil
}

func applyWellKnownFieldOptions(field *schema.Field, opts []schema.Option) {
	for _, o := range opts {
		if o.Name == "packed" && o.Value.Kind == schema.KindBool {
			b := o.Value.Bool
			field.IsPacked = &b
		}
	}
}
