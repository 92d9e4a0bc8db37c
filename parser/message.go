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
	"github.com/protolink/schemac/schema"
)

// parseMessage parses a `message Name { ... }` declaration, appending it
// (and any nested types) to file.Declared, and — when topLevel is true —
// to file.TopLevelTypes.
func (p *parser) parseMessage(file *schema.ProtoFile, scopePrefix string, topLevel bool) error {
	doc := p.cur.Doc
	loc := p.cur.Pos
	if err := p.expectKeyword("message"); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	qn := qualifiedPrefix(scopePrefix, name)
	msg := &schema.MessageType{QualifiedName: qn, Location: loc, Doc: doc}
	t := &schema.Type{Kind: schema.MessageKind, Message: msg}

	file.Declared = append(file.Declared, t)
	if topLevel {
		file.TopLevelTypes = append(file.TopLevelTypes, qn)
	}
	return p.messageBody(file, msg)
}

func (p *parser) messageBody(file *schema.ProtoFile, msg *schema.MessageType) error {
	if err := p.expectSymbol('{'); err != nil {
		return err
	}
	for !p.cur.IsSymbol('}') {
		if p.cur.Kind == TokenEOF {
			return p.errf("unexpected end of file inside message %q", msg.QualifiedName)
		}
		if err := p.messageElement(file, msg); err != nil {
			return err
		}
	}
	return p.expectSymbol('}')
}

func (p *parser) messageElement(file *schema.ProtoFile, msg *schema.MessageType) error {
	switch {
	case p.cur.IsSymbol(';'):
		return p.advance()
	case p.cur.IsKeyword("message"):
		idx := len(file.Declared)
		if err := p.parseMessage(file, msg.QualifiedName, false); err != nil {
			return err
		}
		msg.Nested = append(msg.Nested, file.Declared[idx].QualifiedName())
		return nil
	case p.cur.IsKeyword("enum"):
		if err := p.parseEnum(file, msg.QualifiedName, false); err != nil {
			return err
		}
		msg.Nested = append(msg.Nested, file.Declared[len(file.Declared)-1].QualifiedName())
		return nil
	case p.cur.IsKeyword("extend"):
		return p.parseExtend(file, msg.QualifiedName)
	case p.cur.IsKeyword("oneof"):
		return p.parseOneof(msg)
	case p.cur.IsKeyword("reserved"):
		return p.parseReserved(msg)
	case p.cur.IsKeyword("extensions"):
		return p.parseExtensionRanges(msg)
	case p.cur.IsKeyword("option"):
		opt, err := p.parseOptionDecl()
		if err != nil {
			return err
		}
		msg.Options = append(msg.Options, opt)
		return nil
	default:
		field, err := p.parseField()
		if err != nil {
			return err
		}
		field.OneofIndex = -1
		msg.Fields = append(msg.Fields, field)
		return nil
	}
}
