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
	"fmt"
	"strings"

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
	"github.com/protolink/schemac/schema"
)

// Parse lexes and parses one .proto source buffer into a *schema.ProtoFile.
// path becomes the file's Location.Path; base identifies the search root it
// was loaded from (empty for synthetic/injected files).
//
// Parse reports every malformed-syntax error it finds through h, but
// (unlike the Linker) it stops at the first error within this file: a
// single .proto file is one translation unit, and continuing to parse
// past a broken declaration produces more noise than signal. The
// SchemaLoader is responsible for continuing on to the next file in its
// work queue after a file fails to parse.
func Parse(base, path string, src []byte, h *reporter.Handler) (*schema.ProtoFile, error) {
	p := &parser{lex: newLexer(base, path, src), h: h}
	if err := p.advance(); err != nil {
		return nil, p.fail(err)
	}
	file := &schema.ProtoFile{
		Location:      location.File(base, path),
		Syntax:        schema.Proto2,
		PublicImports: map[string]bool{},
	}
	for p.cur.Kind != TokenEOF {
		if err := p.topLevelDecl(file); err != nil {
			return file, p.fail(err)
		}
	}
	return file, nil
}

type parser struct {
	lex *lexer
	cur Token
	h   *reporter.Handler
}

func (p *parser) advance() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) fail(err error) error {
	if pe, ok := err.(*reporter.ParseError); ok {
		return p.h.HandleError(pe)
	}
	return p.h.HandleError(&reporter.ParseError{Pos: p.cur.Pos, Message: err.Error()})
}

func (p *parser) errf(format string, args ...any) error {
	return &reporter.ParseError{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expectSymbol(b byte) error {
	if !p.cur.IsSymbol(b) {
		return p.errf("expected %q, found %q", string(b), p.cur.Text)
	}
	return p.advance()
}

func (p *parser) tryConsumeSymbol(b byte) (bool, error) {
	if !p.cur.IsSymbol(b) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expectKeyword(kw string) error {
	if !p.cur.IsKeyword(kw) {
		return p.errf("expected %q, found %q", kw, p.cur.Text)
	}
	return p.advance()
}

func (p *parser) tryConsumeKeyword(kw string) (bool, error) {
	if !p.cur.IsKeyword(kw) {
		return false, nil
	}
	return true, p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.cur.Kind != TokenIdent {
		return "", p.errf("expected identifier, found %q", p.cur.Text)
	}
	text := p.cur.Text
	return text, p.advance()
}

func (p *parser) expectString() (string, error) {
	if p.cur.Kind != TokenString {
		return "", p.errf("expected string literal, found %q", p.cur.Text)
	}
	text := p.cur.Text
	return text, p.advance()
}

func (p *parser) expectInt() (int64, error) {
	if p.cur.IsKeyword("max") {
		if err := p.advance(); err != nil {
			return 0, err
		}
		return int64(schema.MaxTag), nil
	}
	neg := false
	if p.cur.IsSymbol('-') {
		neg = true
		if err := p.advance(); err != nil {
			return 0, err
		}
	}
	if p.cur.Kind != TokenInt {
		return 0, p.errf("expected integer literal, found %q", p.cur.Text)
	}
	text := p.cur.Text
	if err := p.advance(); err != nil {
		return 0, err
	}
	n, err := ParseInt(text)
	if err != nil {
		return 0, p.errf("invalid integer literal %q: %v", text, err)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// qualifiedIdent parses a (possibly dotted, possibly leading-dot) name:
// [.]IDENT('.'IDENT)*
func (p *parser) qualifiedIdent() (string, error) {
	var sb strings.Builder
	if ok, err := p.tryConsumeSymbol('.'); err != nil {
		return "", err
	} else if ok {
		sb.WriteByte('.')
	}
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	sb.WriteString(first)
	for p.cur.IsSymbol('.') {
		if err := p.advance(); err != nil {
			return "", err
		}
		next, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		sb.WriteByte('.')
		sb.WriteString(next)
	}
	return sb.String(), nil
}

func (p *parser) topLevelDecl(file *schema.ProtoFile) error {
	switch {
	case p.cur.IsSymbol(';'):
		return p.advance()
	case p.cur.IsKeyword("syntax"):
		return p.parseSyntax(file)
	case p.cur.IsKeyword("package"):
		return p.parsePackage(file)
	case p.cur.IsKeyword("import"):
		return p.parseImport(file)
	case p.cur.IsKeyword("option"):
		opt, err := p.parseOptionDecl()
		if err != nil {
			return err
		}
		file.FileOptions = append(file.FileOptions, opt)
		return nil
	case p.cur.IsKeyword("message"):
		return p.parseMessage(file, file.PackageName, true)
	case p.cur.IsKeyword("enum"):
		return p.parseEnum(file, file.PackageName, true)
	case p.cur.IsKeyword("service"):
		return p.parseService(file)
	case p.cur.IsKeyword("extend"):
		return p.parseExtend(file, file.PackageName)
	default:
		return p.errf("unexpected token %q at top level", p.cur.Text)
	}
}

func (p *parser) parseSyntax(file *schema.ProtoFile) error {
	if err := p.expectKeyword("syntax"); err != nil {
		return err
	}
	if err := p.expectSymbol('='); err != nil {
		return err
	}
	val, err := p.expectString()
	if err != nil {
		return err
	}
	switch val {
	case "proto2":
		file.Syntax = schema.Proto2
	case "proto3":
		file.Syntax = schema.Proto3
	default:
		return p.errf("unknown syntax %q: expected \"proto2\" or \"proto3\"", val)
	}
	return p.expectSymbol(';')
}

func (p *parser) parsePackage(file *schema.ProtoFile) error {
	if err := p.expectKeyword("package"); err != nil {
		return err
	}
	name, err := p.qualifiedIdent()
	if err != nil {
		return err
	}
	file.PackageName = name
	return p.expectSymbol(';')
}

func (p *parser) parseImport(file *schema.ProtoFile) error {
	if err := p.expectKeyword("import"); err != nil {
		return err
	}
	public := false
	if ok, err := p.tryConsumeKeyword("public"); err != nil {
		return err
	} else if ok {
		public = true
	} else if ok, err := p.tryConsumeKeyword("weak"); err != nil {
		return err
	} else if ok {
		// weak imports are tolerated but never treated as public.
	}
	path, err := p.expectString()
	if err != nil {
		return err
	}
	file.Imports = append(file.Imports, path)
	if public {
		file.PublicImports[path] = true
	}
	return p.expectSymbol(';')
}

// qualifiedPrefix returns scopePrefix + "." + name, or just name if
// scopePrefix is empty — the fully-qualified-name construction rule shared
// by every nested declaration kind.
func qualifiedPrefix(scopePrefix, name string) string {
	if scopePrefix == "" {
		return name
	}
	return scopePrefix + "." + name
}
