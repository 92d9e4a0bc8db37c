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

// Package parser is a hand-written recursive-descent parser over a single
// .proto source buffer, with one token of lookahead. Comment capture and
// string-literal escaping live in the Lexer below; the Parser consumes its
// tokens directly against the grammar rather than through a generated
// parse table.
package parser

import "github.com/protolink/schemac/location"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenInt
	TokenFloat
	TokenString
	// TokenSymbol covers every single-rune punctuation token: { } ( ) [ ] < > ; : , . = - +
	TokenSymbol
)

// Token is one lexeme plus the Location it started at and any doc comment
// that immediately preceded it: comments preceding a declaration are
// attached as documentation.
type Token struct {
	Kind TokenKind
	Text string
	Pos  location.Location
	Doc  string
}

// IsSymbol reports whether t is the single-rune symbol r.
func (t Token) IsSymbol(r byte) bool {
	return t.Kind == TokenSymbol && len(t.Text) == 1 && t.Text[0] == r
}

// IsKeyword reports whether t is the bare identifier kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenIdent && t.Text == kw
}
