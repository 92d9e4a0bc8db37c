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
	"strconv"
	"strings"

	"github.com/protolink/schemac/location"
	"github.com/protolink/schemac/reporter"
)

// lexer scans a .proto source buffer one rune at a time, tracking line and
// column, and accumulating comment text to attach to the next lexeme as
// documentation.
type lexer struct {
	base, path string
	src        []byte
	pos        int
	line, col  int
}

func newLexer(base, path string, src []byte) *lexer {
	return &lexer{base: base, path: path, src: src, line: 1, col: 1}
}

func (l *lexer) here() location.Location {
	return location.File(l.base, l.path).WithPos(l.line, l.col)
}

func (l *lexer) peekByte() (byte, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *lexer) advance() (byte, bool) {
	b, ok := l.peekByte()
	if !ok {
		return 0, false
	}
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b, true
}

// Next returns the next token, or a *reporter.ParseError if the source is
// malformed.
func (l *lexer) Next() (Token, error) {
	doc, err := l.skipWhitespaceAndComments()
	if err != nil {
		return Token{}, err
	}
	pos := l.here()
	b, ok := l.peekByte()
	if !ok {
		return Token{Kind: TokenEOF, Pos: pos, Doc: doc}, nil
	}

	switch {
	case isIdentStart(b):
		return l.scanIdent(pos, doc), nil
	case b == '"' || b == '\'':
		return l.scanString(pos, doc)
	case isDigit(b):
		return l.scanNumber(pos, doc)
	case b == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]):
		return l.scanNumber(pos, doc)
	case strings.ContainsRune("{}()[]<>;:,.=-+", rune(b)):
		l.advance()
		return Token{Kind: TokenSymbol, Text: string(b), Pos: pos, Doc: doc}, nil
	default:
		l.advance()
		return Token{}, &reporter.ParseError{Pos: pos, Message: fmt.Sprintf("unexpected character %q", b)}
	}
}

// skipWhitespaceAndComments consumes whitespace, "//" line comments, and
// "/* */" block comments, returning the concatenated comment text
// immediately preceding the next token (contiguous comment lines with no
// intervening blank line).
func (l *lexer) skipWhitespaceAndComments() (string, error) {
	var doc strings.Builder
	blankLineBroke := false
	newlines := 0
	for {
		b, ok := l.peekByte()
		if !ok {
			return doc.String(), nil
		}
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			l.advance()
		case b == '\n':
			// a blank line between a comment block and the declaration
			// breaks the doc-comment association; the newline ending a
			// comment line does not.
			if doc.Len() > 0 {
				newlines++
				if newlines > 1 {
					blankLineBroke = true
				}
			}
			l.advance()
		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			text := l.consumeLineComment()
			if blankLineBroke {
				doc.Reset()
				blankLineBroke = false
			}
			doc.WriteString(text)
			doc.WriteByte('\n')
			newlines = 0
		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			text, err := l.consumeBlockComment()
			if err != nil {
				return "", err
			}
			if blankLineBroke {
				doc.Reset()
				blankLineBroke = false
			}
			doc.WriteString(text)
			doc.WriteByte('\n')
			newlines = 0
		default:
			if blankLineBroke {
				return "", nil
			}
			return strings.TrimRight(doc.String(), "\n"), nil
		}
	}
}

func (l *lexer) consumeLineComment() string {
	l.advance() // '/'
	l.advance() // '/'
	start := l.pos
	for {
		b, ok := l.peekByte()
		if !ok || b == '\n' {
			break
		}
		l.advance()
	}
	return strings.TrimSpace(string(l.src[start:l.pos]))
}

func (l *lexer) consumeBlockComment() (string, error) {
	startPos := l.here()
	l.advance() // '/'
	l.advance() // '*'
	start := l.pos
	for {
		b, ok := l.peekByte()
		if !ok {
			return "", &reporter.ParseError{Pos: startPos, Message: "unterminated block comment"}
		}
		if b == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			text := string(l.src[start:l.pos])
			l.advance()
			l.advance()
			return strings.TrimSpace(text), nil
		}
		l.advance()
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (l *lexer) scanIdent(pos location.Location, doc string) Token {
	start := l.pos
	for {
		b, ok := l.peekByte()
		if !ok || !isIdentCont(b) {
			break
		}
		l.advance()
	}
	// qualified identifiers (a.b.c) are assembled by the parser from
	// repeated TokenIdent/'.' pairs, so the lexer itself never needs to
	// look ahead past one token.
	return Token{Kind: TokenIdent, Text: string(l.src[start:l.pos]), Pos: pos, Doc: doc}
}

func (l *lexer) scanNumber(pos location.Location, doc string) (Token, error) {
	start := l.pos
	isFloat := false
	if b, ok := l.peekByte(); ok && b == '0' {
		if l.pos+1 < len(l.src) && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
			l.advance()
			l.advance()
			for {
				b, ok := l.peekByte()
				if !ok || !isHexDigit(b) {
					break
				}
				l.advance()
			}
			return Token{Kind: TokenInt, Text: string(l.src[start:l.pos]), Pos: pos, Doc: doc}, nil
		}
	}
	for {
		b, ok := l.peekByte()
		if !ok {
			break
		}
		switch {
		case isDigit(b):
			l.advance()
		case b == '.' && !isFloat:
			isFloat = true
			l.advance()
		case (b == 'e' || b == 'E') && !isFloat:
			isFloat = true
			l.advance()
			if b, ok := l.peekByte(); ok && (b == '+' || b == '-') {
				l.advance()
			}
		default:
			goto done
		}
	}
done:
	text := string(l.src[start:l.pos])
	kind := TokenInt
	if isFloat {
		kind = TokenFloat
	}
	return Token{Kind: kind, Text: text, Pos: pos, Doc: doc}, nil
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (l *lexer) scanString(pos location.Location, doc string) (Token, error) {
	quote, _ := l.advance()
	var sb strings.Builder
	for {
		b, ok := l.peekByte()
		if !ok {
			return Token{}, &reporter.ParseError{Pos: pos, Message: "unterminated string literal"}
		}
		if b == quote {
			l.advance()
			break
		}
		if b == '\n' {
			return Token{}, &reporter.ParseError{Pos: pos, Message: "string literal spans a newline"}
		}
		if b == '\\' {
			l.advance()
			esc, ok := l.advance()
			if !ok {
				return Token{}, &reporter.ParseError{Pos: pos, Message: "unterminated string literal"}
			}
			r, err := unescape(esc)
			if err != nil {
				return Token{}, &reporter.ParseError{Pos: pos, Message: err.Error()}
			}
			sb.WriteByte(r)
			continue
		}
		l.advance()
		sb.WriteByte(b)
	}
	return Token{Kind: TokenString, Text: sb.String(), Pos: pos, Doc: doc}, nil
}

func unescape(b byte) (byte, error) {
	switch b {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '\\', '\'', '"':
		return b, nil
	case '0':
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported escape sequence \\%c", b)
	}
}

// ParseInt parses an integer token's text (decimal or 0x-prefixed hex).
func ParseInt(text string) (int64, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return strconv.ParseInt(text[2:], 16, 64)
	}
	return strconv.ParseInt(text, 10, 64)
}

// parseFloatText parses a float token's text.
func parseFloatText(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
