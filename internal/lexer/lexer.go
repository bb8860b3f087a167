package lexer

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/HicaroD/herb/internal/diagnostics"
	"github.com/HicaroD/herb/internal/lexer/token"
)

const eof = '\000'

type Lexer struct {
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos
}

func New(filename string, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	lexer.Collector = collector
	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

// NewFromFilePath reads a source file. A UTF-8 byte order mark is dropped and
// UTF-16 input (detected by its BOM) is converted to UTF-8.
func NewFromFilePath(path string, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return New(path, src, collector), nil
}

func ReadSource(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading source %s", path)
	}
	defer file.Close()

	decoder := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	src, err := io.ReadAll(transform.NewReader(file, decoder))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding source %s", path)
	}
	return src, nil
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Peek() *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset
	prevDiags := len(lex.Collector.Diags)

	token := lex.Next()

	lex.pos.SetPosition(prevPos)
	lex.offset = prevOffset
	// the token is lexed again by Next, which reports its errors
	lex.Collector.Diags = lex.Collector.Diags[:prevDiags]
	return token
}

func (lex *Lexer) Peek1() *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset
	prevDiags := len(lex.Collector.Diags)

	_ = lex.Next()
	token := lex.Next()

	lex.pos.SetPosition(prevPos)
	lex.offset = prevOffset
	lex.Collector.Diags = lex.Collector.Diags[:prevDiags]

	return token
}

func (lex *Lexer) Skip() {
	lex.Next()
}

func (lex *Lexer) NextIs(expectedKind token.Kind) bool {
	token := lex.Peek()
	return token.Kind == expectedKind
}

func (lex *Lexer) Next() *token.Token {
	lex.skipWhitespaceAndComments()
	character := lex.peekChar()

	tok := &token.Token{}
	tok.Kind = token.INVALID

	if character == eof {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok
	}

	token := lex.getToken(tok, character)
	return token
}

// Useful for testing
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	for {
		tok := lex.Next()
		if tok.Kind == token.INVALID {
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, nil
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) *token.Token {
	switch ch {
	case '(':
		lex.single(tok, token.OPEN_PAREN)
	case ')':
		lex.single(tok, token.CLOSE_PAREN)
	case '{':
		lex.single(tok, token.OPEN_CURLY)
	case '}':
		lex.single(tok, token.CLOSE_CURLY)
	case '"':
		lex.getStringLit(tok)
	case ',':
		lex.single(tok, token.COMMA)
	case ';':
		lex.single(tok, token.SEMICOLON)
	case ':':
		lex.single(tok, token.COLON)
	case '.':
		lex.single(tok, token.DOT)
	case '+':
		lex.single(tok, token.PLUS)
	case '-':
		lex.single(tok, token.MINUS)
	case '*':
		lex.single(tok, token.STAR)
	case '/':
		lex.single(tok, token.SLASH)
	case '%':
		lex.single(tok, token.PERCENT)
	case '!':
		lex.double(tok, token.BANG, '=', token.BANG_EQUAL)
	case '>':
		lex.double(tok, token.GREATER, '=', token.GREATER_EQ)
	case '<':
		lex.double(tok, token.LESS, '=', token.LESS_EQ)
	case '=':
		lex.double(tok, token.EQUAL, '=', token.EQUAL_EQUAL)
	case '&':
		lex.double(tok, token.AMPERSAND, '&', token.AND_AND)
	case '|':
		lex.double(tok, token.PIPE, '|', token.PIPE_PIPE)
	default:
		if isLetter(ch) {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			tok.Pos = lex.pos
			r, size := utf8.DecodeRune(lex.src[lex.offset:])
			for i := 0; i < size; i++ {
				lex.nextChar()
			}
			lex.Collector.Report(diagnostics.SYNTAX, tok.Pos, "", "invalid character %q", r)
		}
	}
	return tok
}

func (lex *Lexer) single(tok *token.Token, kind token.Kind) {
	lex.consumeTokenNoLex(tok, kind)
	lex.nextChar()
}

// double lexes a one or two character operator: kind, or doubleKind when the
// next character is second.
func (lex *Lexer) double(tok *token.Token, kind token.Kind, second byte, doubleKind token.Kind) {
	lex.consumeTokenNoLex(tok, kind)
	lex.nextChar()
	if lex.peekChar() == second {
		lex.nextChar()
		tok.Kind = doubleKind
	}
}

func (lex *Lexer) getStringLit(tok *token.Token) *token.Token {
	tok.Pos = lex.pos
	lex.nextChar() // "

	var str []byte
	for {
		ch := lex.peekChar()
		if ch == eof || ch == '"' || ch == '\n' {
			break
		}

		if ch == '\\' {
			escapePos := lex.pos
			lex.nextChar()
			escapeSym := lex.peekChar()

			var escape byte
			switch escapeSym {
			case 'n':
				escape = '\n'
			case 't':
				escape = '\t'
			case '\\':
				escape = '\\'
			case '"':
				escape = '"'
			case '0':
				lex.Collector.Report(diagnostics.SYNTAX, escapePos, "Strings are null-terminated, so it would end the string early", "invalid escape sequence '\\0'")
				return tok
			default:
				lex.Collector.Report(diagnostics.SYNTAX, escapePos, "", "invalid escape sequence '\\%c'", escapeSym)
				return tok
			}
			str = append(str, escape)
		} else {
			str = append(str, ch)
		}

		lex.nextChar()
	}

	if lex.peekChar() != '"' {
		lex.Collector.Report(diagnostics.SYNTAX, tok.Pos, "", "unterminated string literal")
		return tok
	}
	lex.nextChar() // "

	tok.Kind = token.STRING_LITERAL
	tok.Lexeme = str
	return tok
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	number := lex.readWhile(isDigit)
	tok.Kind = token.INTEGER_LITERAL
	tok.Lexeme = number
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return isLetter(chr) || isDigit(chr) },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier
	keyword, ok := token.KEYWORDS[string(identifier)]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespaceAndComments() {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
		})
		if lex.peekChar() != '/' || lex.peekCharAt(1) != '/' {
			return
		}
		lex.readWhile(func(ch byte) bool { return ch != '\n' })
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	start := lex.offset

	for {
		character := lex.peekChar()
		if character == eof || !isValid(character) {
			break
		}
		lex.nextChar()
	}

	return lex.src[start:lex.offset]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

// Identifiers are ASCII only.
func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
