package token

import "fmt"

type Token struct {
	Lexeme []byte
	Kind   Kind
	Pos    Pos
}

func New(lexeme []byte, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

func (token *Token) Name() string {
	if token.Kind == ID || token.Kind == STRING_LITERAL || token.Kind == INTEGER_LITERAL {
		return string(token.Lexeme)
	}
	return token.Kind.String()
}

// Span covers the token from its first byte up to, but excluding, the next
// token.
func (token *Token) Span() Span {
	end := token.Pos
	end.Column += len(token.Lexeme)
	return Span{Start: token.Pos, End: end}
}

func (token *Token) String() string {
	return fmt.Sprintf("%s | %s | %s", string(token.Lexeme), token.Kind, token.Pos)
}
