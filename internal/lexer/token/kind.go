package token

import "fmt"

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Identifier
	ID

	// Literals
	INTEGER_LITERAL
	STRING_LITERAL
	TRUE_BOOL_LITERAL
	FALSE_BOOL_LITERAL

	// Keywords
	FN
	VAR
	CONST
	IMPORT
	ENTRYPOINT
	WHILE
	RETURN
	IF
	ELSE

	// Types
	BOOL_TYPE // bool
	INT_TYPE  // int
	STR_TYPE  // str
	VOID_TYPE // void

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// ,
	COMMA
	// ;
	SEMICOLON
	// :
	COLON
	// .
	DOT

	// =
	EQUAL
	// !
	BANG
	// !=
	BANG_EQUAL
	// ==
	EQUAL_EQUAL

	// >
	GREATER
	// >=
	GREATER_EQ
	// <
	LESS
	// <=
	LESS_EQ

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// /
	SLASH
	// %
	PERCENT

	// &
	AMPERSAND
	// |
	PIPE
	// &&
	AND_AND
	// ||
	PIPE_PIPE
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"fn":         FN,
	"var":        VAR,
	"const":      CONST,
	"import":     IMPORT,
	"entrypoint": ENTRYPOINT,
	"while":      WHILE,
	"return":     RETURN,
	"if":         IF,
	"else":       ELSE,

	"true":  TRUE_BOOL_LITERAL,
	"false": FALSE_BOOL_LITERAL,

	"bool": BOOL_TYPE,
	"int":  INT_TYPE,
	"str":  STR_TYPE,
	"void": VOID_TYPE,
}

var BASIC_TYPES map[Kind]bool = map[Kind]bool{
	VOID_TYPE: true,
	BOOL_TYPE: true,
	INT_TYPE:  true,
	STR_TYPE:  true,
}

func (kind Kind) IsBasicType() bool {
	_, ok := BASIC_TYPES[kind]
	return ok
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case INTEGER_LITERAL:
		return "integer literal"
	case STRING_LITERAL:
		return "string literal"
	case TRUE_BOOL_LITERAL:
		return "true"
	case FALSE_BOOL_LITERAL:
		return "false"
	case FN:
		return "fn"
	case VAR:
		return "var"
	case CONST:
		return "const"
	case IMPORT:
		return "import"
	case ENTRYPOINT:
		return "entrypoint"
	case WHILE:
		return "while"
	case RETURN:
		return "return"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case BOOL_TYPE:
		return "bool"
	case INT_TYPE:
		return "int"
	case STR_TYPE:
		return "str"
	case VOID_TYPE:
		return "void"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	case DOT:
		return "."
	case EQUAL:
		return "="
	case BANG:
		return "!"
	case BANG_EQUAL:
		return "!="
	case EQUAL_EQUAL:
		return "=="
	case GREATER:
		return ">"
	case GREATER_EQ:
		return ">="
	case LESS:
		return "<"
	case LESS_EQ:
		return "<="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case PERCENT:
		return "%"
	case AMPERSAND:
		return "&"
	case PIPE:
		return "|"
	case AND_AND:
		return "&&"
	case PIPE_PIPE:
		return "||"
	}
	return fmt.Sprintf("Kind(%d)", int(kind))
}
