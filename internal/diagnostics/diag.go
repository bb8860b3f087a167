package diagnostics

import (
	"fmt"

	"github.com/HicaroD/herb/internal/lexer/token"
)

type ErrorKind int

const (
	SYNTAX ErrorKind = iota
	RESOLUTION
	TYPE
	CONTROL_FLOW
	DEPENDENCY
	BACKEND
)

func (kind ErrorKind) String() string {
	switch kind {
	case SYNTAX:
		return "syntax error"
	case RESOLUTION:
		return "resolution error"
	case TYPE:
		return "type error"
	case CONTROL_FLOW:
		return "control flow error"
	case DEPENDENCY:
		return "dependency error"
	case BACKEND:
		return "backend error"
	}
	return "unknown error"
}

type Diag struct {
	Kind    ErrorKind
	Pos     token.Pos
	Message string
	Hint    string
}

func (diag Diag) Error() string {
	msg := diag.Message
	if diag.Pos.Filename != "" {
		msg = fmt.Sprintf("%s:%d:%d: %s", diag.Pos.Filename, diag.Pos.Line, diag.Pos.Column, diag.Message)
	}
	if diag.Hint != "" {
		msg += "\n\tHint: " + diag.Hint
	}
	return msg
}
