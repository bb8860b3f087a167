package token

import "fmt"

type Pos struct {
	Filename     string
	Line, Column int
}

func NewPosition(filename string, line, column int) Pos {
	return Pos{Filename: filename, Line: line, Column: column}
}

func (pos *Pos) Move(character byte) {
	if character == '\n' {
		pos.Column = 1
		pos.Line++
	} else {
		pos.Column++
	}
}

func (pos *Pos) SetPosition(newPos Pos) {
	pos.Filename = newPos.Filename
	pos.Line = newPos.Line
	pos.Column = newPos.Column
}

// Before reports whether pos sorts before other, comparing filename first.
func (pos Pos) Before(other Pos) bool {
	if pos.Filename != other.Filename {
		return pos.Filename < other.Filename
	}
	if pos.Line != other.Line {
		return pos.Line < other.Line
	}
	return pos.Column < other.Column
}

func (pos Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// Span is the source range a node was parsed from.
type Span struct {
	Start, End Pos
}

func NewSpan(start, end Pos) Span {
	return Span{Start: start, End: end}
}

func (span Span) String() string {
	return span.Start.String()
}
