// Package mplerr implements the single structured error record shared
// by every pipeline stage (lexer, parser, type checker, interpreter).
package mplerr

import (
	"fmt"

	"golang.org/x/xerrors"

	"mypl/token"
)

// Stage identifies which pipeline phase raised an Error.
type Stage int

const (
	Lexer Stage = iota
	Syntax
	Semantic
	Runtime
)

func (s Stage) String() string {
	switch s {
	case Lexer:
		return "LEXER"
	case Syntax:
		return "SYNTAX"
	case Semantic:
		return "SEMANTIC"
	case Runtime:
		return "RUNTIME"
	default:
		return "UNKNOWN"
	}
}

// Error is the structured error record of spec §7: a stage, a message,
// and an optional source position. It wraps an underlying cause (when
// one exists, e.g. a strconv failure inside a built-in) so callers can
// still errors.Is/errors.As through it.
type Error struct {
	Stage   Stage
	Message string
	HasPos  bool
	Line    int
	Column  int
	cause   error
}

// New constructs a stage error with no source position.
func New(stage Stage, msg string) *Error {
	return &Error{Stage: stage, Message: msg}
}

// At constructs a stage error positioned at tok.
func At(stage Stage, msg string, tok token.Token) *Error {
	return &Error{Stage: stage, Message: msg, HasPos: true, Line: tok.Line, Column: tok.Column}
}

// Wrap constructs a stage error positioned at tok that wraps cause.
func Wrap(stage Stage, tok token.Token, cause error, msg string) *Error {
	return &Error{
		Stage: stage, Message: msg, HasPos: true, Line: tok.Line, Column: tok.Column,
		cause: xerrors.Errorf("%s: %w", msg, cause),
	}
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s [L%d:C%d] %s", e.Stage, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}
