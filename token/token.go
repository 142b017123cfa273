// Package token defines the lexeme shape shared by the lexer, parser,
// type checker, and interpreter.
package token

import "strconv"

//go:generate stringer -type=Kind

// Kind is the closed set of lexical token categories MyPL recognizes.
type Kind int

const (
	// structural
	ASSIGN Kind = iota
	COMMA
	DOT
	LPAREN
	RPAREN
	COLON

	// arithmetic
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MODULO
	NEG

	// logical
	AND
	OR
	NOT

	// comparators
	EQUAL
	NOT_EQUAL
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL

	// keywords
	TYPE
	FUN
	VAR
	NEW
	RETURN
	IF
	THEN
	ELSEIF
	ELSE
	END
	WHILE
	FOR
	TO
	DO

	// primitive-type tags
	BOOL_TYPE
	INT_TYPE
	DOUBLE_TYPE
	CHAR_TYPE
	STRING_TYPE

	// value tags
	BOOL_VAL
	INT_VAL
	DOUBLE_VAL
	CHAR_VAL
	STRING_VAL
	NIL
	ID

	// end of stream
	EOS
)

var kindNames = map[Kind]string{
	ASSIGN: "ASSIGN", COMMA: "COMMA", DOT: "DOT", LPAREN: "LPAREN",
	RPAREN: "RPAREN", COLON: "COLON",
	PLUS: "PLUS", MINUS: "MINUS", MULTIPLY: "MULTIPLY", DIVIDE: "DIVIDE",
	MODULO: "MODULO", NEG: "NEG",
	AND: "AND", OR: "OR", NOT: "NOT",
	EQUAL: "EQUAL", NOT_EQUAL: "NOT_EQUAL", LESS: "LESS",
	LESS_EQUAL: "LESS_EQUAL", GREATER: "GREATER", GREATER_EQUAL: "GREATER_EQUAL",
	TYPE: "TYPE", FUN: "FUN", VAR: "VAR", NEW: "NEW", RETURN: "RETURN",
	IF: "IF", THEN: "THEN", ELSEIF: "ELSEIF", ELSE: "ELSE", END: "END",
	WHILE: "WHILE", FOR: "FOR", TO: "TO", DO: "DO",
	BOOL_TYPE: "BOOL_TYPE", INT_TYPE: "INT_TYPE", DOUBLE_TYPE: "DOUBLE_TYPE",
	CHAR_TYPE: "CHAR_TYPE", STRING_TYPE: "STRING_TYPE",
	BOOL_VAL: "BOOL_VAL", INT_VAL: "INT_VAL", DOUBLE_VAL: "DOUBLE_VAL",
	CHAR_VAL: "CHAR_VAL", STRING_VAL: "STRING_VAL", NIL: "NIL", ID: "ID",
	EOS: "EOS",
}

// keywords maps reserved lexemes to their token kind. Built from this
// table rather than a chain of string comparisons in the lexer.
var keywords = map[string]Kind{
	"type": TYPE, "fun": FUN, "var": VAR, "new": NEW, "return": RETURN,
	"if": IF, "then": THEN, "elseif": ELSEIF, "else": ELSE, "end": END,
	"while": WHILE, "for": FOR, "to": TO, "do": DO,
	"bool": BOOL_TYPE, "int": INT_TYPE, "double": DOUBLE_TYPE,
	"char": CHAR_TYPE, "string": STRING_TYPE,
	"true": BOOL_VAL, "false": BOOL_VAL, "nil": NIL,
	"and": AND, "or": OR, "not": NOT, "neg": NEG,
}

// Lookup returns the keyword Kind for lexeme, or (ID, false) if lexeme
// is not reserved.
func Lookup(lexeme string) (Kind, bool) {
	k, ok := keywords[lexeme]
	if !ok {
		return ID, false
	}
	return k, true
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexeme with its source position. Line and Column
// are 1-based and point at the lexeme's first character.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// TypeName returns the source-language type name a value-tag token
// denotes, used by the type checker to seed curr_type from a literal.
func (t Token) TypeName() string {
	switch t.Kind {
	case BOOL_VAL:
		return "bool"
	case INT_VAL:
		return "int"
	case DOUBLE_VAL:
		return "double"
	case CHAR_VAL:
		return "char"
	case STRING_VAL:
		return "string"
	case NIL:
		return "nil"
	default:
		return t.Lexeme
	}
}

func (t Token) String() string {
	return t.Kind.String() + " '" + t.Lexeme + "' " +
		strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Column)
}

// Location renders a "[Lline:Ccolumn]" fragment for error messages.
func (t Token) Location() string {
	return "[L" + strconv.Itoa(t.Line) + ":C" + strconv.Itoa(t.Column) + "]"
}
