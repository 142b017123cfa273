// Package parser implements the recursive-descent parser of spec.md
// §4.2: one-token lookahead, producing a mypl/ast.Program, and the
// call-vs-assignment statement disambiguation.
package parser

import "mypl/token"

// dtypeKinds is the set of token kinds a dtype production may start
// with: the five primitive-type tags or a user-defined type ID.
var dtypeKinds = map[token.Kind]bool{
	token.INT_TYPE: true, token.DOUBLE_TYPE: true, token.BOOL_TYPE: true,
	token.CHAR_TYPE: true, token.STRING_TYPE: true, token.ID: true,
}

// operatorKinds is the set of token kinds that may appear as the `op`
// in `expr := term [op expr]`.
var operatorKinds = map[token.Kind]bool{
	token.PLUS: true, token.MINUS: true, token.MULTIPLY: true, token.DIVIDE: true,
	token.MODULO: true, token.AND: true, token.OR: true,
	token.EQUAL: true, token.NOT_EQUAL: true,
	token.LESS: true, token.LESS_EQUAL: true, token.GREATER: true, token.GREATER_EQUAL: true,
}

// valueKinds is the set of token kinds a pval (literal value)
// production may be.
var valueKinds = map[token.Kind]bool{
	token.INT_VAL: true, token.DOUBLE_VAL: true, token.BOOL_VAL: true,
	token.CHAR_VAL: true, token.STRING_VAL: true,
}
