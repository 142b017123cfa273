package lexer

import (
	"reflect"
	"testing"

	"mypl/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := All(src)
	if err != nil {
		t.Fatalf("All(%q) error: %v", src, err)
	}
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerKeywordsAndStructure(t *testing.T) {
	src := `fun int main() return 0 end`
	want := []token.Kind{
		token.FUN, token.INT_TYPE, token.ID, token.LPAREN, token.RPAREN,
		token.RETURN, token.INT_VAL, token.END, token.EOS,
	}
	got := kinds(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestLexerOperatorsAndLookahead(t *testing.T) {
	src := `= == ! = < <= > >=`
	// a bare '!' not followed by '=' is a lex error
	if _, err := All(src); err == nil {
		t.Fatalf("expected error for bare '!', got none")
	}
}

func TestLexerMultiCharOperators(t *testing.T) {
	src := `== != <= >=`
	want := []token.Kind{token.EQUAL, token.NOT_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL, token.EOS}
	got := kinds(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestLexerStringLiterals(t *testing.T) {
	toks, err := All(`"" "hello"`)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if toks[0].Kind != token.STRING_VAL || toks[0].Lexeme != "" {
		t.Fatalf("empty string: got %+v", toks[0])
	}
	if toks[1].Kind != token.STRING_VAL || toks[1].Lexeme != "hello" {
		t.Fatalf("string: got %+v", toks[1])
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	if _, err := All("\"abc\n\""); err == nil {
		t.Fatalf("expected error for string spanning a newline")
	}
	if _, err := All(`"abc`); err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func TestLexerCharLiteral(t *testing.T) {
	toks, err := All(`'a' '9'`)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if toks[0].Kind != token.CHAR_VAL || toks[0].Lexeme != "a" {
		t.Fatalf("char: got %+v", toks[0])
	}
	if toks[1].Kind != token.CHAR_VAL || toks[1].Lexeme != "9" {
		t.Fatalf("char: got %+v", toks[1])
	}
}

func TestLexerInvalidCharLiteral(t *testing.T) {
	cases := []string{`''`, `'ab'`, `'a`}
	for _, src := range cases {
		if _, err := All(src); err == nil {
			t.Fatalf("All(%q): expected error", src)
		}
	}
}

func TestLexerNumericLiterals(t *testing.T) {
	toks, err := All(`42 3.14`)
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if toks[0].Kind != token.INT_VAL || toks[0].Lexeme != "42" {
		t.Fatalf("int: got %+v", toks[0])
	}
	if toks[1].Kind != token.DOUBLE_VAL || toks[1].Lexeme != "3.14" {
		t.Fatalf("double: got %+v", toks[1])
	}
}

func TestLexerMalformedNumber(t *testing.T) {
	cases := []string{`1.`, `1.2.3`}
	for _, src := range cases {
		if _, err := All(src); err == nil {
			t.Fatalf("All(%q): expected error", src)
		}
	}
}

func TestLexerCommentsAndWhitespace(t *testing.T) {
	src := "# a comment\n  id1   # trailing\nid2"
	want := []token.Kind{token.ID, token.ID, token.EOS}
	got := kinds(t, src)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestLexerLineColumnTracking(t *testing.T) {
	toks, err := All("abc\n  def")
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Fatalf("abc position = %d:%d, want 1:1", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 2 || toks[1].Column != 3 {
		t.Fatalf("def position = %d:%d, want 2:3", toks[1].Line, toks[1].Column)
	}
}
