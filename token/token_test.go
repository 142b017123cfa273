package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	k, ok := Lookup("while")
	if !ok || k != WHILE {
		t.Fatalf("Lookup(while) = %v, %v", k, ok)
	}
}

func TestLookupNonKeyword(t *testing.T) {
	if _, ok := Lookup("myVar"); ok {
		t.Fatalf("Lookup(myVar) should not be a keyword")
	}
}

func TestTrueFalseBothMapToBoolVal(t *testing.T) {
	kt, _ := Lookup("true")
	kf, _ := Lookup("false")
	if kt != BOOL_VAL || kf != BOOL_VAL {
		t.Fatalf("true/false should both lex as BOOL_VAL, got %v/%v", kt, kf)
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: INT_VAL}, "int"},
		{Token{Kind: STRING_VAL}, "string"},
		{Token{Kind: NIL}, "nil"},
	}
	for _, c := range cases {
		if got := c.tok.TypeName(); got != c.want {
			t.Fatalf("TypeName() = %q, want %q", got, c.want)
		}
	}
}

func TestLocation(t *testing.T) {
	tok := Token{Line: 3, Column: 7}
	if got := tok.Location(); got != "[L3:C7]" {
		t.Fatalf("Location() = %q", got)
	}
}
