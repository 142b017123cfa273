package mplerr

import (
	"errors"
	"strings"
	"testing"

	"mypl/token"
)

func TestErrorWithoutPosition(t *testing.T) {
	err := New(Semantic, "undefined 'main' function")
	if !strings.Contains(err.Error(), "SEMANTIC") {
		t.Fatalf("Error() = %q, want it to mention SEMANTIC", err.Error())
	}
}

func TestErrorWithPosition(t *testing.T) {
	tok := token.Token{Line: 4, Column: 9}
	err := At(Syntax, "expected ')'", tok)
	got := err.Error()
	if !strings.Contains(got, "L4:C9") {
		t.Fatalf("Error() = %q, want it to mention L4:C9", got)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("invalid syntax")
	tok := token.Token{Line: 1, Column: 1}
	err := Wrap(Runtime, tok, cause, "stoi: invalid input")
	if !errors.Is(err, cause) {
		t.Fatalf("Wrap should preserve the cause for errors.Is")
	}
}
