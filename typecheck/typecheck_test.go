package typecheck

import (
	"testing"

	"mypl/parser"
)

func check(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return Check(prog)
}

func TestCheckValidMain(t *testing.T) {
	if err := check(t, `fun int main() return 0 end`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckMissingMain(t *testing.T) {
	if err := check(t, `fun int foo() return 0 end`); err == nil {
		t.Fatalf("expected error for missing main")
	}
}

func TestCheckMainWrongSignature(t *testing.T) {
	if err := check(t, `fun int main(x: int) return 0 end`); err == nil {
		t.Fatalf("expected error for main with parameters")
	}
	if err := check(t, `fun nil main() return 0 end`); err == nil {
		t.Fatalf("expected error for non-int main return type")
	}
}

func TestCheckVarDeclTypeMismatch(t *testing.T) {
	src := `
fun int main()
  var x: int = "hello"
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for mismatched var decl type")
	}
}

func TestCheckVarDeclImplicitNilRejected(t *testing.T) {
	src := `
fun int main()
  var x = nil
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for implicit nil variable")
	}
}

func TestCheckRedeclarationInSameScope(t *testing.T) {
	src := `
fun int main()
  var x: int = 1
  var x: int = 2
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for redeclaration")
	}
}

func TestCheckArithmeticTypeMismatch(t *testing.T) {
	src := `
fun int main()
  var x: int = 1 + 1.0
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for int+double mismatch")
	}
}

func TestCheckStringConcatenation(t *testing.T) {
	src := `
fun int main()
  var x: string = "a" + "b"
  return 0
end
`
	if err := check(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckIfConditionMustBeBool(t *testing.T) {
	src := `
fun int main()
  if 1 then
    return 0
  end
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for non-bool if condition")
	}
}

func TestCheckForBoundsMustBeInt(t *testing.T) {
	src := `
fun int main()
  for i = 0 to 1.5 do
  end
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for non-int for-loop bound")
	}
}

func TestCheckUserDefinedTypeFieldPath(t *testing.T) {
	src := `
type Node
  var val: int = 0
end

fun int main()
  var n: Node = new Node
  n.val = 5
  return 0
end
`
	if err := check(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckUnknownFieldOnPath(t *testing.T) {
	src := `
type Node
  var val: int = 0
end

fun int main()
  var n: Node = new Node
  n.missing = 5
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestCheckCallArgumentCountAndTypes(t *testing.T) {
	src := `
fun int add(x: int, y: int)
  return x + y
end

fun int main()
  var z: int = add(1, 2)
  return 0
end
`
	if err := check(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badArity := `
fun int add(x: int, y: int)
  return x + y
end

fun int main()
  var z: int = add(1)
  return 0
end
`
	if err := check(t, badArity); err == nil {
		t.Fatalf("expected error for wrong argument count")
	}
}

func TestCheckForwardCallIsSemanticError(t *testing.T) {
	src := `
fun int main()
  return helper()
end

fun int helper()
  return 1
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error calling a not-yet-declared function")
	}
}

func TestCheckNegatedRequiresBool(t *testing.T) {
	src := `
fun int main()
  var x: bool = not 1
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error negating a non-bool expression")
	}
}

func TestCheckNegRequiresNumeric(t *testing.T) {
	src := `
fun int main()
  var x: string = neg "a"
  return 0
end
`
	if err := check(t, src); err == nil {
		t.Fatalf("expected error for 'neg' on a non-numeric value")
	}
}
