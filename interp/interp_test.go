package interp

import (
	"bytes"
	"strings"
	"testing"

	"mypl/parser"
	"mypl/typecheck"
)

func run(t *testing.T, src string, stdin string) (string, int) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if err := typecheck.Check(prog); err != nil {
		t.Fatalf("Check error: %v", err)
	}
	var out bytes.Buffer
	it := New(&out, strings.NewReader(stdin))
	code, err := it.Run(prog)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return out.String(), code
}

func TestInterpHelloWorld(t *testing.T) {
	src := `
fun int main()
  print("Hello, world!")
  return 0
end
`
	out, code := run(t, src, "")
	if out != "Hello, world!" {
		t.Fatalf("output = %q", out)
	}
	if code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

// a - b - c must evaluate right-associatively: a - (b - c), not (a - b) - c.
func TestInterpArithmeticRightAssociative(t *testing.T) {
	src := `
fun int main()
  var a: int = 10
  var b: int = 3
  var c: int = 2
  return a - b - c
end
`
	_, code := run(t, src, "")
	// 10 - (3 - 2) = 9, whereas (10 - 3) - 2 = 5.
	if code != 9 {
		t.Fatalf("code = %d, want 9 (right-associative a - (b - c))", code)
	}
}

func TestInterpRecordAliasing(t *testing.T) {
	src := `
type Node
  var val: int = 0
end

fun int main()
  var n: Node = new Node
  n.val = 5
  var m: Node = n
  m.val = 9
  return n.val
end
`
	_, code := run(t, src, "")
	if code != 9 {
		t.Fatalf("code = %d, want 9 (n and m alias the same record)", code)
	}
}

func TestInterpForLoop(t *testing.T) {
	src := `
fun int main()
  var sum: int = 0
  for i = 1 to 5 do
    sum = sum + i
  end
  return sum
end
`
	_, code := run(t, src, "")
	if code != 15 {
		t.Fatalf("code = %d, want 15", code)
	}
}

func TestInterpWhileLoop(t *testing.T) {
	src := `
fun int main()
  var i: int = 0
  while i < 5 do
    i = i + 1
  end
  return i
end
`
	_, code := run(t, src, "")
	if code != 5 {
		t.Fatalf("code = %d, want 5", code)
	}
}

func TestInterpStringConcatAndPrint(t *testing.T) {
	src := `
fun int main()
  var s: string = "a" + 'b' + "c"
  print(s)
  return 0
end
`
	out, _ := run(t, src, "")
	if out != "abc" {
		t.Fatalf("output = %q, want %q", out, "abc")
	}
}

func TestInterpPrintEscapes(t *testing.T) {
	src := `
fun int main()
  print("line1\nline2\ttabbed")
  return 0
end
`
	out, _ := run(t, src, "")
	if out != "line1\nline2\ttabbed" {
		t.Fatalf("output = %q", out)
	}
}

func TestInterpUserFunctionCallParamShadowsCallerLocal(t *testing.T) {
	src := `
fun int helper(x: int)
  return x * 2
end

fun int main()
  var x: int = 100
  return helper(21)
end
`
	_, code := run(t, src, "")
	if code != 42 {
		t.Fatalf("code = %d, want 42 (helper's x must be its own parameter, not main's x)", code)
	}
}

func TestInterpIfElseIfElse(t *testing.T) {
	src := `
fun int classify(n: int)
  if n < 0 then
    return 0 - 1
  elseif n == 0 then
    return 0
  else
    return 1
  end
end

fun int main()
  return classify(42)
end
`
	_, code := run(t, src, "")
	if code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
}

func TestInterpBuiltins(t *testing.T) {
	src := `
fun int main()
  var s: string = itos(7)
  var n: int = stoi("7")
  var d: double = stod("3.5")
  var s2: string = dtos(1.5)
  var c: char = get(1, "abc")
  var l: int = length("abcd")
  if (s == "7") and (n == 7) and (c == 'b') and (l == 4) and (d == 3.5) and (s2 == "1.5") then
    return 1
  end
  return 0
end
`
	_, code := run(t, src, "")
	if code != 1 {
		t.Fatalf("code = %d, want 1 (all built-ins must round-trip)", code)
	}
}

func TestInterpNegatedBoolean(t *testing.T) {
	src := `
fun int main()
  if not false then
    return 1
  end
  return 0
end
`
	_, code := run(t, src, "")
	if code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
}

func TestInterpNegNumeric(t *testing.T) {
	src := `
fun int main()
  var x: int = neg 5
  return x + 10
end
`
	_, code := run(t, src, "")
	if code != 5 {
		t.Fatalf("code = %d, want 5", code)
	}
}
