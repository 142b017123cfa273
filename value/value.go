// Package value implements the tagged-union runtime data cell of
// spec.md §4.5/§4.6: a MyPL value is exactly one of nil, bool, int,
// double, char, string, or an oid (a reference to a heap-allocated
// record). Grounded on original_source/interpreter.h's Data_Object
// union and the teacher's preference for exhaustive type switches
// over interface-method dispatch (spec.md §9).
package value

import "fmt"

// Tag identifies which field of a Data is live.
type Tag int

const (
	Nil Tag = iota
	Bool
	Int
	Double
	Char
	String
	Oid
)

func (t Tag) String() string {
	switch t {
	case Nil:
		return "nil"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case Char:
		return "char"
	case String:
		return "string"
	case Oid:
		return "oid"
	default:
		return "unknown"
	}
}

// Data is a single MyPL runtime value. The zero Data is a typed nil.
type Data struct {
	tag    Tag
	b      bool
	i      int64
	d      float64
	c      rune
	s      string
	oid    int64
}

// NewNil returns a nil-tagged Data.
func NewNil() Data { return Data{tag: Nil} }

// NewBool returns a bool-tagged Data.
func NewBool(b bool) Data { return Data{tag: Bool, b: b} }

// NewInt returns an int-tagged Data.
func NewInt(i int64) Data { return Data{tag: Int, i: i} }

// NewDouble returns a double-tagged Data.
func NewDouble(d float64) Data { return Data{tag: Double, d: d} }

// NewChar returns a char-tagged Data.
func NewChar(c rune) Data { return Data{tag: Char, c: c} }

// NewString returns a string-tagged Data.
func NewString(s string) Data { return Data{tag: String, s: s} }

// NewOid returns an oid-tagged Data referencing a heap object.
func NewOid(oid int64) Data { return Data{tag: Oid, oid: oid} }

func (d Data) Tag() Tag { return d.tag }
func (d Data) IsNil() bool { return d.tag == Nil }

// AsBool, AsInt, AsDouble, AsChar, AsString, AsOid panic if the tag
// does not match: callers (the type-checked interpreter) are expected to never
// call the wrong accessor, exactly as a checked union would abort in
// the teacher's source language on a tag mismatch.
func (d Data) AsBool() bool {
	d.mustBe(Bool)
	return d.b
}

func (d Data) AsInt() int64 {
	d.mustBe(Int)
	return d.i
}

func (d Data) AsDouble() float64 {
	d.mustBe(Double)
	return d.d
}

func (d Data) AsChar() rune {
	d.mustBe(Char)
	return d.c
}

func (d Data) AsString() string {
	d.mustBe(String)
	return d.s
}

func (d Data) AsOid() int64 {
	d.mustBe(Oid)
	return d.oid
}

func (d Data) mustBe(want Tag) {
	if d.tag != want {
		panic(fmt.Sprintf("value: tag mismatch: have %s, want %s", d.tag, want))
	}
}

// String renders a Data the way the "print" built-in does for
// non-string/non-char values, and the way %v diagnostics show it.
func (d Data) String() string {
	switch d.tag {
	case Nil:
		return "nil"
	case Bool:
		return fmt.Sprintf("%t", d.b)
	case Int:
		return fmt.Sprintf("%d", d.i)
	case Double:
		return fmt.Sprintf("%g", d.d)
	case Char:
		return string(d.c)
	case String:
		return d.s
	case Oid:
		return fmt.Sprintf("oid(%d)", d.oid)
	default:
		return "?"
	}
}
