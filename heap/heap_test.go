package heap

import (
	"testing"

	"mypl/value"
)

func TestHeapAllocAndGet(t *testing.T) {
	h := New()
	obj := NewObject()
	obj.Set("x", value.NewInt(1))
	oid := h.Alloc(obj)

	got, ok := h.Get(oid)
	if !ok || got != obj {
		t.Fatalf("Get(%d) = %v, %v; want the same object back", oid, got, ok)
	}
}

func TestHeapOidsAreMonotonicAndNeverReused(t *testing.T) {
	h := New()
	a := h.Alloc(NewObject())
	b := h.Alloc(NewObject())
	if b <= a {
		t.Fatalf("oids not monotonically increasing: a=%d b=%d", a, b)
	}
}

func TestHeapUnknownOid(t *testing.T) {
	h := New()
	if _, ok := h.Get(999); ok {
		t.Fatalf("expected unknown oid to miss")
	}
}

func TestObjectFieldOrderIsDeclarationOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("b", value.NewInt(2))
	obj.Set("a", value.NewInt(1))
	obj.Set("b", value.NewInt(20)) // re-setting an existing field must not move it
	want := []string{"b", "a"}
	got := obj.Fields()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
}
