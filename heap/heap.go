// Package heap implements MyPL's record heap: monotonically
// increasing, never-reused object ids backing the reference (alias)
// semantics of spec.md §4.5 — assigning or passing a record value
// copies the oid, not the fields, so two variables can alias the same
// Object. Grounded on original_source/interpreter.h's Heap, which is
// exactly an oid counter plus an oid -> Data_Object map.
package heap

import "mypl/value"

// Object is one heap-allocated record instance: an ordered sequence of
// field name -> value.Data bindings, in declaration order so that
// pretty-printing and field iteration are deterministic.
type Object struct {
	fieldOrder []string
	fields     map[string]value.Data
}

// NewObject returns an empty Object ready to have fields set on it in
// declaration order.
func NewObject() *Object {
	return &Object{fields: map[string]value.Data{}}
}

// Set binds field to val, recording field's position the first time
// it is set.
func (o *Object) Set(field string, val value.Data) {
	if _, ok := o.fields[field]; !ok {
		o.fieldOrder = append(o.fieldOrder, field)
	}
	o.fields[field] = val
}

// Get returns field's value and whether it exists.
func (o *Object) Get(field string) (value.Data, bool) {
	v, ok := o.fields[field]
	return v, ok
}

// Fields returns field names in declaration order.
func (o *Object) Fields() []string {
	return o.fieldOrder
}

// Heap owns every live Object, addressed by oid.
type Heap struct {
	objects map[int64]*Object
	nextOid int64
}

// New returns an empty Heap. oids start at 1 so that the zero value of
// value.Data (a typed nil) never aliases a real object.
func New() *Heap {
	return &Heap{objects: map[int64]*Object{}, nextOid: 1}
}

// Alloc reserves a fresh oid for obj and returns it.
func (h *Heap) Alloc(obj *Object) int64 {
	oid := h.nextOid
	h.nextOid++
	h.objects[oid] = obj
	return oid
}

// Get returns the Object at oid and whether it exists.
func (h *Heap) Get(oid int64) (*Object, bool) {
	obj, ok := h.objects[oid]
	return obj, ok
}
