package coda

import (
	gojson "github.com/goccy/go-json"

	"github.com/compgeo/coda/pkg/errors"
)

// Composition is a view of a single observation of an Array: an
// ordered mapping from the owning array's part names to optional
// float64 values. It holds a reference to the owner and an observation
// index, never a copy of the storage.
//
// Compositions are constructed lazily on indexed access and are cheap
// to pass by value.
type Composition struct {
	owner *Array
	row   int
}

// Parts returns the ordered part names, shared with the owning array.
func (c Composition) Parts() []string { return c.owner.parts }

// Len returns the number of parts.
func (c Composition) Len() int { return len(c.owner.parts) }

// At returns the value of the part at position pos and whether it is
// present. It fails with a validation error when pos is outside
// [0, Len).
func (c Composition) At(pos int) (float64, bool, error) {
	if pos < 0 || pos >= len(c.owner.parts) {
		return 0, false, errors.Newf(errors.ErrorTypeValidation,
			"part position %d out of range [0, %d)", pos, len(c.owner.parts))
	}
	p := c.row*len(c.owner.parts) + pos
	return c.owner.data[p], c.owner.isSet(p), nil
}

// ByName returns the value of the named part and whether it is
// present. It fails with a not_found error for a name not in Parts.
func (c Composition) ByName(part string) (float64, bool, error) {
	pos, ok := c.owner.index[part]
	if !ok {
		return 0, false, errors.Newf(errors.ErrorTypeNotFound, "unknown part %q", part).
			WithDetail("part", part)
	}
	p := c.row*len(c.owner.parts) + pos
	return c.owner.data[p], c.owner.isSet(p), nil
}

// Defined reports whether the part at position pos is present.
func (c Composition) Defined(pos int) bool {
	return c.owner.isSet(c.row*len(c.owner.parts) + pos)
}

// Values returns the observation's value slice, one entry per part in
// part order. Absent cells hold zero; presence comes from Defined. The
// slice aliases the owning array's storage and must not be modified or
// retained past the array.
func (c Composition) Values() []float64 {
	d := len(c.owner.parts)
	return c.owner.data[c.row*d : (c.row+1)*d]
}

// FieldNames implements table.StructValue.
func (c Composition) FieldNames() []string { return c.owner.parts }

// FieldValue implements table.StructValue.
func (c Composition) FieldValue(i int) (float64, bool) {
	if i < 0 || i >= len(c.owner.parts) {
		return 0, false
	}
	p := c.row*len(c.owner.parts) + i
	return c.owner.data[p], c.owner.isSet(p)
}

// MarshalJSON encodes the composition as a part→value object, absent
// cells as null.
func (c Composition) MarshalJSON() ([]byte, error) {
	d := len(c.owner.parts)
	obj := make(map[string]interface{}, d)
	for k, part := range c.owner.parts {
		p := c.row*d + k
		if c.owner.isSet(p) {
			obj[part] = c.owner.data[p]
		} else {
			obj[part] = nil
		}
	}
	return gojson.Marshal(obj)
}
