package coda

import (
	gojson "github.com/goccy/go-json"

	"github.com/compgeo/coda/pkg/errors"
	"github.com/compgeo/coda/pkg/table"
)

// Array is a columnar store of compositions. It owns a dense
// parts × observations buffer of optional float64 cells; absence is
// tracked in a validity bitmap. The buffer is observation-major, so a
// single observation is a contiguous slice and views never copy.
//
// An Array is immutable after construction and safe for concurrent
// reads. Views returned by Get reference the Array and stay valid as
// long as they are reachable.
type Array struct {
	parts []string
	index map[string]int
	data  []float64
	valid []uint64
	nrows int
}

// NewArray builds an Array from every column of the given table, in
// the table's column order. Cells promote to float64 (ints and floats
// are accepted); a nil cell is absent; any other cell type fails with
// a data error. A ragged table fails with a validation error.
func NewArray(tbl table.Table) (*Array, error) {
	names := tbl.ColumnNames()
	index, err := buildPartIndex(names)
	if err != nil {
		return nil, err
	}

	d := len(names)
	n := tbl.NumRows()

	arr := &Array{
		parts: append([]string(nil), names...),
		index: index,
		data:  make([]float64, d*n),
		valid: make([]uint64, (d*n+63)/64),
		nrows: n,
	}

	for k, name := range names {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		if col.Len() != n {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", name, col.Len(), n)
		}

		for i := 0; i < n; i++ {
			value := col.Value(i)
			if value == nil {
				continue
			}

			f, ok := toFloat(value)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData,
					"part %q row %d: cannot promote %T to float64", name, i, value)
			}
			arr.set(i*d+k, f)
		}
	}

	return arr, nil
}

// Len returns the number of observations.
func (a *Array) Len() int { return a.nrows }

// Parts returns the ordered part names shared by every observation.
// The returned slice is shared and must not be modified.
func (a *Array) Parts() []string { return a.parts }

// Get returns a view of observation i. It fails with a validation
// error when i is outside [0, Len).
func (a *Array) Get(i int) (Composition, error) {
	if i < 0 || i >= a.nrows {
		return Composition{}, errors.Newf(errors.ErrorTypeValidation,
			"index %d out of range [0, %d)", i, a.nrows).
			WithDetail("index", i).
			WithDetail("size", a.nrows)
	}
	return Composition{owner: a, row: i}, nil
}

// Equal reports whether both arrays hold the same parts in the same
// order and cell-for-cell equal observations, absence included.
func (a *Array) Equal(b *Array) bool {
	if b == nil || a.nrows != b.nrows || len(a.parts) != len(b.parts) {
		return false
	}
	for i, part := range a.parts {
		if b.parts[i] != part {
			return false
		}
	}
	for pos := range a.data {
		if a.isSet(pos) != b.isSet(pos) {
			return false
		}
		if a.isSet(pos) && a.data[pos] != b.data[pos] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the array as a list of part→value objects,
// absent cells as null.
func (a *Array) MarshalJSON() ([]byte, error) {
	obs := make([]map[string]interface{}, a.nrows)
	d := len(a.parts)
	for i := 0; i < a.nrows; i++ {
		row := make(map[string]interface{}, d)
		for k, part := range a.parts {
			pos := i*d + k
			if a.isSet(pos) {
				row[part] = a.data[pos]
			} else {
				row[part] = nil
			}
		}
		obs[i] = row
	}
	return gojson.Marshal(obs)
}

func (a *Array) set(pos int, v float64) {
	a.data[pos] = v
	a.valid[pos/64] |= 1 << (pos % 64)
}

func (a *Array) isSet(pos int) bool {
	return a.valid[pos/64]&(1<<(pos%64)) != 0
}

// buildPartIndex validates part names and returns the name→position
// index.
func buildPartIndex(parts []string) (map[string]int, error) {
	index := make(map[string]int, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, errors.New(errors.ErrorTypeValidation, "part name must not be empty").
				WithDetail("position", i)
		}
		if _, ok := index[part]; ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate part name %q", part)
		}
		index[part] = i
	}
	return index, nil
}

// toFloat promotes numeric cell values to float64.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
