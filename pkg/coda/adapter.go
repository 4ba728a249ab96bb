package coda

import (
	"github.com/compgeo/coda/pkg/errors"
	"github.com/compgeo/coda/pkg/table"
)

// Array implements table.Table: its columns are parts, its rows are
// compositions. Consumers of the tabular protocol can therefore treat
// a compositional array as an ordinary table.

// ColumnNames returns the part names.
func (a *Array) ColumnNames() []string { return a.parts }

// NumRows returns the number of observations.
func (a *Array) NumRows() int { return a.nrows }

// Column returns the named part's values across all observations.
func (a *Array) Column(name string) (table.Column, error) {
	pos, ok := a.index[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown part %q", name)
	}
	return partColumn{arr: a, pos: pos}, nil
}

// Select returns a derived table over the named parts, sharing the
// array's storage.
func (a *Array) Select(names ...string) (table.Table, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := a.index[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown part %q", name)
		}
		idx[i] = pos
	}
	return &partView{arr: a, names: append([]string(nil), names...), idx: idx}, nil
}

// Materializer returns the factory for the Array kind, so an Array
// survives protocol-level round trips as an Array.
func (a *Array) Materializer() table.Materializer {
	return MaterializeArray
}

// MaterializeArray builds a fresh Array from named column data, using
// the same cell promotion rules as NewArray.
func MaterializeArray(names []string, cols []table.Column) (table.Table, error) {
	tmp, err := table.MaterializeColumnTable(names, cols)
	if err != nil {
		return nil, err
	}
	return NewArray(tmp)
}

// partColumn exposes one part of an Array as a table column. Absent
// cells surface as nil.
type partColumn struct {
	arr *Array
	pos int
}

func (c partColumn) Len() int { return c.arr.nrows }

func (c partColumn) Value(i int) interface{} {
	p := i*len(c.arr.parts) + c.pos
	if !c.arr.isSet(p) {
		return nil
	}
	return c.arr.data[p]
}

// partView is a zero-copy projection of an Array onto a subset of its
// parts.
type partView struct {
	arr   *Array
	names []string
	idx   []int
}

func (v *partView) ColumnNames() []string { return v.names }

func (v *partView) NumRows() int { return v.arr.nrows }

func (v *partView) Column(name string) (table.Column, error) {
	for i, n := range v.names {
		if n == name {
			return partColumn{arr: v.arr, pos: v.idx[i]}, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown part %q", name)
}

func (v *partView) Select(names ...string) (table.Table, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		found := false
		for j, n := range v.names {
			if n == name {
				idx[i] = v.idx[j]
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "unknown part %q", name)
		}
	}
	return &partView{arr: v.arr, names: append([]string(nil), names...), idx: idx}, nil
}

func (v *partView) Materializer() table.Materializer {
	return MaterializeArray
}
