package table

import (
	"github.com/compgeo/coda/pkg/errors"
)

// ValueColumn is a Column over a plain value slice.
type ValueColumn []interface{}

// Len returns the number of values in the column.
func (c ValueColumn) Len() int { return len(c) }

// Value returns the value at row i.
func (c ValueColumn) Value(i int) interface{} { return c[i] }

// ColumnTable is the native table kind: ordered column names plus one
// value slice per column. It is immutable after construction; derived
// tables share the underlying slices.
type ColumnTable struct {
	names []string
	index map[string]int
	cols  []ValueColumn
	rows  int
}

// NewColumnTable creates a table from ordered names and their columns.
// Names must be unique and non-empty, and all columns must have the
// same length.
func NewColumnTable(names []string, cols []ValueColumn) (*ColumnTable, error) {
	if len(names) != len(cols) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"got %d names for %d columns", len(names), len(cols))
	}

	index, err := checkNames(names)
	if err != nil {
		return nil, err
	}

	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for i, col := range cols {
		if col.Len() != rows {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", names[i], col.Len(), rows)
		}
	}

	return &ColumnTable{
		names: append([]string(nil), names...),
		index: index,
		cols:  cols,
		rows:  rows,
	}, nil
}

// ColumnNames returns the column names in their stable order.
func (t *ColumnTable) ColumnNames() []string { return t.names }

// NumRows returns the number of rows.
func (t *ColumnTable) NumRows() int { return t.rows }

// Column returns the named column.
func (t *ColumnTable) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
	}
	return t.cols[i], nil
}

// Select returns a derived table over the named columns, sharing the
// underlying value slices.
func (t *ColumnTable) Select(names ...string) (Table, error) {
	sub := make([]ValueColumn, len(names))
	for i, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
		}
		sub[i] = t.cols[j]
	}

	// Names were resolved against the index, so they are unique.
	return NewColumnTable(names, sub)
}

// Materializer returns the factory for the ColumnTable kind.
func (t *ColumnTable) Materializer() Materializer {
	return MaterializeColumnTable
}

// MaterializeColumnTable builds a ColumnTable by copying the given
// column data.
func MaterializeColumnTable(names []string, cols []Column) (Table, error) {
	if len(names) != len(cols) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"got %d names for %d columns", len(names), len(cols))
	}

	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	if err := checkRectangular(names, cols, rows); err != nil {
		return nil, err
	}

	copied := make([]ValueColumn, len(cols))
	for i, col := range cols {
		values := make(ValueColumn, rows)
		for r := 0; r < rows; r++ {
			values[r] = col.Value(r)
		}
		copied[i] = values
	}

	return NewColumnTable(names, copied)
}
