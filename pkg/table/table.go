// Package table defines the tabular protocol that coda containers are
// built on, together with two concrete table kinds: ColumnTable, a
// native column-major table, and ArrowTable, a table backed by an
// Apache Arrow record batch.
//
// A Table exposes named columns in a stable order, a fixed row count,
// column access by name, zero-copy selection of a column subset, and a
// Materializer that rebuilds a table of the same concrete kind from
// raw column data. Any table-like representation that implements Table
// interoperates with the compose transform and preserves its concrete
// kind across it.
package table

import (
	"github.com/compgeo/coda/pkg/errors"
)

// Column provides read-only access to one column of a table.
// A nil value marks an absent cell.
type Column interface {
	// Len returns the number of values in the column.
	Len() int
	// Value returns the value at row i, or nil when the cell is absent.
	Value(i int) interface{}
}

// Materializer rebuilds a table of a specific concrete kind from named
// column data. Columns must be rectangular and names unique; the
// returned table has the same representation family as the table the
// materializer was obtained from.
type Materializer func(names []string, cols []Column) (Table, error)

// Table is the tabular protocol. Implementations are immutable after
// construction and safe for concurrent reads.
type Table interface {
	// ColumnNames returns the column names in their stable order.
	ColumnNames() []string
	// NumRows returns the number of rows.
	NumRows() int
	// Column returns the named column, or a not_found error.
	Column(name string) (Column, error)
	// Select returns a derived table holding exactly the named columns
	// in the given order, sharing storage with the receiver. It fails
	// with a not_found error if any name is absent.
	Select(names ...string) (Table, error)
	// Materializer returns the factory for the receiver's concrete kind.
	Materializer() Materializer
}

// StructValue is a cell value that expands to a struct-typed column of
// named float64 fields in table kinds with typed storage. Field order
// is fixed for the lifetime of the value.
type StructValue interface {
	// FieldNames returns the ordered field names.
	FieldNames() []string
	// FieldValue returns the value of field i and whether it is present.
	FieldValue(i int) (float64, bool)
}

// checkNames validates that column names are non-empty and unique,
// returning the name index.
func checkNames(names []string) (map[string]int, error) {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, errors.New(errors.ErrorTypeValidation, "column name must not be empty").
				WithDetail("position", i)
		}
		if _, ok := index[name]; ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column name %q", name)
		}
		index[name] = i
	}
	return index, nil
}

// checkRectangular validates that every column has exactly rows values.
func checkRectangular(names []string, cols []Column, rows int) error {
	for i, col := range cols {
		if col.Len() != rows {
			return errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", names[i], col.Len(), rows)
		}
	}
	return nil
}
