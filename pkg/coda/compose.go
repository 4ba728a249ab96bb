package coda

import (
	"go.uber.org/zap"

	"github.com/compgeo/coda/pkg/errors"
	"github.com/compgeo/coda/pkg/logger"
	"github.com/compgeo/coda/pkg/table"
)

// DefaultAs is the name of the composition column produced by
// ComposeTable when the config leaves it unset.
const DefaultAs = "coda"

// ComposeConfig configures the compose transform.
type ComposeConfig struct {
	// Columns are the ordered column names to promote into a
	// composition. Empty means every column of the source, in the
	// source's order.
	Columns []string
	// As names the composition column in the ComposeTable result.
	As string
}

// DefaultComposeConfig returns the default compose configuration.
func DefaultComposeConfig() *ComposeConfig {
	return &ComposeConfig{As: DefaultAs}
}

// Compose selects the named columns of tbl, in the given order, and
// builds an Array from them. With no columns given it selects every
// column of tbl in the table's order. It fails with a not_found error,
// before any array is built, if a name is absent from tbl.
func Compose(tbl table.Table, cols ...string) (*Array, error) {
	if len(cols) == 0 {
		cols = tbl.ColumnNames()
	}

	sub, err := tbl.Select(cols...)
	if err != nil {
		return nil, err
	}

	arr, err := NewArray(sub)
	if err != nil {
		return nil, err
	}

	logger.Debug("composed array",
		zap.Strings("parts", arr.Parts()),
		zap.Int("rows", arr.Len()))

	return arr, nil
}

// ComposeTable composes the configured columns of tbl into an Array
// and folds it back into a new table of tbl's concrete kind: the
// unselected columns, in their original relative order, followed by
// one column named cfg.As whose entry i is the composition of
// observation i.
//
// It fails with a conflict error when cfg.As names one of the
// unselected columns.
func ComposeTable(tbl table.Table, cfg *ComposeConfig) (table.Table, error) {
	if cfg == nil {
		cfg = DefaultComposeConfig()
	}
	as := cfg.As
	if as == "" {
		as = DefaultAs
	}

	cols := cfg.Columns
	if len(cols) == 0 {
		cols = tbl.ColumnNames()
	}

	arr, err := Compose(tbl, cols...)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]struct{}, len(cols))
	for _, name := range cols {
		selected[name] = struct{}{}
	}

	var other []string
	for _, name := range tbl.ColumnNames() {
		if _, ok := selected[name]; ok {
			continue
		}
		if name == as {
			return nil, errors.Newf(errors.ErrorTypeConflict,
				"composition column %q collides with an unselected column", as)
		}
		other = append(other, name)
	}

	names := make([]string, 0, len(other)+1)
	outCols := make([]table.Column, 0, len(other)+1)
	for _, name := range other {
		col, err := tbl.Column(name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		outCols = append(outCols, col)
	}
	names = append(names, as)
	outCols = append(outCols, compositionColumn{arr: arr})

	logger.Debug("folding composition into table",
		zap.Strings("kept", other),
		zap.String("as", as))

	return tbl.Materializer()(names, outCols)
}

// compositionColumn exposes an Array as a column of Composition cells.
type compositionColumn struct {
	arr *Array
}

func (c compositionColumn) Len() int { return c.arr.nrows }

func (c compositionColumn) Value(i int) interface{} {
	return Composition{owner: c.arr, row: i}
}

// ArrayFromColumn rebuilds an Array from a column of composition-like
// cells, such as the composition column of a ComposeTable result. Each
// non-nil cell must be a table.StructValue with the same ordered field
// names; a nil cell becomes an observation with every part absent.
func ArrayFromColumn(col table.Column) (*Array, error) {
	n := col.Len()

	var parts []string
	for i := 0; i < n; i++ {
		value := col.Value(i)
		if value == nil {
			continue
		}
		sv, ok := value.(table.StructValue)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData,
				"row %d: expected composition cell, got %T", i, value)
		}
		if parts == nil {
			parts = sv.FieldNames()
			continue
		}
		names := sv.FieldNames()
		if len(names) != len(parts) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"row %d: composition has %d parts, expected %d", i, len(names), len(parts))
		}
		for k, part := range parts {
			if names[k] != part {
				return nil, errors.Newf(errors.ErrorTypeData,
					"row %d: part %d is %q, expected %q", i, k, names[k], part)
			}
		}
	}
	if parts == nil {
		return nil, errors.New(errors.ErrorTypeValidation,
			"cannot infer parts from a column with no composition cells")
	}

	index, err := buildPartIndex(parts)
	if err != nil {
		return nil, err
	}

	d := len(parts)
	arr := &Array{
		parts: append([]string(nil), parts...),
		index: index,
		data:  make([]float64, d*n),
		valid: make([]uint64, (d*n+63)/64),
		nrows: n,
	}

	for i := 0; i < n; i++ {
		value := col.Value(i)
		if value == nil {
			continue
		}
		sv := value.(table.StructValue)
		for k := 0; k < d; k++ {
			if v, defined := sv.FieldValue(k); defined {
				arr.set(i*d+k, v)
			}
		}
	}

	return arr, nil
}
