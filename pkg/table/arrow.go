package table

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/compgeo/coda/pkg/errors"
)

// ArrowTable is a table kind backed by an Apache Arrow record batch.
// Cell values convert to Go values on access; struct-typed columns of
// float64 fields surface as StructValue cells.
type ArrowTable struct {
	rec   arrow.Record
	names []string
	index map[string]int
}

// NewArrowTable wraps an Arrow record batch. The table retains the
// record; callers that own rec keep their own reference.
func NewArrowTable(rec arrow.Record) (*ArrowTable, error) {
	schema := rec.Schema()
	names := make([]string, schema.NumFields())
	for i := range names {
		names[i] = schema.Field(i).Name
	}

	index, err := checkNames(names)
	if err != nil {
		return nil, err
	}

	rec.Retain()
	return &ArrowTable{
		rec:   rec,
		names: names,
		index: index,
	}, nil
}

// Release releases the table's reference to the underlying record.
func (t *ArrowTable) Release() {
	t.rec.Release()
}

// Record returns the underlying record batch without transferring
// ownership.
func (t *ArrowTable) Record() arrow.Record { return t.rec }

// ColumnNames returns the column names in their stable order.
func (t *ArrowTable) ColumnNames() []string { return t.names }

// NumRows returns the number of rows.
func (t *ArrowTable) NumRows() int { return int(t.rec.NumRows()) }

// Column returns the named column.
func (t *ArrowTable) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
	}
	return arrowColumn{arr: t.rec.Column(i)}, nil
}

// Select returns a derived ArrowTable over the named columns. The new
// record shares the selected arrays with the receiver.
func (t *ArrowTable) Select(names ...string) (Table, error) {
	fields := make([]arrow.Field, len(names))
	cols := make([]arrow.Array, len(names))
	for i, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name)
		}
		fields[i] = t.rec.Schema().Field(j)
		cols[i] = t.rec.Column(j)
	}

	sub := array.NewRecord(arrow.NewSchema(fields, nil), cols, t.rec.NumRows())
	defer sub.Release()

	return NewArrowTable(sub)
}

// Materializer returns the factory for the ArrowTable kind.
func (t *ArrowTable) Materializer() Materializer {
	return MaterializeArrowTable
}

// MaterializeArrowTable builds an ArrowTable from the given column
// data. The Arrow type of each column is inferred from its first
// non-nil value; StructValue cells produce a struct column with one
// nullable float64 field per part.
func MaterializeArrowTable(names []string, cols []Column) (Table, error) {
	if len(names) != len(cols) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"got %d names for %d columns", len(names), len(cols))
	}
	if _, err := checkNames(names); err != nil {
		return nil, err
	}

	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	if err := checkRectangular(names, cols, rows); err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		dt, err := inferArrowType(col)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+names[i])
		}
		fields[i] = arrow.Field{Name: names[i], Type: dt, Nullable: true}
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, arrow.NewSchema(fields, nil))
	defer builder.Release()

	for r := 0; r < rows; r++ {
		for i, col := range cols {
			if err := appendArrowValue(builder.Field(i), col.Value(r)); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+names[i]).
					WithDetail("row", r)
			}
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	return NewArrowTable(rec)
}

// inferArrowType picks the Arrow type for a column from its first
// non-nil value. An all-nil column becomes a null-typed column.
func inferArrowType(col Column) (arrow.DataType, error) {
	for i := 0; i < col.Len(); i++ {
		value := col.Value(i)
		if value == nil {
			continue
		}

		switch v := value.(type) {
		case bool:
			return arrow.FixedWidthTypes.Boolean, nil
		case int, int32, int64:
			return arrow.PrimitiveTypes.Int64, nil
		case float32, float64:
			return arrow.PrimitiveTypes.Float64, nil
		case string:
			return arrow.BinaryTypes.String, nil
		case []byte:
			return arrow.BinaryTypes.Binary, nil
		case StructValue:
			parts := v.FieldNames()
			fields := make([]arrow.Field, len(parts))
			for f, part := range parts {
				fields[f] = arrow.Field{Name: part, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
			}
			return arrow.StructOf(fields...), nil
		default:
			return nil, errors.Newf(errors.ErrorTypeData, "unsupported value type %T", value)
		}
	}
	return arrow.Null, nil
}

// appendArrowValue appends a Go value to the matching Arrow builder.
func appendArrowValue(builder array.Builder, value interface{}) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		v, ok := value.(bool)
		if !ok {
			return errors.Newf(errors.ErrorTypeData, "expected bool, got %T", value)
		}
		b.Append(v)

	case *array.Int64Builder:
		switch v := value.(type) {
		case int:
			b.Append(int64(v))
		case int32:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		default:
			return errors.Newf(errors.ErrorTypeData, "expected int, got %T", value)
		}

	case *array.Float64Builder:
		switch v := value.(type) {
		case float32:
			b.Append(float64(v))
		case float64:
			b.Append(v)
		case int:
			b.Append(float64(v))
		case int64:
			b.Append(float64(v))
		default:
			return errors.Newf(errors.ErrorTypeData, "expected float, got %T", value)
		}

	case *array.StringBuilder:
		v, ok := value.(string)
		if !ok {
			return errors.Newf(errors.ErrorTypeData, "expected string, got %T", value)
		}
		b.Append(v)

	case *array.BinaryBuilder:
		switch v := value.(type) {
		case []byte:
			b.Append(v)
		case string:
			b.Append([]byte(v))
		default:
			return errors.Newf(errors.ErrorTypeData, "expected bytes, got %T", value)
		}

	case *array.StructBuilder:
		return appendStructValue(b, value)

	case *array.NullBuilder:
		return errors.Newf(errors.ErrorTypeData, "non-nil value %T in null column", value)

	default:
		return errors.Newf(errors.ErrorTypeData, "unsupported builder type %T", builder)
	}

	return nil
}

// appendStructValue appends a StructValue cell to a struct builder,
// preserving per-field validity.
func appendStructValue(b *array.StructBuilder, value interface{}) error {
	sv, ok := value.(StructValue)
	if !ok {
		return errors.Newf(errors.ErrorTypeData, "expected struct value, got %T", value)
	}

	st, ok := b.Type().(*arrow.StructType)
	if !ok {
		return errors.New(errors.ErrorTypeInternal, "struct builder without struct type")
	}

	parts := sv.FieldNames()
	if len(parts) != st.NumFields() {
		return errors.Newf(errors.ErrorTypeData,
			"struct value has %d fields, column has %d", len(parts), st.NumFields())
	}
	for f, part := range parts {
		if st.Field(f).Name != part {
			return errors.Newf(errors.ErrorTypeData,
				"struct field %d is %q, column has %q", f, part, st.Field(f).Name)
		}
	}

	b.Append(true)
	for f := range parts {
		fb, ok := b.FieldBuilder(f).(*array.Float64Builder)
		if !ok {
			return errors.Newf(errors.ErrorTypeInternal,
				"struct field builder is %T, expected float64", b.FieldBuilder(f))
		}
		if v, defined := sv.FieldValue(f); defined {
			fb.Append(v)
		} else {
			fb.AppendNull()
		}
	}

	return nil
}

// UnsupportedValue boxes a cell of an Arrow type with no Go value
// mapping. It is never nil, so an unmapped cell is rejected as
// non-coercible instead of passing for an absent one.
type UnsupportedValue struct {
	Type arrow.DataType
	Repr string
}

func (v UnsupportedValue) String() string {
	return v.Repr + " (" + v.Type.String() + ")"
}

// arrowColumn adapts one Arrow array to the Column interface.
type arrowColumn struct {
	arr arrow.Array
}

func (c arrowColumn) Len() int { return c.arr.Len() }

func (c arrowColumn) Value(i int) interface{} {
	if c.arr.IsNull(i) {
		return nil
	}

	switch a := c.arr.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.Binary:
		return a.Value(i)
	case *array.Struct:
		sv, ok := newArrowStructValue(a, i)
		if !ok {
			return UnsupportedValue{Type: a.DataType(), Repr: a.ValueStr(i)}
		}
		return sv
	default:
		return UnsupportedValue{Type: a.DataType(), Repr: a.ValueStr(i)}
	}
}

// arrowStructValue exposes one row of a struct column as a StructValue.
type arrowStructValue struct {
	arr   *array.Struct
	names []string
	row   int
}

// newArrowStructValue reports ok only when every struct field has a
// numeric array; other field types cannot satisfy StructValue.
func newArrowStructValue(arr *array.Struct, row int) (arrowStructValue, bool) {
	st := arr.DataType().(*arrow.StructType)
	names := make([]string, st.NumFields())
	for i := range names {
		switch arr.Field(i).(type) {
		case *array.Float64, *array.Int64:
		default:
			return arrowStructValue{}, false
		}
		names[i] = st.Field(i).Name
	}
	return arrowStructValue{arr: arr, names: names, row: row}, true
}

func (v arrowStructValue) FieldNames() []string { return v.names }

func (v arrowStructValue) FieldValue(i int) (float64, bool) {
	field := v.arr.Field(i)
	if field.IsNull(v.row) {
		return 0, false
	}

	switch a := field.(type) {
	case *array.Float64:
		return a.Value(v.row), true
	case *array.Int64:
		return float64(a.Value(v.row)), true
	default:
		return 0, false
	}
}
