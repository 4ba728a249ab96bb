package coda

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/compgeo/coda/pkg/errors"
	"github.com/compgeo/coda/pkg/table"
	"github.com/compgeo/coda/pkg/testutil"
)

func TestComposeSelectsInOrder(t *testing.T) {
	tbl := geoTable(t)

	arr, err := Compose(tbl, "Pb", "Cd")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pb", "Cd"}, arr.Parts())
	assert.Equal(t, tbl.NumRows(), arr.Len())
}

func TestComposeMissingColumn(t *testing.T) {
	_, err := Compose(geoTable(t), "Cd", "Zn")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestComposeAllColumns(t *testing.T) {
	// Scenario 3: composing every column pulls in the non-numeric Loc
	// column and must fail with a data error.
	_, err := Compose(geoTable(t))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestComposeScenario1(t *testing.T) {
	arr, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, []string{"Cd", "Cu", "Pb"}, arr.Parts())

	c, err := arr.Get(1)
	require.NoError(t, err)

	v, defined, err := c.ByName("Cd")
	require.NoError(t, err)
	assert.True(t, defined)
	assert.Equal(t, 4.0, v)

	v, defined, err = c.ByName("Cu")
	require.NoError(t, err)
	assert.True(t, defined)
	assert.Equal(t, 5.0, v)

	_, defined, err = c.ByName("Pb")
	require.NoError(t, err)
	assert.False(t, defined)
}

func TestComposeMatchesSource(t *testing.T) {
	tbl := geoTable(t)
	cols := []string{"Cd", "Cu", "Pb"}

	arr, err := Compose(tbl, cols...)
	require.NoError(t, err)

	for _, part := range cols {
		src, err := tbl.Column(part)
		require.NoError(t, err)
		for i := 0; i < arr.Len(); i++ {
			c, err := arr.Get(i)
			require.NoError(t, err)
			v, defined, err := c.ByName(part)
			require.NoError(t, err)
			if src.Value(i) == nil {
				assert.False(t, defined, "part %s row %d", part, i)
			} else {
				require.True(t, defined, "part %s row %d", part, i)
				assert.Equal(t, src.Value(i), v, "part %s row %d", part, i)
			}
		}
	}
}

func TestComposeTableScenario2(t *testing.T) {
	log := testutil.TestLogger(t)

	tbl := geoTable(t)
	out, err := ComposeTable(tbl, &ComposeConfig{Columns: []string{"Cd", "Cu", "Pb"}})
	require.NoError(t, err)
	log.Debug("composed", zap.Strings("columns", out.ColumnNames()))

	_, ok := out.(*table.ColumnTable)
	assert.True(t, ok, "result must keep the source's concrete kind")
	assert.Equal(t, []string{"Loc", "coda"}, out.ColumnNames())
	assert.Equal(t, 3, out.NumRows())

	loc, err := out.Column("Loc")
	require.NoError(t, err)
	assert.Equal(t, "a", loc.Value(0))
	assert.Equal(t, "c", loc.Value(2))

	codaCol, err := out.Column("coda")
	require.NoError(t, err)

	want, err := Compose(tbl, "Cd", "Cu", "Pb")
	require.NoError(t, err)

	got, err := ArrayFromColumn(codaCol)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "coda column must rebuild the compose result")
}

func TestComposeTableArrowKind(t *testing.T) {
	tbl := geoArrowTable(t)

	out, err := ComposeTable(tbl, &ComposeConfig{Columns: []string{"Cd", "Cu", "Pb"}})
	require.NoError(t, err)
	outTbl, ok := out.(*table.ArrowTable)
	require.True(t, ok, "result must keep the Arrow kind")
	defer outTbl.Release()

	assert.Equal(t, []string{"Loc", "coda"}, out.ColumnNames())
	assert.Equal(t, 3, out.NumRows())

	loc, err := out.Column("Loc")
	require.NoError(t, err)
	assert.Equal(t, "b", loc.Value(1))

	// The composition column materializes as a struct column and reads
	// back into an equal array.
	codaCol, err := out.Column("coda")
	require.NoError(t, err)

	want, err := Compose(tbl, "Cd", "Cu", "Pb")
	require.NoError(t, err)

	got, err := ArrayFromColumn(codaCol)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestComposeArrowUnmappedType(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "T", Type: arrow.FixedWidthTypes.Timestamp_ms, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()
	builder.Field(0).(*array.TimestampBuilder).AppendValues([]arrow.Timestamp{1, 2, 3}, nil)

	rec := builder.NewRecord()
	defer rec.Release()

	tbl, err := table.NewArrowTable(rec)
	require.NoError(t, err)
	defer tbl.Release()

	// A column that cannot promote to float64 must fail construction,
	// never compose into silently absent cells.
	_, err = Compose(tbl, "T")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestComposeArrowMatchesColumnTable(t *testing.T) {
	fromNative, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)
	fromArrow, err := Compose(geoArrowTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	assert.True(t, fromNative.Equal(fromArrow))
}

func TestComposeTableDefaults(t *testing.T) {
	tbl, err := table.NewColumnTable(
		[]string{"a", "b"},
		[]table.ValueColumn{{1.0, 2.0}, {3.0, 4.0}},
	)
	require.NoError(t, err)

	// Default config composes every column; nothing is left over.
	out, err := ComposeTable(tbl, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"coda"}, out.ColumnNames())

	codaCol, err := out.Column("coda")
	require.NoError(t, err)
	got, err := ArrayFromColumn(codaCol)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Parts())
}

func TestComposeTableNameCollision(t *testing.T) {
	tbl, err := table.NewColumnTable(
		[]string{"Cd", "Cu", "coda"},
		[]table.ValueColumn{{1.0}, {2.0}, {3.0}},
	)
	require.NoError(t, err)

	_, err = ComposeTable(tbl, &ComposeConfig{Columns: []string{"Cd", "Cu"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))

	// A different result column name avoids the conflict.
	out, err := ComposeTable(tbl, &ComposeConfig{Columns: []string{"Cd", "Cu"}, As: "parts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"coda", "parts"}, out.ColumnNames())
}

func TestComposeTableRowOrder(t *testing.T) {
	tbl := geoTable(t)
	out, err := ComposeTable(tbl, &ComposeConfig{Columns: []string{"Cd", "Cu", "Pb"}})
	require.NoError(t, err)

	codaCol, err := out.Column("coda")
	require.NoError(t, err)
	arr, err := Compose(tbl, "Cd", "Cu", "Pb")
	require.NoError(t, err)

	for i := 0; i < out.NumRows(); i++ {
		c := codaCol.Value(i).(Composition)
		want, err := arr.Get(i)
		require.NoError(t, err)
		assert.Equal(t, want.Values(), c.Values(), "row %d", i)
	}
}

func TestArrayFromColumnErrors(t *testing.T) {
	_, err := ArrayFromColumn(table.ValueColumn{nil, nil})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = ArrayFromColumn(table.ValueColumn{"not a composition"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestDefaultComposeConfig(t *testing.T) {
	cfg := DefaultComposeConfig()
	assert.Equal(t, DefaultAs, cfg.As)
	assert.Empty(t, cfg.Columns)
}
