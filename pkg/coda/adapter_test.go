package coda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compgeo/coda/pkg/errors"
	"github.com/compgeo/coda/pkg/table"
)

func TestArrayImplementsTable(t *testing.T) {
	var _ table.Table = (*Array)(nil)
}

func TestArrayAsTable(t *testing.T) {
	arr, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	var tbl table.Table = arr
	assert.Equal(t, []string{"Cd", "Cu", "Pb"}, tbl.ColumnNames())
	assert.Equal(t, 3, tbl.NumRows())

	cu, err := tbl.Column("Cu")
	require.NoError(t, err)
	assert.Equal(t, 3, cu.Len())
	assert.Equal(t, 2.0, cu.Value(0))

	pb, err := tbl.Column("Pb")
	require.NoError(t, err)
	assert.Nil(t, pb.Value(1), "absent part must surface as nil")
	assert.Equal(t, 9.0, pb.Value(2))

	_, err = tbl.Column("Zn")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestArraySelect(t *testing.T) {
	arr, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	sub, err := arr.Select("Pb", "Cd")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pb", "Cd"}, sub.ColumnNames())
	assert.Equal(t, 3, sub.NumRows())

	cd, err := sub.Column("Cd")
	require.NoError(t, err)
	assert.Equal(t, 4.0, cd.Value(1))

	_, err = sub.Column("Cu")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	narrower, err := sub.Select("Cd")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cd"}, narrower.ColumnNames())

	_, err = arr.Select("Zn")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestComposeFromArray(t *testing.T) {
	// An Array satisfies the tabular protocol, so it can feed compose
	// again; the derived array drops the unselected part.
	arr, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	sub, err := Compose(arr, "Cd", "Pb")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cd", "Pb"}, sub.Parts())

	c, err := sub.Get(1)
	require.NoError(t, err)
	v, defined, err := c.ByName("Cd")
	require.NoError(t, err)
	assert.True(t, defined)
	assert.Equal(t, 4.0, v)
	_, defined, err = c.ByName("Pb")
	require.NoError(t, err)
	assert.False(t, defined)
}

func TestArrayMaterializerPreservesKind(t *testing.T) {
	arr, err := Compose(geoTable(t), "Cd", "Cu", "Pb")
	require.NoError(t, err)

	cd, err := arr.Column("Cd")
	require.NoError(t, err)
	pb, err := arr.Column("Pb")
	require.NoError(t, err)

	out, err := arr.Materializer()([]string{"Cd", "Pb"}, []table.Column{cd, pb})
	require.NoError(t, err)

	rebuilt, ok := out.(*Array)
	require.True(t, ok, "materializer must rebuild an Array")
	assert.Equal(t, []string{"Cd", "Pb"}, rebuilt.Parts())

	want, err := Compose(arr, "Cd", "Pb")
	require.NoError(t, err)
	assert.True(t, want.Equal(rebuilt))
}
