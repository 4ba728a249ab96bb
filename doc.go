// Package coda provides columnar containers for compositional data,
// built on a generic tabular protocol. A composition is a vector of
// positive parts whose ratios, not absolute magnitudes, carry the
// meaningful information.
//
// The module wraps a table's columns into a typed array of
// compositions without copying row-wise, and selects column subsets
// into compositions while optionally folding the result back into a
// table of the caller's concrete representation.
//
// # Quick Start
//
// Promote three element columns of a table into a compositional array:
//
//	import (
//	    "github.com/compgeo/coda/pkg/coda"
//	    "github.com/compgeo/coda/pkg/table"
//	)
//
//	tbl, _ := table.NewColumnTable(
//	    []string{"Cd", "Cu", "Pb", "Loc"},
//	    []table.ValueColumn{
//	        {1.0, 4.0, 7.0},
//	        {2.0, 5.0, 8.0},
//	        {3.0, nil, 9.0},
//	        {"a", "b", "c"},
//	    },
//	)
//
//	arr, _ := coda.Compose(tbl, "Cd", "Cu", "Pb")
//	c, _ := arr.Get(1)
//	v, defined, _ := c.ByName("Pb") // defined == false
//
// Or keep the untouched columns, preserving the table kind:
//
//	out, _ := coda.ComposeTable(tbl, &coda.ComposeConfig{
//	    Columns: []string{"Cd", "Cu", "Pb"},
//	}) // columns: Loc, coda
//
// # Key Packages
//
//	pkg/table   - tabular protocol and the ColumnTable / ArrowTable kinds
//	pkg/coda    - compositional Array, Composition views, compose transform
//	pkg/errors  - structured error handling
//	pkg/logger  - structured logging
package coda
