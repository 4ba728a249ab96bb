// Package coda implements columnar containers for compositional data:
// vectors of positive parts that carry relative, not absolute,
// information.
//
// The package provides three pieces:
//
//   - Array: an immutable columnar store of many compositions sharing
//     one ordered set of part names, with optional (absent) cells.
//   - Composition: a zero-copy view of a single observation of an
//     Array, produced lazily on indexed access.
//   - Compose / ComposeTable: the transform that promotes named
//     columns of any table.Table into an Array, optionally folding the
//     result back into a table of the source's concrete kind.
//
// An Array itself implements table.Table, so downstream consumers of
// the tabular protocol operate uniformly over raw tables and
// compositional arrays.
//
// Validation of positivity or closure of parts is out of scope; the
// containers store whatever the source table holds, promoted to
// float64.
package coda
