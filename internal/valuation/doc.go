// Package valuation holds the consolidation engine: bottom-up aggregation
// of category figures, per-category history reconstruction, multi-category
// history merging, and the merged transaction/valuation event list.
//
// Everything here is pure computation over in-memory snapshots. Missing
// data yields zero values, never errors.
package valuation
