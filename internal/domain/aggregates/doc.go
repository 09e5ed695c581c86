// Package aggregates defines the write boundaries of the coaching backend.
//
// Each contract names a set of rows whose invariants must change together in one
// transaction. Implementations live in internal/data/aggregates.
package aggregates
