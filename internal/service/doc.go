// Package service implements the cross-source validators for Workforce.
//
// # Validators
//
// ConsistencyValidator holds a registry of positions per source (page/view)
// and checks that every logical position, identified by normalized
// department, level, subtitle and title, carries the same classification on
// every page that shows it.
//
// AggregationValidator reconciles the direct and indirect aggregation pages
// against the detailed view: page sizes, page membership, per department and
// level counts, and the overall total.
//
// # Event System
//
// Validators publish events via EventBus (registry changes, inconsistencies,
// mismatches, run summaries) for live consumers such as the watch command.
//
// # Design Principles
//
// - Validators depend on the Classifier interface, not on a concrete engine
// - Results are always well-formed reports; failures become report entries
// - The registry is the only shared mutable state and is guarded by a mutex
package service
