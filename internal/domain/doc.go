// Package domain defines the core types for workforce position classification.
//
// A Position is one organizational role instance (department, job level and
// optional process, subtitle and title context) as rendered by one view of an
// org chart. Every position is assigned exactly one Classification: direct
// (production labor), indirect (production-support labor) or OH (overhead).
//
// # Departments
//
// Department labels are free text and must pass through NormalizeDepartment
// before any rule lookup. The normalizer keeps the first line of multi-line
// labels and maps legacy aliases (FGWH, RawMaterial, ...) to canonical names.
//
// # Validation results
//
// Inconsistency records a position classified differently across views.
// AggregationMismatch records a disagreement between the detailed view and an
// aggregation page. ValidationReport and AggregationValidationResult wrap them
// with summary counts, and Report combines them for consumers.
//
// # Design Principles
//
// - Value types, no infrastructure dependencies
// - Closed enumerations with validity checks
package domain
