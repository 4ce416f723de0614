// Package validation lints jmx templates before they are expanded. Schema
// violations are collected with kin-openapi so a single run reports every
// broken query.
package validation
