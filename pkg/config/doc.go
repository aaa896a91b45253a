// Package config defines the rhovm tool's runtime configuration: which
// RSpace backend to construct, how many workers to use for the parallel
// scheduler, and whether to trace execution. It mirrors the teacher's
// TOML-config idiom (pkg/test's config/step structs), applied to runtime
// settings rather than test scenarios.
package config
