// Package testsuite runs TOML-described end-to-end scenarios against the
// assembler, engine, and RSpace: assemble one or more programs, execute
// them in order against a shared RSpace backend, and check each step's
// terminal value or error against what the scenario file declares. It
// gives the kind of scenario spec.md's §8.4 describes a declarative,
// data-driven home alongside the hand-written Go tests in pkg/engine.
package testsuite
