// Package blueprint holds the in-memory representation of a parsed eBPF
// object file: its sections, maps, probes and instruction streams.
//
// A Blueprint is produced once by a loader (see blueprint/elfobj, or the TOML
// documents in frontend) and is never mutated afterwards. Everything that
// reads it, the view index and the renderer, may share it freely.
//
// This package is intended as a plain data model, without terminal or
// kernel specific logic.
package blueprint
