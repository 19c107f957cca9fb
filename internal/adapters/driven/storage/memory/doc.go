// Package memory provides in-memory store implementations used by tests
// and lightweight wiring. They mirror the SQLite adapters' semantics,
// including insertion-order chunk listing and atomic association
// replacement.
package memory
