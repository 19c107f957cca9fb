// Package sqlite provides SQLite-backed implementations of the catalog,
// vector and association store ports. A single database file holds the
// reference catalog, the embedding chunks and the association edges so
// the pipeline's replace-all commit is one local transaction.
package sqlite
