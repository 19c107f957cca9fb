package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates the resolved configuration is unusable.
	// Reported once at startup rather than at first use.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBackendUnavailable indicates the embedding backend cannot be
	// reached. This is a hard failure: similarity scores are meaningless
	// if vectors come from different models, so no degraded mode exists.
	ErrBackendUnavailable = errors.New("embedding backend unavailable")

	// ErrEmbeddingMismatch indicates stored vectors were produced by a
	// different model or dimensionality than the active backend.
	ErrEmbeddingMismatch = errors.New("stored embeddings incompatible with active backend")
)
