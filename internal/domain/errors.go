package domain

import "errors"

var (
	// ErrInvalidSpecies signals an unrecognized species value.
	ErrInvalidSpecies = errors.New("invalid species")
	// ErrValidation signals a malformed request parameter or filter value.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream signals a failure of the primary (lexical) search channel.
	ErrUpstream = errors.New("search backend unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrKNNNotSupported signals that the index deployment rejected a vector query.
	ErrKNNNotSupported = errors.New("knn not supported by backend")
)
