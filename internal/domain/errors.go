package domain

import "errors"

var (
	// ErrMalformedRecord is returned when a raw retailer record lacks a usable name
	ErrMalformedRecord = errors.New("raw record has no usable name")

	// ErrEngineNotReady is returned when the catalog is queried before Initialize has run
	ErrEngineNotReady = errors.New("catalog engine not ready")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrFeedUnavailable is returned when a retailer feed cannot be fetched
	ErrFeedUnavailable = errors.New("retailer feed unavailable")
)
