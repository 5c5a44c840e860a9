package domain

import "errors"

var (
	// ErrAuthentication marks a rejected client-credentials exchange.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound marks a lookup with no result (e.g. an empty search).
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse marks an API payload that lacks the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingFeatures marks a feature vector with at least one missing value
	// where a complete vector is required.
	ErrMissingFeatures = errors.New("missing audio features")
	// ErrEmptyDataset marks a dataset with no usable rows.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidArgument marks caller input that violates a domain rule.
	ErrInvalidArgument = errors.New("domain: invalid argument")
)
