package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrNotFound indicates the requested theme or layout does not exist.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidName indicates the asset name contains path separators or
	// traversal sequences.
	ErrInvalidName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured directory is unusable.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrRead indicates an I/O error while reading an asset file.
	ErrRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates an attempt to access files outside the
	// base directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrInvalid indicates the asset could not be decoded.
	ErrInvalid = errors.New("invalid asset document")
)
