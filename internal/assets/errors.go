package assets

import "errors"

// Sentinel errors for style loading.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the name contains path separators,
	// dots or is empty.
	ErrInvalidAssetName = errors.New("invalid style name")

	// ErrInvalidBasePath indicates the styles directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid styles directory")

	// ErrAssetRead indicates an I/O error while reading a style file.
	ErrAssetRead = errors.New("failed to read style")

	// ErrPathTraversal indicates an attempt to read outside the styles directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
