package index

import "errors"

var (
	// ErrInvalidConfig indicates the index configuration is unusable,
	// for example a non-positive dimension or capacity.
	ErrInvalidConfig = errors.New("index: invalid configuration")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// configured dimension.
	ErrDimensionMismatch = errors.New("index: vector dimension mismatch")

	// ErrCapacityExceeded indicates a bulk insert larger than the configured
	// capacity. The index is left unmodified.
	ErrCapacityExceeded = errors.New("index: capacity exceeded")

	// ErrEmptyIndex indicates a search against an index with no vectors.
	ErrEmptyIndex = errors.New("index: index is empty")

	// ErrCorruptSnapshot indicates a serialized index blob that failed
	// checksum verification or structural validation.
	ErrCorruptSnapshot = errors.New("index: corrupt snapshot")

	// ErrUnsupportedVersion indicates a serialized index blob written by an
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("index: unsupported snapshot version")
)
