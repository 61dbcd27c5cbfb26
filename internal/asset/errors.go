package asset

import (
	"errors"
	"fmt"
)

// Domain error sentinels. These enable consistent HTTP status mapping via
// errors.Is() at the transport boundary.

var (
	// ErrEmptyFile indicates a missing or zero-length upload.
	ErrEmptyFile = errors.New("file is empty")

	// ErrTooLarge indicates the declared size exceeds the upload limit.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrUnsupportedType indicates a media type or extension outside the allow-set.
	ErrUnsupportedType = errors.New("unsupported image type")

	// ErrInvalidFilename indicates a filename without an extension separator.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrNotFound indicates the asset does not exist or is already deleted.
	ErrNotFound = errors.New("image not found")

	// ErrStorageWrite indicates the object store rejected the blob write.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrStorageDelete indicates the object store rejected the blob delete.
	ErrStorageDelete = errors.New("storage delete failed")
)

// IsClientError reports whether err maps to a caller mistake rather than a
// collaborator failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrTooLarge) ||
		errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrInvalidFilename)
}

func storageWriteError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageWrite, err)
}

func storageDeleteError(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageDelete, err)
}
