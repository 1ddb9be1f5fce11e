package documents

import "errors"

var (
	ErrNotFound         = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTooLarge         = errors.New("file exceeds the maximum upload size")
	ErrConflict         = errors.New("document is already processing")
	ErrExtractionFailed = errors.New("extraction failed")
)
