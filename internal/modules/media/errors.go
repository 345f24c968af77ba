package media

import "errors"

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrFileTooLarge     = errors.New("file exceeds the size limit")
	ErrInvalidMimeType  = errors.New("file type is not allowed")
	ErrStoreUnavailable = errors.New("media store is unavailable")
)
