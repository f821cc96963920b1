package fsops

import "errors"

// Filesystem operation errors.
var (
	// ErrNotFound is returned when a path does not exist.
	ErrNotFound = errors.New("path does not exist")

	// ErrNotAFile is returned when a file operation hits a directory.
	ErrNotAFile = errors.New("path is not a file")

	// ErrNotADirectory is returned when a directory operation hits a file.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrAlreadyExists is returned when a destination already exists.
	ErrAlreadyExists = errors.New("path already exists")

	// ErrNotEmpty is returned by non-recursive directory deletion.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrDecode is returned when file contents do not match the encoding.
	ErrDecode = errors.New("contents do not match encoding")

	// ErrUnsupportedEncoding is returned for encodings outside the
	// UTF-8/UTF-16 family.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)
