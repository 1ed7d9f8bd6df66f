package images

import "errors"

var (
	// ErrDecode is returned when an input is not a readable image.
	ErrDecode = errors.New("decode error")
	// ErrIO is returned for filesystem read or write failures.
	ErrIO = errors.New("i/o error")
	// ErrConfig is returned for invalid parameters such as a non-positive size.
	ErrConfig = errors.New("config error")
)
