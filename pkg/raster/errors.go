package raster

import "errors"

var (
	// ErrInvalidBuffer is returned when a buffer is nil or its sample slice
	// does not hold exactly Width*Height*4 bytes.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
	// ErrSizeMismatch is returned when two buffers that must share
	// dimensions do not.
	ErrSizeMismatch = errors.New("buffer dimensions differ")
	// ErrMaskMismatch is returned when a mask does not cover its buffer.
	ErrMaskMismatch = errors.New("mask dimensions differ from buffer")
	// ErrUnknownCommand is returned by ApplyCommand for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
)
