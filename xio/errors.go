package xio

import "errors"

// ErrWrongDirection is returned when an Adapter opened for one Direction
// is used for the other (e.g. Write called on a read-only File adapter).
var ErrWrongDirection = errors.New("xio: adapter opened for the wrong direction")

// ErrBorrowedOverflow is returned by a borrowed (fixed-span) Memory
// adapter's Write when the caller-supplied span is already full. Unlike
// an owned Memory adapter, a borrowed one never grows to make room.
var ErrBorrowedOverflow = errors.New("xio: borrowed memory span is full")

// ErrTooShort describes a memory source too short to possibly hold a valid
// archive. NewMemoryReader does not check the length and never returns it.
var ErrTooShort = errors.New("xio: memory source shorter than minimum valid archive")
