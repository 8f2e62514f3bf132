package xio

import (
	"io"
	"os"
)

// File adapts an *os.File (or anything with the same shape) to Adapter.
// It is opened read-only or write-only, never both: Write on a reader, or
// Read on a writer, returns ErrWrongDirection rather than silently
// succeeding against the wrong file descriptor mode.
type File struct {
	f   *os.File
	dir Direction
}

// OpenFile opens path for reading and wraps it as a read-only Adapter.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, dir: DirRead}, nil
}

// CreateFile creates (truncating if necessary) path and wraps it as a
// write-only Adapter.
func CreateFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, dir: DirWrite}, nil
}

func (a *File) Read(p []byte) (int, error) {
	if a.dir != DirRead {
		return 0, ErrWrongDirection
	}
	return a.f.Read(p)
}

func (a *File) Write(p []byte) (int, error) {
	if a.dir != DirWrite {
		return 0, ErrWrongDirection
	}
	return a.f.Write(p)
}

func (a *File) Close() error { return a.f.Close() }

// Rewind seeks back to the start of the file, used by callers that peek a
// few header bytes to detect the stream's wrapping before scanning it.
func (a *File) Rewind() error {
	_, err := a.f.Seek(0, io.SeekStart)
	return err
}
