package xio

import "io"

// MemoryReader adapts a byte slice to Adapter for reading. Write always
// fails with ErrWrongDirection.
//
// EOF is reported if and only if pos == len(data): every byte up to and
// including the last one is delivered first, never cut off one read
// early.
type MemoryReader struct {
	data []byte
	pos  int
}

// NewMemoryReader wraps p for reading. p is not copied; the caller must
// not mutate it while the reader is in use.
func NewMemoryReader(p []byte) *MemoryReader {
	return &MemoryReader{data: p}
}

func (m *MemoryReader) Read(p []byte) (int, error) {
	if m.pos >= len(m.data) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += n
	return n, nil
}

func (m *MemoryReader) Write([]byte) (int, error) { return 0, ErrWrongDirection }

func (m *MemoryReader) Close() error { return nil }

// Len reports the total byte length of the wrapped slice.
func (m *MemoryReader) Len() int { return len(m.data) }

// Pos reports the current read offset.
func (m *MemoryReader) Pos() int { return m.pos }

// OwnedMemoryWriter is the "dynamic" write-side memory adapter: its
// backing buffer grows to accommodate whatever is written to it, with no
// fixed cap. Read always fails with ErrWrongDirection.
type OwnedMemoryWriter struct {
	buf []byte
}

// NewOwnedMemoryWriter creates an empty growable memory adapter.
func NewOwnedMemoryWriter() *OwnedMemoryWriter { return &OwnedMemoryWriter{} }

func (m *OwnedMemoryWriter) Write(p []byte) (int, error) {
	m.buf = append(m.buf, p...)
	return len(p), nil
}

func (m *OwnedMemoryWriter) Read([]byte) (int, error) { return 0, ErrWrongDirection }

func (m *OwnedMemoryWriter) Close() error { return nil }

// Bytes returns the accumulated output. The returned slice aliases the
// adapter's internal buffer.
func (m *OwnedMemoryWriter) Bytes() []byte { return m.buf }

// BorrowedMemoryWriter is the "fixed arena" write-side memory adapter: it
// writes into a caller-supplied span and never grows it. Writing past the
// end of the span fails with ErrBorrowedOverflow instead of silently
// truncating or reallocating, matching the fixed-arena "fatal structural
// error, not silent truncation" policy the rest of this module applies to
// arena overflow.
type BorrowedMemoryWriter struct {
	span []byte
	pos  int
}

// NewBorrowedMemoryWriter wraps span for writing. span is not copied or
// resized; the caller owns its lifetime.
func NewBorrowedMemoryWriter(span []byte) *BorrowedMemoryWriter {
	return &BorrowedMemoryWriter{span: span}
}

func (m *BorrowedMemoryWriter) Write(p []byte) (int, error) {
	room := len(m.span) - m.pos
	if room <= 0 && len(p) > 0 {
		return 0, ErrBorrowedOverflow
	}
	n := len(p)
	if n > room {
		n = room
	}
	copy(m.span[m.pos:], p[:n])
	m.pos += n
	if n < len(p) {
		return n, ErrBorrowedOverflow
	}
	return n, nil
}

func (m *BorrowedMemoryWriter) Read([]byte) (int, error) { return 0, ErrWrongDirection }

func (m *BorrowedMemoryWriter) Close() error { return nil }

// Written returns the portion of the span written so far.
func (m *BorrowedMemoryWriter) Written() []byte { return m.span[:m.pos] }
