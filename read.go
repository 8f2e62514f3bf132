package lzz

import (
	"bufio"
	"io"

	"github.com/muragami/lzz/xio"
)

// ReadFile opens path, detects its wrapping, and scans it into a fresh
// Archive. ctx may be nil (NewContext()'s defaults apply); a nil ctx with
// BlocksFixed set elsewhere has no effect here, since ReadFile always
// builds a fresh Archive matching ctx's own fixed/dynamic policy.
func ReadFile(path string, ctx *Context, flags ScanFlags) (*Archive, error) {
	var arc *Archive
	if ctx != nil && ctx.BlocksFixed != 0 {
		arc = NewFixedArchive(ctx, ctx.BlocksFixed, ctx.EntriesFixed)
	} else {
		arc = NewArchive(ctx)
	}
	err := ReadFileInto(arc, path, flags)
	return arc, err
}

// ReadFileInto scans path's contents into an existing Archive.
func ReadFileInto(arc *Archive, path string, flags ScanFlags) error {
	f, err := xio.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return err
	}
	if err := f.Rewind(); err != nil {
		return err
	}
	format, err := DetectFormat(magic[:])
	if err != nil {
		return err
	}
	var r io.Reader = f
	if format == FormatLZ4 {
		r = xio.NewLZ4Reader(f)
	}
	arc.Format = format
	return ScanInto(arc, r, flags)
}

// ReadMemory detects p's wrapping and scans it into a fresh Archive. p
// must be at least minArchiveLen bytes; anything shorter is rejected
// outright with ErrShortInput before any scanning is attempted.
func ReadMemory(p []byte, ctx *Context, flags ScanFlags) (*Archive, error) {
	var arc *Archive
	if ctx != nil && ctx.BlocksFixed != 0 {
		arc = NewFixedArchive(ctx, ctx.BlocksFixed, ctx.EntriesFixed)
	} else {
		arc = NewArchive(ctx)
	}
	err := ReadMemoryInto(arc, p, flags)
	return arc, err
}

// ReadMemoryInto scans p's contents into an existing Archive, typically a
// fixed-arena one reused across repeated reads.
func ReadMemoryInto(arc *Archive, p []byte, flags ScanFlags) error {
	if len(p) < minArchiveLen {
		return ErrShortInput
	}
	format, err := DetectFormat(p)
	if err != nil {
		return err
	}
	mr := xio.NewMemoryReader(p)
	var r io.Reader = mr
	if format == FormatLZ4 {
		r = xio.NewLZ4Reader(mr)
	}
	arc.Format = format
	return ScanInto(arc, r, flags)
}

// ReadIO detects the wrapping of an already-open Adapter and scans it into
// a fresh Archive. The adapter must be positioned at the start of the
// stream; ReadIO peeks its first four bytes without losing them.
func ReadIO(a xio.Adapter, ctx *Context, flags ScanFlags) (*Archive, error) {
	var arc *Archive
	if ctx != nil && ctx.BlocksFixed != 0 {
		arc = NewFixedArchive(ctx, ctx.BlocksFixed, ctx.EntriesFixed)
	} else {
		arc = NewArchive(ctx)
	}
	err := ReadIOInto(arc, a, flags)
	return arc, err
}

// ReadIOInto scans an already-open Adapter into an existing Archive.
func ReadIOInto(arc *Archive, a xio.Adapter, flags ScanFlags) error {
	br := bufio.NewReaderSize(a, 4)
	magic, err := br.Peek(4)
	if err != nil {
		return err
	}
	format, err := DetectFormat(magic)
	if err != nil {
		return err
	}
	var r io.Reader = br
	if format == FormatLZ4 {
		r = xio.NewLZ4Reader(readerAdapter{br})
	}
	arc.Format = format
	return ScanInto(arc, r, flags)
}

// readerAdapter adapts a bufio.Reader (a plain io.Reader) back to the
// xio.Adapter trio so it can be handed to NewLZ4Reader, which only needs
// Read and Close.
type readerAdapter struct {
	r *bufio.Reader
}

func (a readerAdapter) Read(p []byte) (int, error)  { return a.r.Read(p) }
func (a readerAdapter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }
func (a readerAdapter) Close() error                { return nil }
