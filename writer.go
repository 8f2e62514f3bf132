package lzz

import (
	"bytes"
	"io"

	"github.com/muragami/lzz/xio"
)

// writeStream linearizes arc's entries onto w as a raw (unwrapped) chunk
// stream. Entries that already carry preserved raw chunks - because they
// were scanned in, or because a caller appended directly to their chunk
// array - are emitted verbatim; this is what makes FLAT mode a
// byte-identical round trip of whatever was read in. Entries built
// through AddEntry/AddFolder and never scanned are synthesized from their
// struct fields instead.
//
// Entry 0 is special-cased: its CONTENT COUNT and TOTAL SIZE info values
// describe the archive as a whole, so when entry 0 itself needs
// synthesizing, every other entry is linearized first (into a buffer) so
// their combined length is known before entry 0's own bytes are emitted.
func writeStream(w io.Writer, arc *Archive) error {
	if len(arc.Entries) == 0 {
		_, err := w.Write(stopHeader[:])
		return err
	}

	e0 := arc.Entries[0]
	if len(e0.chunks.data) > 0 {
		return writeStreamVerbatimEntry0(w, arc)
	}

	var tail bytes.Buffer
	sawStop := false
	for _, e := range arc.Entries[1:] {
		if len(e.chunks.data) > 0 {
			tail.Write(e.chunks.data)
			if endsInStop(e.chunks.data) {
				sawStop = true
			}
			continue
		}
		if err := writeSynthesizedEntry(&tail, arc, e); err != nil {
			return err
		}
	}
	if !sawStop {
		tail.Write(stopHeader[:])
	}

	entry0Len := entry0HeaderLen(e0)
	total := uint64(entry0Len + tail.Len())
	if err := writeEntry0(w, e0, uint32(len(arc.Entries)-1), total); err != nil {
		return err
	}
	_, err := tail.WriteTo(w)
	return err
}

// writeStreamVerbatimEntry0 handles the case where entry 0 already has
// preserved raw chunks (it was scanned in), writing every entry verbatim
// in order.
func writeStreamVerbatimEntry0(w io.Writer, arc *Archive) error {
	sawStop := false
	for _, e := range arc.Entries {
		if len(e.chunks.data) > 0 {
			if _, err := w.Write(e.chunks.data); err != nil {
				return err
			}
			if endsInStop(e.chunks.data) {
				sawStop = true
			}
			continue
		}
		if err := writeSynthesizedEntry(w, arc, e); err != nil {
			return err
		}
	}
	if !sawStop {
		_, err := w.Write(stopHeader[:])
		return err
	}
	return nil
}

func endsInStop(p []byte) bool {
	return len(p) >= chunkLen && p[len(p)-chunkLen] == chunkStop
}

// entry0HeaderLen returns the exact byte length writeEntry0 will emit for
// e0, without needing to know the TOTAL SIZE value it will encode (that
// value never changes the encoding's width, only its content).
func entry0HeaderLen(e0 *Entry) int {
	titleLen := len(e0.Tags["title"])
	return chunkLen + // marker
		2*chunkLen + // content count info
		2*chunkLen + // total size info
		2*chunkLen + // extension info
		chunkLen + alignedLen(len("title")+titleLen) // title tag
}

// writeEntry0 emits entry 0's fixed structure: Marker, CONTENT COUNT,
// TOTAL SIZE, EXTENSION ("nodata"), and the title Tag.
func writeEntry0(w io.Writer, e0 *Entry, contentCount uint32, totalSize uint64) error {
	marker := makeMarkerHeader(0)
	if _, err := w.Write(marker[:]); err != nil {
		return err
	}

	ccHdr := makeStandardInfoHeader(infoContentCount)
	var ccPayload [4]byte
	putUint32LE(ccPayload[:], contentCount)
	if _, err := w.Write(ccHdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(ccPayload[:]); err != nil {
		return err
	}

	low16, high32 := splitInfo48(totalSize)
	sizeHdr := makeInfo48Header(infoTotalSize, low16)
	var sizePayload [4]byte
	putUint32LE(sizePayload[:], high32)
	if _, err := w.Write(sizeHdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(sizePayload[:]); err != nil {
		return err
	}

	ext := e0.Extension
	if ext == "" {
		ext = "nodata"
	}
	if err := writeExtension(w, ext); err != nil {
		return err
	}

	title := e0.Tags["title"]
	tagHdr := makeTagHeader(len("title"), len(title), 0)
	if _, err := w.Write(tagHdr[:]); err != nil {
		return err
	}
	pw := newChunkPadWriter(w)
	_, err := pw.WritePadded([]byte("title" + title))
	return err
}

// writeExtension emits an EXTENSION info chunk, packing ext's first two
// bytes into the header tail and the remaining (NUL-padded) four bytes
// into the single trailing payload chunk, per the canonical example's
// "nodata" encoding. ext must be at most 6 bytes.
func writeExtension(w io.Writer, ext string) error {
	if len(ext) > 6 {
		return newErrorf("extension %q longer than 6 bytes", ext)
	}
	var buf [6]byte
	copy(buf[:], ext)
	hdr := makeExtensionHeader(buf[0], buf[1])
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(buf[2:6])
	return err
}

// writeSynthesizedEntry emits a Marker, one Tag per e.Tags entry, an
// EXTENSION Info chunk (when an extension is set, or "nodata" for a folder
// or an entry with no data source), a UID NUMBER Info chunk when HasUID is
// set, and (if data is available) a Data chunk, for a content entry
// (ID >= 1) that was constructed through the AddEntry/AddFolder API rather
// than scanned in.
func writeSynthesizedEntry(w io.Writer, arc *Archive, e *Entry) error {
	pw := newChunkPadWriter(w)

	marker := makeMarkerHeader(e.ID)
	if _, err := w.Write(marker[:]); err != nil {
		return err
	}

	for name, value := range e.Tags {
		nameLen, valueLen := len(name), len(value)
		if nameLen > 255 || valueLen > 255 {
			return newErrorf("tag %q too long to encode", name)
		}
		hdr := makeTagHeader(nameLen, valueLen, 0)
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := pw.WritePadded([]byte(name + value)); err != nil {
			return err
		}
	}

	ext := e.Extension
	if ext == "" && (e.IsFolder || (e.Data == nil && arc.fetch == nil)) {
		ext = "nodata"
	}
	if ext != "" {
		if err := writeExtension(w, ext); err != nil {
			return err
		}
	}

	if e.HasUID {
		hdr := makeStandardInfoHeader(infoUID)
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		var payload [4]byte
		putUint32LE(payload[:], e.UID)
		if _, err := w.Write(payload[:]); err != nil {
			return err
		}
	}

	data, err := arc.fetchData(e)
	if err != nil {
		return err
	}
	if len(data) > 0 {
		hdr := makeDataHeader(dataBinary, len(data))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := pw.WritePadded(data); err != nil {
			return err
		}
	}

	return nil
}

// Write linearizes arc onto w according to mode: ModeFlat writes a raw
// chunk stream, ModeFast/ModeHC wrap it in an LZ4 frame at the
// corresponding compression level. The whole call runs under arc's
// Context lock, if one is installed.
func Write(w xio.Adapter, arc *Archive, mode WriteMode) error {
	ctx := arc.ctx
	if ctx == nil {
		ctx = NewContext()
	}
	return ctx.withLock(func() error {
		switch mode {
		case ModeFlat:
			return writeStream(w, arc)
		case ModeFast:
			zw := xio.NewLZ4Writer(w, false, 0)
			if err := writeStream(zw, arc); err != nil {
				return err
			}
			return zw.Close()
		case ModeHC:
			zw := xio.NewLZ4Writer(w, true, 0)
			if err := writeStream(zw, arc); err != nil {
				return err
			}
			return zw.Close()
		default:
			return newErrorf("unknown write mode %d", mode)
		}
	})
}

// WriteFile creates path and writes arc to it in the given mode.
func WriteFile(path string, arc *Archive, mode WriteMode) error {
	f, err := xio.CreateFile(path)
	if err != nil {
		return err
	}
	if err := Write(f, arc, mode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteMemory writes arc in the given mode and returns the resulting
// bytes.
func WriteMemory(arc *Archive, mode WriteMode) ([]byte, error) {
	mw := xio.NewOwnedMemoryWriter()
	if err := Write(mw, arc, mode); err != nil {
		return nil, err
	}
	return mw.Bytes(), nil
}
