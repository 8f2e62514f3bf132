package lzz

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"
)

// blockView describes the "current entry" the parser is appending chunks
// to. It holds only the entry pointer and the index it was derived from,
// never a slice into chunkArray.data: a slice cached across a call that
// grows that array would dangle once the array reallocates.
type blockView struct {
	entry *Entry
	index int // index into scanState.arc.Entries
}

// scanState is the parser's mutable working set for one Scan call. It is
// not retained once Scan returns.
type scanState struct {
	arc   *Archive
	ctx   *Context
	flags ScanFlags
	r     io.Reader
	cur   blockView
	seenStop bool
	nextMarkerID int32
	halted   error

	// preChunkHash is arc.HashState as it stood immediately before the
	// chunk currently being dispatched was read, so a chunk whose payload
	// asserts a checksum of the stream up to that point (ELF CRC32) can
	// compare against the value that excludes its own bytes.
	preChunkHash uint32
}

// halt records the error that stopped the scan outright (HALT/HALTHASH
// modifiers, or a structural condition that is always fatal regardless of
// modifier, like marker misordering or arena overflow).
func (s *scanState) halt(err error) error {
	if s.halted == nil {
		s.halted = err
	}
	return err
}

// logged records a non-fatal diagnostic at the current stream position,
// and additionally halts the scan if the active modifier promotes it.
func (s *scanState) logged(err error, isHashMismatch bool) error {
	s.arc.Errors.Append(s.arc.BytesScanned, err)
	switch s.flags.Modifier() {
	case ModHalt:
		return s.halt(err)
	case ModHaltHash:
		if isHashMismatch {
			return s.halt(err)
		}
	}
	return nil
}

// readChunk reads exactly one 4-byte chunk and folds it into the running
// ELF hash and byte position.
func (s *scanState) readChunk() (chunkHeader, error) {
	var h chunkHeader
	if _, err := io.ReadFull(s.r, h[:]); err != nil {
		return h, err
	}
	s.arc.HashState = elfHash(s.arc.HashState, h[:])
	s.arc.BytesScanned += chunkLen
	return h, nil
}

// readPayload reads n whole chunks (4*n bytes) of payload, folding them
// into the running hash and position the same as readChunk.
func (s *scanState) readPayload(n int) ([]byte, error) {
	buf := make([]byte, n*chunkLen)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, err
	}
	s.arc.HashState = elfHash(s.arc.HashState, buf)
	s.arc.BytesScanned += uint64(len(buf))
	return buf, nil
}

// keepChunk appends raw bytes (already read) to the current entry's
// preserved chunk array, honoring the archive's fixed-arena cap.
//
// A fixed-arena archive caps total chunks kept across every entry at
// arc.blocksFixed, as if all entries shared one contiguous allocation;
// each entry's chunkArray is in fact independently growable, but
// chunksUsed enforces the same externally-visible budget by counting
// every chunk kept against the shared cap and failing once it is
// exceeded, regardless of which entry the chunk belongs to.
func (s *scanState) keepChunk(p []byte) error {
	n := len(p) / chunkLen
	if s.arc.fixed {
		if s.arc.chunksUsed+uint32(n) > s.arc.blocksFixed {
			return s.halt(ErrArenaOverflow)
		}
	}
	ca := &s.cur.entry.chunks
	if err := ca.appendChunk(p, s.ctx); err != nil {
		return s.halt(err)
	}
	s.arc.chunksUsed += uint32(n)
	return nil
}

// Scan parses a raw (unwrapped) chunk stream from r into a fresh Archive,
// using ctx's memory policy and flags' depth/modifier. It always returns
// the Archive built so far, even when a fatal error aborts the scan
// partway through, so callers can inspect whatever entries were
// completed before the failure.
func Scan(ctx *Context, r io.Reader, flags ScanFlags) (*Archive, error) {
	var arc *Archive
	if ctx != nil && ctx.BlocksFixed != 0 {
		arc = NewFixedArchive(ctx, ctx.BlocksFixed, ctx.EntriesFixed)
	} else {
		arc = NewArchive(ctx)
	}
	err := ScanInto(arc, r, flags)
	return arc, err
}

// ScanInto parses a raw chunk stream into an existing Archive (typically a
// fixed-arena one created with NewFixedArchive), appending entries to
// whatever it may already contain. This lets a caller reuse one arena
// across repeated reads instead of allocating a fresh Archive each time.
func ScanInto(arc *Archive, r io.Reader, flags ScanFlags) error {
	ctx := arc.ctx
	if ctx == nil {
		ctx = NewContext()
		arc.ctx = ctx
	}
	s := &scanState{arc: arc, ctx: ctx, flags: flags, r: r, nextMarkerID: -1}
	arc.Flags = flags

	err := ctx.withLock(func() error {
		for {
			s.preChunkHash = s.arc.HashState
			hdr, err := s.readChunk()
			if err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					if !s.seenStop {
						s.logged(ErrMissingStop, false)
					}
					break
				}
				return s.halt(err)
			}
			if err := s.dispatch(hdr); err != nil {
				return err
			}
			if s.seenStop {
				break
			}
			if s.halted != nil {
				return s.halted
			}
		}
		if s.cur.entry != nil {
			s.cur.entry.resolve()
		}
		arc.resolveInherits()
		return s.halted
	})
	return err
}

// dispatch handles one already-read chunk header.
func (s *scanState) dispatch(hdr chunkHeader) error {
	switch hdr.typ() {
	case chunkMarker:
		return s.dispatchMarker(hdr)
	case chunkTag:
		return s.dispatchTag(hdr)
	case chunkInfo:
		return s.dispatchInfo(hdr)
	case chunkData:
		return s.dispatchData(hdr)
	case chunkStop:
		return s.dispatchStop(hdr)
	default:
		return s.dispatchCustom(hdr)
	}
}

func (s *scanState) dispatchMarker(hdr chunkHeader) error {
	id := hdr.markerID()
	if int32(id) != s.nextMarkerID+1 {
		return s.halt(missedMarkerError{want: s.nextMarkerID + 1})
	}
	if s.cur.entry != nil {
		s.cur.entry.resolve()
	}
	e, err := s.arc.newEntry(id)
	if err != nil {
		return s.halt(err)
	}
	s.nextMarkerID = int32(id)
	s.cur = blockView{entry: e, index: len(s.arc.Entries) - 1}
	return s.keepChunk(hdr[:])
}

// wantChunk reports whether the current scan depth retains chunks of the
// given kind, independent of whether their content is still parsed for
// metadata (title/extension/etc. are always parsed so MINIMAL can find
// them; "retained" here only controls whether bytes are copied into the
// entry's preserved chunk array).
func (s *scanState) wantChunk(isTitleTag bool, infoCode byte, isCoreInfo bool) bool {
	switch s.flags.Depth() {
	case Full:
		return true
	case Minimal:
		return isTitleTag || isCoreInfo
	default: // Normal
		return true
	}
}

func (s *scanState) dispatchTag(hdr chunkHeader) error {
	nameLen, valueLen := hdr.tagLens()
	total := nameLen + valueLen
	chunks := (total + chunkLen - 1) / chunkLen
	payload, err := s.readPayload(chunks)
	if err != nil {
		return s.halt(err)
	}
	name := string(payload[:nameLen])
	value := string(payload[nameLen:total])
	isTitle := name == "title"
	if s.cur.entry != nil {
		s.cur.entry.Tags[name] = value
		if isTitle {
			s.cur.entry.Title = value
		}
	}
	if s.wantChunk(isTitle, 0, false) {
		if err := s.keepChunk(hdr[:]); err != nil {
			return err
		}
		if err := s.keepChunk(payload); err != nil {
			return err
		}
	}
	return nil
}

func isCoreInfoCode(code byte) bool {
	return code <= infoTotalCodeLine || code == infoMIME
}

func (s *scanState) dispatchInfo(hdr chunkHeader) error {
	code := hdr.infoCode()
	if code < 0x80 {
		return s.dispatchStandardInfo(hdr, code)
	}
	return s.dispatchCustomInfo(hdr, code)
}

// dispatchStandardInfo handles a standard-shaped Info chunk (code <=
// 0x7F): exactly one payload chunk always follows. Two codes (TOTAL SIZE,
// TOTAL DATA SIZE) pack their value's low 16 bits into header bytes 2-3
// rather than leaving them zero; one code (EXTENSION) packs its first two
// characters there instead. Every other standard code leaves header
// bytes 2-3 unused and carries its whole value in the one payload chunk.
func (s *scanState) dispatchStandardInfo(hdr chunkHeader, code byte) error {
	payload, err := s.readPayload(1)
	if err != nil {
		return s.halt(err)
	}
	e := s.cur.entry
	switch code {
	case infoContentCount:
		if e != nil {
			e.ContentCount = uint32LE(payload)
		}
	case infoTotalSize:
		if e != nil {
			e.TotalSize = joinInfo48(uint16LE(hdr[2:4]), uint32LE(payload))
		}
	case infoELFCRC32:
		want := uint32LE(payload)
		if s.preChunkHash != want {
			s.logged(newErrorf("ELF CRC32 mismatch: have %08x want %08x", s.preChunkHash, want), true)
		}
		if e != nil {
			e.ELFCRC32, e.HasELFCRC32 = want, true
		}
	case infoExtension:
		if e != nil {
			e.Extension = trimNul(append([]byte{hdr[2], hdr[3]}, payload...))
		}
	case infoUID:
		if e != nil {
			e.UID, e.HasUID = uint32LE(payload), true
			s.arc.registerUID(e)
		}
	case infoTotalDataSize:
		if e != nil {
			e.TotalDataSize = joinInfo48(uint16LE(hdr[2:4]), uint32LE(payload))
			e.HasTotalData = true
		}
	case infoInherit:
		if e != nil {
			e.InheritUID, e.HasInherit = uint32LE(payload), true
		}
	case infoTotalCodeLine:
		if e != nil {
			e.CodeLineCount = uint32LE(payload)
		}
	}
	if s.wantChunk(false, code, isCoreInfoCode(code)) && e != nil {
		if err := s.keepChunk(hdr[:]); err != nil {
			return err
		}
		return s.keepChunk(payload)
	}
	return nil
}

func (s *scanState) dispatchCustomInfo(hdr chunkHeader, code byte) error {
	n := hdr.infoCustomLen()
	if n < 1 || n > customInfoMaxChunks {
		return s.logged(newErrorf("info chunk exceeds chunk count limit: %d", n), false)
	}
	if byteLen := n * chunkLen; uint32(byteLen) > s.ctx.CustomLimit {
		return s.logged(newErrorf("info chunk exceeds byte limit: %d > %d", byteLen, s.ctx.CustomLimit), false)
	}
	payload, err := s.readPayload(n)
	if err != nil {
		return s.halt(err)
	}
	e := s.cur.entry
	if code == infoMIME && e != nil {
		e.MIME = trimNul(payload)
	}
	if s.wantChunk(false, code, isCoreInfoCode(code)) && e != nil {
		if err := s.keepChunk(hdr[:]); err != nil {
			return err
		}
		return s.keepChunk(payload)
	}
	return nil
}

func (s *scanState) dispatchData(hdr chunkHeader) error {
	subtype := hdr.dataSubtype()
	switch subtype {
	case dataBinary, dataCodeLine:
		n := (hdr.dataByteLen() + chunkLen - 1) / chunkLen
		payload, err := s.readPayload(n)
		if err != nil {
			return s.halt(err)
		}
		if s.flags.Depth() == Full {
			e := s.cur.entry
			byteLen := hdr.dataByteLen()
			if e != nil {
				if subtype == dataCodeLine && s.flags.Modifier() != ModDecode {
					e.CodeLineCount = uint32(countLines(payload[:byteLen]))
				}
				e.Data = append([]byte(nil), payload[:byteLen]...)
				if err := s.keepChunk(hdr[:]); err != nil {
					return err
				}
				return s.keepChunk(payload)
			}
		}
		return nil
	case dataHash:
		selector := hdr.dataHashSelector()
		n, ok := hashChunks(selector)
		if !ok {
			return s.logged(newErrorf("data chunk type byte invalid: hash selector %d", selector), false)
		}
		payload, err := s.readPayload(n)
		if err != nil {
			return s.halt(err)
		}
		if s.flags.Depth() == Full && s.cur.entry != nil {
			if err := s.keepChunk(hdr[:]); err != nil {
				return err
			}
			return s.keepChunk(payload)
		}
		return nil
	default:
		return s.logged(newErrorf("data chunk type byte invalid: subtype %d", subtype), false)
	}
}

func (s *scanState) dispatchStop(hdr chunkHeader) error {
	if hdr != stopHeader {
		return s.logged(newErrorf("malformed stop chunk %v", hdr), false)
	}
	s.seenStop = true
	if s.cur.entry != nil {
		s.cur.entry.resolve()
	}
	return s.keepChunk(hdr[:])
}

func (s *scanState) dispatchCustom(hdr chunkHeader) error {
	code := hdr.typ()
	n := hdr.customLen()
	if uint32(n) > s.ctx.CustomLimit {
		return s.logged(newErrorf("custom chunk exceeds byte limit: %d > %d", n, s.ctx.CustomLimit), false)
	}
	fn := s.ctx.CustomChunks[code]
	if fn == nil {
		// Unregistered custom code: skip its declared byte length, rounded
		// up to the next chunk boundary.
		if n > 0 {
			skip := alignedLen(n)
			if _, err := s.readPayload(skip / chunkLen); err != nil {
				return s.halt(err)
			}
		}
		return nil
	}
	// n is a byte count; the callback speaks in whole chunks.
	chunks := alignedLen(n) / chunkLen
	want, err := fn(hdr, nil)
	if err != nil {
		return s.logged(err, false)
	}
	if want > chunks {
		if err := s.logged(ErrBadCustomChunk, false); err != nil {
			return err
		}
		if _, err := s.readPayload(chunks); err != nil {
			return s.halt(err)
		}
		return nil
	}
	payload, err := s.readPayload(want)
	if err != nil {
		return s.halt(err)
	}
	if _, err := fn(hdr, payload); err != nil {
		return s.logged(err, false)
	}
	if want < chunks {
		if _, err := s.readPayload(chunks - want); err != nil {
			return s.halt(err)
		}
	}
	return nil
}

// trimNul trims trailing NUL padding bytes a fixed-width payload may carry.
func trimNul(p []byte) string {
	i := len(p)
	for i > 0 && p[i-1] == 0 {
		i--
	}
	return string(p[:i])
}

func countLines(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	n := 0
	for _, b := range p {
		if b == '\n' {
			n++
		}
	}
	if p[len(p)-1] != '\n' {
		n++
	}
	return n
}

// verifyHashChunks computes the HASH OF DATA digest for a selector, using
// the same selector mapping as hashChunks. Nothing in this package calls
// it; the Writer emits no hash Data chunks.
func verifyHashChunks(selector byte, data []byte) ([]byte, error) {
	switch selector {
	case hashSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case hashSHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("lzz: unsupported hash selector %d", selector)
	}
}
