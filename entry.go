package lzz

// Chunk-array growth constants (dynamic mode), expressed in chunk slots
// (each slot is 4 bytes).
const (
	initialChunkSlots  = 16384
	chunkGrowDoubleCap = 2097152
	chunkGrowStep      = 2097152
)

// chunkArray is the growable (or arena-backed) byte array holding an
// entry's raw, preserved chunks. Every append is chunk-aligned: len() is
// always a multiple of 4.
type chunkArray struct {
	data  []byte
	fixed bool // true when backed by a view into a fixed arena
}

// ensureCapacity grows data's backing array, if needed and permitted, so
// that extraBytes more can be appended. In fixed-arena mode growth is
// disabled entirely; callers get ErrArenaOverflow instead.
//
// This always allocates a fresh backing slice on growth rather than
// relying on append's own doubling, because the "current block" view held
// by the parser (scanState.cur) must be invalidated and refetched after
// any growth. A silent append-growth would move the backing array out
// from under a view nobody told to refetch.
func (ca *chunkArray) ensureCapacity(extraBytes int, ctx *Context) error {
	needed := len(ca.data) + extraBytes
	if needed <= cap(ca.data) {
		return nil
	}
	if ca.fixed {
		return ErrArenaOverflow
	}
	curSlots := cap(ca.data) / chunkLen
	if curSlots == 0 {
		curSlots = initialChunkSlots
	}
	neededSlots := (needed + chunkLen - 1) / chunkLen
	for curSlots < neededSlots {
		if curSlots < chunkGrowDoubleCap {
			curSlots *= 2
		} else {
			curSlots += chunkGrowStep
		}
	}
	newCap := curSlots * chunkLen
	var newData []byte
	if ctx != nil && ctx.Alloc != nil {
		buf := ctx.Alloc.Allocate(newCap)
		if len(buf) == newCap {
			newData = buf[:len(ca.data):newCap]
		} else {
			ctx.reportError(allocatorSizeMismatchMsg(len(buf), newCap))
			newData = make([]byte, len(ca.data), newCap)
		}
	} else {
		newData = make([]byte, len(ca.data), newCap)
	}
	copy(newData, ca.data)
	if ctx != nil {
		ctx.addBytesAllocated(cap(ca.data), cap(newData))
	}
	ca.data = newData
	return nil
}

// appendChunk appends one or more whole chunks (len(p) must be a multiple
// of chunkLen) to the array, growing first if necessary.
func (ca *chunkArray) appendChunk(p []byte, ctx *Context) error {
	if err := ca.ensureCapacity(len(p), ctx); err != nil {
		return err
	}
	ca.data = append(ca.data, p...)
	return nil
}

// count returns the number of 4-byte chunks stored.
func (ca *chunkArray) count() int { return len(ca.data) / chunkLen }

// Entry is the contents unit between two markers (or a marker and Stop).
// Entry 0 carries archive-wide metadata; entries 1..N are the archive's
// contained files or folders.
type Entry struct {
	// ID is the entry's 24-bit marker ID.
	ID uint32

	// Chunks holds every chunk belonging to this entry, verbatim, in
	// stream order, starting with the Marker chunk itself. This is what
	// the Writer linearizes back out in FLAT mode to reproduce the
	// original bytes exactly.
	chunks chunkArray

	// Title is the decoded value of this entry's "title" tag, if any.
	Title string
	// Tags holds every decoded Tag chunk's name/value pair, including
	// "title". Set by callers via AddEntry/AddFolder, or populated
	// incrementally while scanning.
	Tags map[string]string
	// IsFolder marks an entry created through AddFolder: one that carries
	// no Data chunk by construction.
	IsFolder bool
	// Extension is the decoded EXTENSION info value ("nodata" for
	// entries with no data payload).
	Extension string
	// MIME is the decoded MIME info value, if present.
	MIME string
	// UID is the decoded UID NUMBER info value.
	UID uint32
	HasUID bool
	// InheritUID names another entry's UID to inherit tags from.
	InheritUID uint32
	HasInherit bool
	// CodeLineCount is the decoded TOTAL CODE LINES info value.
	CodeLineCount uint32

	// ContentCount and TotalSize/TotalDataSize are only meaningful on
	// entry 0 (ContentCount, TotalSize) or populated per-entry
	// (TotalDataSize).
	ContentCount  uint32
	TotalSize     uint64
	TotalDataSize uint64
	HasTotalData  bool

	// Data is the decoded payload for a Data chunk kept under FULL scan
	// depth. It is nil unless a Data chunk was actually read.
	Data []byte
	// ELFCRC32 is the decoded ELF CRC32 info value, if present.
	ELFCRC32    uint32
	HasELFCRC32 bool

	resolved bool
}

// resolve finalizes entry bookkeeping once its marker segment has closed
// (the next Marker or the Stop chunk has been seen). Title, extension,
// MIME, UID, inherit, and code-line count are all derived incrementally
// as each Tag/Info chunk is dispatched, so resolve's only remaining job is
// to mark the entry closed, letting a caller distinguish "still being
// scanned" from "done".
func (e *Entry) resolve() { e.resolved = true }

// Resolved reports whether this entry's marker segment has closed.
func (e *Entry) Resolved() bool { return e.resolved }

// ChunkCount returns how many 4-byte chunks are stored for this entry.
func (e *Entry) ChunkCount() int { return e.chunks.count() }

// RawChunks returns the entry's preserved chunk bytes, verbatim. The
// returned slice aliases the entry's internal storage and must not be
// retained past the next mutation of the entry.
func (e *Entry) RawChunks() []byte { return e.chunks.data }
