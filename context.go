package lzz

import "os"

// Depth selects how much of the chunk stream a scan actually decodes. It
// occupies the low byte of a ScanFlags value.
type Depth int

const (
	// Normal reads all Tag and Info chunks but skips Data payloads,
	// advancing position and hash without copying the bytes. This is the
	// default depth.
	Normal Depth = 0
	// Minimal keeps only the title Tag and the core standard Info codes
	// (0x00-0x07 and 0x80/MIME); everything else is skipped.
	Minimal Depth = 1
	// Full reads every chunk, including Data payloads.
	Full Depth = 2
)

// Modifier adjusts how a scan reacts to logged errors. It occupies the high
// byte of a ScanFlags value.
type Modifier int

const (
	// ModNone applies no modifier; the default lenient policy applies.
	ModNone Modifier = 0
	// ModDecode suppresses code-line parsing: a code-line Data block's
	// lines are not counted, so Entry.CodeLineCount is not set from it.
	ModDecode Modifier = 1
	// ModHalt promotes any logged error to early scan termination.
	ModHalt Modifier = 2
	// ModHaltHash promotes only an ELF CRC32 mismatch to early scan
	// termination; other errors remain logged-and-continue.
	ModHaltHash Modifier = 3
)

// ScanFlags packs a Depth into its low byte and a Modifier into its high
// byte.
type ScanFlags int

// Named flag values combining a Depth or Modifier into a ready-to-use
// ScanFlags.
const (
	FlagNormal   ScanFlags = ScanFlags(Normal)
	FlagMinimal  ScanFlags = ScanFlags(Minimal)
	FlagFull     ScanFlags = ScanFlags(Full)
	FlagDecode   ScanFlags = ScanFlags(ModDecode) << 8
	FlagHalt     ScanFlags = ScanFlags(ModHalt) << 8
	FlagHaltHash ScanFlags = ScanFlags(ModHaltHash) << 8
)

// Depth extracts the scan depth from a ScanFlags value.
func (f ScanFlags) Depth() Depth { return Depth(f & 0xFF) }

// Modifier extracts the halt/decode modifier from a ScanFlags value.
func (f ScanFlags) Modifier() Modifier { return Modifier((f >> 8) & 0xFF) }

// WriteMode selects the output wrapping the Writer produces.
type WriteMode int

const (
	// ModeFast writes a fast-compression LZ4 frame. This is the default.
	ModeFast WriteMode = 0
	// ModeHC writes a high-compression LZ4 frame.
	ModeHC WriteMode = 1
	// ModeFlat writes an unwrapped chunk stream.
	ModeFlat WriteMode = 2
)

// CustomChunkFunc handles a custom chunk (type byte 5..255). It is called
// twice per chunk: first with payload nil so the callback can inspect the
// header and declare how many trailing chunks it wants to consume, then
// again with exactly that many chunks of payload. Returning a wantChunks
// greater than the header's declared length is custom-chunk misuse
// (ErrBadCustomChunk is logged and the chunk is skipped instead).
type CustomChunkFunc func(header [4]byte, payload []byte) (wantChunks int, err error)

// Mutex is the minimal locking interface a Context's LockHooks must
// satisfy. sync.Mutex implements it without adaptation.
type Mutex interface {
	Lock()
	Unlock()
}

// LockHooks lets a Context install its own synchronization instead of the
// default (no locking; archives are not safe for concurrent use on their
// own).
type LockHooks struct {
	NewMutex func() Mutex
}

// Allocator is an optional hook for observing or redirecting the byte
// allocations a Context's archives make as their chunk arrays grow. Most
// callers never set this: Go's runtime allocator already backs make/append,
// and the hook exists only for accounting (Context.BytesAllocated) and for
// a caller that wants a custom arena-backed allocator for the fixed-arena
// layout. A mandatory allocation vtable on every Context would just be
// ceremony here: Go's own allocator already backs make/append correctly.
type Allocator interface {
	// Allocate returns a new zeroed byte slice of length n.
	Allocate(n int) []byte
}

// Context holds process-wide customization for scans and writes: memory
// policy, optional locking, custom-chunk callbacks and the error reporter
// invoked on unrecoverable configuration errors. A Context is immutable
// for the duration of any scan or write it parents; mutate it only between
// operations.
type Context struct {
	// Alloc is an optional allocation hook; nil uses Go's own allocator.
	Alloc Allocator
	// Lock is an optional locking hook; nil means no locking is performed.
	Lock LockHooks
	// CustomChunks maps a custom chunk type code (5..255) to its handler.
	// Indices 0..4 are reserved for the built-in chunk types and are
	// never consulted.
	CustomChunks [256]CustomChunkFunc
	// ErrorReporter handles configuration errors: errors that by policy
	// are fatal rather than logged. In this package it is invoked when an
	// Allocator hook returns a slice of the wrong length; adapter
	// direction errors are returned by xio as ErrWrongDirection instead.
	// The default writes to os.Stderr and panics; it is expected never to
	// return.
	ErrorReporter func(msg string)
	// BlocksFixed, when non-zero, selects the fixed-arena memory layout
	// and bounds the archive to this many 4-byte chunks total.
	BlocksFixed uint32
	// EntriesFixed bounds the entry table size in fixed-arena mode.
	// Defaulted to 800 by ApplyDefaults when BlocksFixed is set and this
	// is left zero.
	EntriesFixed uint32
	// CustomLimit is the hard cap, in bytes, on a single custom chunk's
	// declared payload. Defaulted to 4096 by ApplyDefaults.
	CustomLimit uint32

	bytesAllocated uint64
}

const defaultEntriesFixed = 800
const defaultCustomLimit = 4096

// ApplyDefaults fills zero-valued fields with their documented defaults.
// Call it once after constructing a Context by hand; NewContext already
// does this.
func (c *Context) ApplyDefaults() {
	if c.BlocksFixed != 0 && c.EntriesFixed == 0 {
		c.EntriesFixed = defaultEntriesFixed
	}
	if c.CustomLimit == 0 {
		c.CustomLimit = defaultCustomLimit
	}
	if c.ErrorReporter == nil {
		c.ErrorReporter = defaultErrorReporter
	}
}

// Verify checks the Context for internally-consistent settings. Zero
// values are not rejected here; ApplyDefaults is expected to have already
// run.
func (c *Context) Verify() error {
	if c.EntriesFixed != 0 && c.BlocksFixed == 0 {
		return newError("EntriesFixed set without BlocksFixed")
	}
	return nil
}

// NewContext creates a Context with defaults applied, ready for dynamic
// (non-arena) use.
func NewContext() *Context {
	c := &Context{}
	c.ApplyDefaults()
	return c
}

// NewFixedContext creates a Context configured for the fixed-arena memory
// layout. entries of 0 selects the default of 800.
func NewFixedContext(blocks, entries uint32) *Context {
	c := &Context{BlocksFixed: blocks, EntriesFixed: entries}
	c.ApplyDefaults()
	return c
}

func defaultErrorReporter(msg string) {
	os.Stderr.WriteString("lzz: " + msg + "\n")
	panic(msg)
}

// reportError invokes the Context's error reporter, applying defaults
// first if the Context was constructed by hand without ApplyDefaults.
func (c *Context) reportError(msg string) {
	if c.ErrorReporter == nil {
		defaultErrorReporter(msg)
		return
	}
	c.ErrorReporter(msg)
}

// addBytesAllocated accumulates the observability counter. newSize is the
// size of the allocation just made; oldSize (0 for a fresh allocation) is
// subtracted first so growth accounting stays coherent across
// reallocations.
func (c *Context) addBytesAllocated(oldSize, newSize int) {
	if newSize > oldSize {
		c.bytesAllocated += uint64(newSize - oldSize)
	}
}

// BytesAllocated returns the running total of bytes this Context's
// archives have grown by. It is for observability only.
func (c *Context) BytesAllocated() uint64 { return c.bytesAllocated }

// lockFor returns the Mutex produced by the Context's NewMutex hook, or nil
// if locking is disabled.
func (c *Context) lockFor() Mutex {
	if c.Lock.NewMutex == nil {
		return nil
	}
	return c.Lock.NewMutex()
}

// withLock runs fn while holding a freshly created per-call mutex, if the
// Context has lock hooks installed. Archives do not retain the mutex
// between calls: each Scan/Write acquires and releases it once.
func (c *Context) withLock(fn func() error) error {
	m := c.lockFor()
	if m == nil {
		return fn()
	}
	m.Lock()
	defer m.Unlock()
	return fn()
}
