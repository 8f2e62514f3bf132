package lzz

// Entry-table growth constants (dynamic mode): start at 32 slots, double
// until 1024, then grow linearly by 1024.
const (
	initialEntrySlots  = 32
	entryGrowDoubleCap = 1024
	entryGrowStep      = 1024
)

// FetchFunc lazily supplies an entry's data payload at write time: a
// caller building an archive through AddEntry/AddFolder need not hold
// every entry's bytes in memory at once, only produce them on demand as
// the Writer walks the entry table.
type FetchFunc func(e *Entry) ([]byte, error)

// Archive holds the entry table, running scan state and error log for one
// parse or one in-progress construction. Its zero value is not ready for
// use; construct one with NewArchive or NewFixedArchive.
type Archive struct {
	ctx *Context

	// Entries holds every entry in stream order, including entry 0 (the
	// archive-wide metadata entry).
	Entries []*Entry

	entryByUID map[uint32]*Entry

	// Errors accumulates non-fatal diagnostics from the most recent scan.
	Errors ErrorLog

	// Format records how the bytes that produced this archive were
	// wrapped (FormatRaw or FormatLZ4), or FormatUnknown before a scan.
	Format Format

	// Flags records the ScanFlags the most recent scan ran with.
	Flags ScanFlags

	// HashState is the running ELF/PJW hash carried across every chunk
	// scanned so far.
	HashState uint32

	// BytesScanned is the stream position reached so far, used for
	// error-log offsets.
	BytesScanned uint64

	fixed        bool
	entriesFixed uint32
	blocksFixed  uint32
	chunksUsed   uint32 // only meaningful when fixed

	fetch FetchFunc
}

// NewArchive creates an empty Archive backed by dynamically growing
// storage, parented to ctx. A nil ctx is replaced with NewContext()'s
// defaults.
func NewArchive(ctx *Context) *Archive {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Archive{
		ctx:        ctx,
		Entries:    make([]*Entry, 0, initialEntrySlots),
		entryByUID: make(map[uint32]*Entry),
	}
}

// NewFixedArchive creates an empty Archive with a fixed budget:
// blocksFixed total 4-byte chunks across all entries and entriesFixed
// table slots. Each entry still keeps its own chunk array; the chunk
// budget is counted across all of them.
// Exceeding either bound during a scan is a fatal structural error
// (ErrArenaOverflow / ErrTooManyEntries), never silent truncation.
func NewFixedArchive(ctx *Context, blocksFixed, entriesFixed uint32) *Archive {
	if ctx == nil {
		ctx = NewFixedContext(blocksFixed, entriesFixed)
	}
	if entriesFixed == 0 {
		entriesFixed = defaultEntriesFixed
	}
	return &Archive{
		ctx:          ctx,
		Entries:      make([]*Entry, 0, entriesFixed),
		entryByUID:   make(map[uint32]*Entry),
		fixed:        true,
		entriesFixed: entriesFixed,
		blocksFixed:  blocksFixed,
	}
}

// Context returns the Archive's parent Context.
func (a *Archive) Context() *Context { return a.ctx }

// newEntry allocates and registers the next entry, enforcing the
// dynamic/fixed growth policy for the entry table. id is the entry's
// 24-bit marker ID; the caller (the parser or the construction API) is
// responsible for ensuring ids are presented in strictly increasing order.
func (a *Archive) newEntry(id uint32) (*Entry, error) {
	if a.fixed {
		if uint32(len(a.Entries)) >= a.entriesFixed {
			return nil, ErrTooManyEntries
		}
	} else if len(a.Entries) == cap(a.Entries) {
		a.growEntryTable()
	}
	e := &Entry{ID: id, Tags: make(map[string]string)}
	a.Entries = append(a.Entries, e)
	return e, nil
}

// growEntryTable reallocates the entry table's backing array per the
// documented doubling-then-linear policy. Go's append would already grow
// the slice on its own, but doing this explicitly keeps the capacity
// sequence identical to the documented one, which callers may depend on
// when estimating memory use via Context.BytesAllocated.
func (a *Archive) growEntryTable() {
	cur := cap(a.Entries)
	if cur == 0 {
		cur = initialEntrySlots
	} else if cur < entryGrowDoubleCap {
		cur *= 2
	} else {
		cur += entryGrowStep
	}
	grown := make([]*Entry, len(a.Entries), cur)
	copy(grown, a.Entries)
	a.ctx.addBytesAllocated(0, cur*int(chunkLen)) // approximate accounting
	a.Entries = grown
}

// Entry0 returns the archive-wide metadata entry, or nil if the archive is
// empty.
func (a *Archive) Entry0() *Entry {
	if len(a.Entries) == 0 {
		return nil
	}
	return a.Entries[0]
}

// ReadEntries returns every content entry (excluding entry 0).
func (a *Archive) ReadEntries() []*Entry {
	if len(a.Entries) <= 1 {
		return nil
	}
	out := make([]*Entry, len(a.Entries)-1)
	copy(out, a.Entries[1:])
	return out
}

// ReadEntriesWithTag returns every content entry whose Tags map has name
// set to exactly value.
func (a *Archive) ReadEntriesWithTag(name, value string) []*Entry {
	return a.ReadEntriesFilter(func(e *Entry) bool {
		v, ok := e.Tags[name]
		return ok && v == value
	})
}

// ReadEntriesFilter returns every content entry (excluding entry 0) for
// which pred returns true.
func (a *Archive) ReadEntriesFilter(pred func(*Entry) bool) []*Entry {
	start := 1
	if len(a.Entries) < start {
		start = len(a.Entries)
	}
	var out []*Entry
	for _, e := range a.Entries[start:] {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// EntryByUID looks up an entry by its decoded UID NUMBER tag.
func (a *Archive) EntryByUID(uid uint32) (*Entry, bool) {
	e, ok := a.entryByUID[uid]
	return e, ok
}

// registerUID indexes e by its UID, once known, for later inherit
// resolution and EntryByUID lookups.
func (a *Archive) registerUID(e *Entry) {
	if e.HasUID {
		a.entryByUID[e.UID] = e
	}
}

// resolveInherits walks every entry with an INHERIT UID NUMBER info chunk
// and merges the tags of the entry it names into its own Tags map,
// without overwriting any tag the entry already set explicitly.
//
// This is a lookup-by-UID performed once the whole stream has been
// scanned, so forward references resolve correctly. A missing or
// self-referential target is a logged warning, not a fatal error: neither
// case prevents the rest of the archive from being usable.
func (a *Archive) resolveInherits() {
	for _, e := range a.Entries {
		if !e.HasInherit {
			continue
		}
		if e.HasUID && e.InheritUID == e.UID {
			a.Errors.Append(a.BytesScanned, newErrorf(
				"entry %d inherits from its own UID %d, ignored", e.ID, e.UID))
			continue
		}
		src, ok := a.entryByUID[e.InheritUID]
		if !ok {
			a.Errors.Append(a.BytesScanned, newErrorf(
				"entry %d inherits from unknown UID %d, ignored", e.ID, e.InheritUID))
			continue
		}
		for k, v := range src.Tags {
			if _, have := e.Tags[k]; !have {
				e.Tags[k] = v
			}
		}
		if e.Title == "" {
			e.Title = src.Title
		}
	}
}

// AddEntry appends a new content entry under construction, to be written
// out by a Writer. title becomes the entry's "title" tag.
func (a *Archive) AddEntry(title string) (*Entry, error) {
	id := uint32(len(a.Entries))
	e, err := a.newEntry(id)
	if err != nil {
		return nil, err
	}
	e.Title = title
	e.Tags["title"] = title
	return e, nil
}

// AddFolder appends a new folder entry: one that by construction carries
// no Data chunk (Extension reads "nodata" once written).
func (a *Archive) AddFolder(title string) (*Entry, error) {
	e, err := a.AddEntry(title)
	if err != nil {
		return nil, err
	}
	e.IsFolder = true
	e.Extension = "nodata"
	return e, nil
}

// SetFetcher installs the callback a Writer uses to obtain each entry's
// data payload lazily, rather than requiring it preloaded on the Entry
// itself. Entries whose Data field is already populated are written
// as-is without consulting the fetcher.
func (a *Archive) SetFetcher(fn FetchFunc) { a.fetch = fn }

// fetchData returns e's data payload, preferring an already-populated
// Data field and falling back to the installed FetchFunc.
func (a *Archive) fetchData(e *Entry) ([]byte, error) {
	if e.Data != nil {
		return e.Data, nil
	}
	if a.fetch == nil {
		return nil, nil
	}
	return a.fetch(e)
}
