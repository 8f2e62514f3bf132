package lzz

import "fmt"

// errLogSlots is the fixed number of diagnostic slots carried in every
// Archive.
const errLogSlots = 15

// errLogSlotLen is the maximum encoded length of a single diagnostic
// message.
const errLogSlotLen = 127

// ErrorLog is a bounded ring of formatted diagnostic strings attached to
// every Archive. It never allocates past its fixed capacity: Append
// silently refuses once full rather than evicting older entries, so a
// pathological stream cannot make error reporting itself unbounded.
type ErrorLog struct {
	messages []string // len() <= errLogSlots
}

// Append records a diagnostic at the given byte offset. It returns false,
// without modifying the log, once errLogSlots messages have already been
// recorded.
func (e *ErrorLog) Append(pos uint64, err error) bool {
	if len(e.messages) >= errLogSlots {
		return false
	}
	msg := fmt.Sprintf("[%08x] %s", pos, err.Error())
	if len(msg) > errLogSlotLen {
		msg = msg[:errLogSlotLen]
	}
	e.messages = append(e.messages, msg)
	return true
}

// Len reports how many diagnostics have been recorded.
func (e *ErrorLog) Len() int { return len(e.messages) }

// At returns the message at the given index (0-based, oldest first). It
// panics if idx is out of range, the same contract as slice indexing.
func (e *ErrorLog) At(idx int) string { return e.messages[idx] }

// Messages returns the recorded diagnostics in order. The returned slice
// is a copy; mutating it does not affect the log.
func (e *ErrorLog) Messages() []string {
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}
