package lzz

import "testing"

func TestScanFlagsPacking(t *testing.T) {
	f := FlagFull | FlagHalt
	if f.Depth() != Full {
		t.Fatalf("Depth() = %v, want Full", f.Depth())
	}
	if f.Modifier() != ModHalt {
		t.Fatalf("Modifier() = %v, want ModHalt", f.Modifier())
	}
}

func TestScanFlagsDefaultIsNormalNone(t *testing.T) {
	var f ScanFlags
	if f.Depth() != Normal {
		t.Fatalf("zero-value Depth() = %v, want Normal", f.Depth())
	}
	if f.Modifier() != ModNone {
		t.Fatalf("zero-value Modifier() = %v, want ModNone", f.Modifier())
	}
}

func TestContextApplyDefaults(t *testing.T) {
	c := &Context{BlocksFixed: 1000}
	c.ApplyDefaults()
	if c.EntriesFixed != defaultEntriesFixed {
		t.Fatalf("EntriesFixed = %d, want %d", c.EntriesFixed, defaultEntriesFixed)
	}
	if c.CustomLimit != defaultCustomLimit {
		t.Fatalf("CustomLimit = %d, want %d", c.CustomLimit, defaultCustomLimit)
	}
	if c.ErrorReporter == nil {
		t.Fatalf("ErrorReporter left nil after ApplyDefaults")
	}
}

func TestContextVerifyRejectsEntriesWithoutBlocks(t *testing.T) {
	c := &Context{EntriesFixed: 10}
	if err := c.Verify(); err == nil {
		t.Fatalf("Verify() accepted EntriesFixed without BlocksFixed")
	}
}

func TestContextBytesAllocatedAccumulates(t *testing.T) {
	c := NewContext()
	c.addBytesAllocated(0, 100)
	c.addBytesAllocated(100, 250)
	if got := c.BytesAllocated(); got != 250 {
		t.Fatalf("BytesAllocated() = %d, want 250", got)
	}
}

type fakeMutex struct{ locked bool }

func (m *fakeMutex) Lock()   { m.locked = true }
func (m *fakeMutex) Unlock() { m.locked = false }

func TestContextWithLockUsesHook(t *testing.T) {
	m := &fakeMutex{}
	c := NewContext()
	c.Lock.NewMutex = func() Mutex { return m }
	observed := false
	err := c.withLock(func() error {
		observed = m.locked
		return nil
	})
	if err != nil {
		t.Fatalf("withLock returned error: %v", err)
	}
	if !observed {
		t.Fatalf("fn ran without the hook's mutex held")
	}
	if m.locked {
		t.Fatalf("mutex left locked after withLock returned")
	}
}

func TestContextWithLockNoHookRunsDirectly(t *testing.T) {
	c := NewContext()
	ran := false
	if err := c.withLock(func() error { ran = true; return nil }); err != nil {
		t.Fatalf("withLock returned error: %v", err)
	}
	if !ran {
		t.Fatalf("fn never ran with no lock hook installed")
	}
}
