package journal

import "sync"

// MemoryBackend keeps captures in memory. It backs tests and the
// journal-disabled mode, where the status service still wants a count.
type MemoryBackend struct {
	mu       sync.Mutex
	captures []Capture
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Init is a no-op.
func (b *MemoryBackend) Init() error { return nil }

// Close is a no-op.
func (b *MemoryBackend) Close() error { return nil }

// RecordCapture appends the capture.
func (b *MemoryBackend) RecordCapture(c *Capture) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.ID = uint(len(b.captures) + 1)
	b.captures = append(b.captures, *c)
	return nil
}

// Count reports the number of stored captures.
func (b *MemoryBackend) Count() (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.captures)), nil
}

// Captures returns a copy of the stored records.
func (b *MemoryBackend) Captures() []Capture {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Capture, len(b.captures))
	copy(out, b.captures)
	return out
}
