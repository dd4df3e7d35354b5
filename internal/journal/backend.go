package journal

// Backend is the interface all journal storage implementations satisfy.
type Backend interface {
	Init() error
	Close() error

	// RecordCapture persists one evidence record.
	RecordCapture(c *Capture) error

	// Count reports how many captures have been recorded this session.
	Count() (int64, error)
}
