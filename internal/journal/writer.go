package journal

import (
	"log/slog"
	"sync"
	"time"

	"github.com/redlightcam/extension/internal/queue"
)

// Writer drains queued captures into the backend on a flush interval, off
// the host's update thread. Enqueue never blocks, so the capture sequence
// pays nothing for journal I/O.
type Writer struct {
	backend       Backend
	queue         *queue.Queue[Capture]
	flushInterval time.Duration
	logger        *slog.Logger

	stop chan struct{}
	done chan struct{}

	mu        sync.RWMutex
	lastWrite time.Duration
}

// NewWriter creates a stopped writer.
func NewWriter(backend Backend, flushInterval time.Duration, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if flushInterval <= 0 {
		flushInterval = 2 * time.Second
	}
	return &Writer{
		backend:       backend,
		queue:         queue.New[Capture](),
		flushInterval: flushInterval,
		logger:        logger,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Enqueue queues one capture for the next flush.
func (w *Writer) Enqueue(c Capture) {
	w.queue.Push(c)
}

// QueueLen reports pending captures.
func (w *Writer) QueueLen() int {
	return w.queue.Len()
}

// LastWriteDuration reports how long the most recent flush took.
func (w *Writer) LastWriteDuration() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastWrite
}

// Start launches the flush loop.
func (w *Writer) Start() {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Flush()
			case <-w.stop:
				w.Flush()
				return
			}
		}
	}()
}

// Stop flushes outstanding captures and stops the loop.
func (w *Writer) Stop() {
	close(w.stop)
	<-w.done
}

// Flush writes everything currently queued.
func (w *Writer) Flush() {
	pending := w.queue.GetAndEmpty()
	if len(pending) == 0 {
		return
	}

	start := time.Now()
	for i := range pending {
		if err := w.backend.RecordCapture(&pending[i]); err != nil {
			w.logger.Error("failed to record capture", "error", err, "command", pending[i].Command)
		}
	}
	elapsed := time.Since(start)

	w.mu.Lock()
	w.lastWrite = elapsed
	w.mu.Unlock()

	w.logger.Debug("journal flush complete", "captures", len(pending), "duration", elapsed)
}
