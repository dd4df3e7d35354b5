package status

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redlightcam/extension/internal/logging"
)

// SequenceState exposes the live capture sequence state.
type SequenceState interface {
	Active() bool
	FrameCounter() int
}

// JournalState exposes the journal write pipeline state.
type JournalState interface {
	QueueLen() int
	LastWriteDuration() time.Duration
}

// Dependencies holds all dependencies for the status service
type Dependencies struct {
	Sequence     SequenceState
	Journal      JournalState
	CaptureCount func() (int64, error)
	LogManager   *logging.SlogManager
	StatusDir    string
}

// Snapshot is a point-in-time view of the extension state.
type Snapshot struct {
	Time                time.Time `json:"time"`
	SequenceActive      bool      `json:"sequenceActive"`
	FrameCounter        int       `json:"frameCounter"`
	JournalQueueLength  int       `json:"journalQueueLength"`
	CaptureCount        int64     `json:"captureCount"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new status service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current extension status, rendered as JSON lines
// alongside the snapshot itself.
func (s *Service) GetStatus() (output []string, snapshot Snapshot) {
	snapshot = Snapshot{
		Time:           time.Now(),
		SequenceActive: s.deps.Sequence.Active(),
		FrameCounter:   s.deps.Sequence.FrameCounter(),
	}

	if s.deps.Journal != nil {
		snapshot.JournalQueueLength = s.deps.Journal.QueueLen()
		snapshot.LastWriteDurationMs = float32(s.deps.Journal.LastWriteDuration().Milliseconds())
	}
	if s.deps.CaptureCount != nil {
		count, err := s.deps.CaptureCount()
		if err == nil {
			snapshot.CaptureCount = count
		}
	}

	statusStr, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		statusStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
	}
	output = append(output, string(statusStr))

	return output, snapshot
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "startStatusMonitor")

		statusFile, err := os.Create(s.deps.StatusDir + "/status.txt")
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(1000 * time.Millisecond)

				statusStr, _ := s.GetStatus()

				if statusFile != nil {
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					for _, line := range statusStr {
						statusFile.WriteString(line + "\n")
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
