package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// syslog severities used by GELF
const (
	gelfLevelError = 3
	gelfLevelWarn  = 4
	gelfLevelInfo  = 6
	gelfLevelDebug = 7
)

// GelfHandler ships log records to a Graylog server over GELF/UDP.
type GelfHandler struct {
	writer *gelf.Writer
	level  slog.Level
	host   string
	attrs  []slog.Attr
}

// NewGelfHandler connects to the given graylog address ("host:port").
func NewGelfHandler(address, level string) (*GelfHandler, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, err
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "redlight-camera"
	}
	return &GelfHandler{
		writer: w,
		level:  parseLevel(level),
		host:   hostname,
	}, nil
}

// Enabled reports whether the handler accepts records at the given level.
func (h *GelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle ships one record. Attributes become GELF extra fields.
func (h *GelfHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		extra["_"+a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		extra["_"+a.Key] = a.Value.String()
		return true
	})

	var lvl int32
	switch {
	case r.Level >= slog.LevelError:
		lvl = gelfLevelError
	case r.Level >= slog.LevelWarn:
		lvl = gelfLevelWarn
	case r.Level >= slog.LevelInfo:
		lvl = gelfLevelInfo
	default:
		lvl = gelfLevelDebug
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return h.writer.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    lvl,
		Extra:    extra,
	})
}

// WithAttrs returns a handler that includes attrs on every record.
func (h *GelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup returns the handler unchanged; GELF extras are flat.
func (h *GelfHandler) WithGroup(string) slog.Handler {
	return h
}
