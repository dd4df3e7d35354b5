package journal

import (
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redlightcam/extension/internal/geo"
)

func testCapture(t *testing.T) Capture {
	t.Helper()

	anchor := geo.Anchor{Northing: 6650000}
	lat, lon := anchor.LatLon(1000, 2000)

	fields, err := json.Marshal(map[string]string{"offence": "red_signal"})
	require.NoError(t, err)

	return Capture{
		Offence:        "red_signal",
		WorldX:         1000,
		WorldY:         50,
		WorldZ:         2000,
		Position:       anchor.MercatorPoint(1000, 50, 2000),
		Latitude:       lat,
		Longitude:      lon,
		SimTime:        123456789,
		Command:        "screenshot red_light_X1000_Y50_Z2000_T123456789",
		OriginalCamera: "interior",
		EventFields:    fields,
		CapturedAt:     time.Now(),
	}
}

func TestMemoryBackend_RecordAndCount(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Init())
	defer b.Close()

	c := testCapture(t)
	require.NoError(t, b.RecordCapture(&c))

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored := b.Captures()
	require.Len(t, stored, 1)
	assert.Equal(t, "red_signal", stored[0].Offence)
	assert.Equal(t, uint(1), stored[0].ID)
}

func TestGormBackend_SqliteRoundTrip(t *testing.T) {
	b := NewGormBackend(zerolog.Nop(), filepath.Join(t.TempDir(), "journal.db"))
	// Point directly at SQLite; no Postgres in tests.
	db, err := b.openSqlite()
	require.NoError(t, err)
	b.DB = db
	require.NoError(t, b.DB.AutoMigrate(DatabaseModels...))
	defer b.Close()

	c := testCapture(t)
	require.NoError(t, b.RecordCapture(&c))
	require.NotZero(t, c.ID)

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var loaded Capture
	require.NoError(t, b.DB.First(&loaded, c.ID).Error)
	assert.Equal(t, c.Command, loaded.Command)
	assert.Equal(t, c.SimTime, loaded.SimTime)
	assert.InDelta(t, c.Latitude, loaded.Latitude, 1e-9)
}

func TestWriter_FlushDrainsQueue(t *testing.T) {
	b := NewMemoryBackend()
	w := NewWriter(b, time.Hour, slog.Default())

	w.Enqueue(testCapture(t))
	w.Enqueue(testCapture(t))
	assert.Equal(t, 2, w.QueueLen())

	w.Flush()

	assert.Equal(t, 0, w.QueueLen())
	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Greater(t, w.LastWriteDuration(), time.Duration(0))
}

func TestWriter_StopFlushesRemaining(t *testing.T) {
	b := NewMemoryBackend()
	w := NewWriter(b, time.Hour, slog.Default())
	w.Start()

	w.Enqueue(testCapture(t))
	w.Stop()

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
