package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/redlightcam/extension/internal/journal"
)

// Manager publishes capture metrics to InfluxDB. Writes go through the
// non-blocking WriteAPI, so a slow or absent server never stalls the
// update loop.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	IsValid bool
	Bucket  string
	Logger  zerolog.Logger
}

// NewManager creates an unconnected manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect establishes a connection to InfluxDB.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Bucket = viper.GetString("influx.bucket")

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(context.Background())
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Msg("InfluxDB unreachable, capture metrics disabled")
		return fmt.Errorf("influx ping failed: %v", err)
	}
	m.IsValid = true

	m.Writer = m.Client.WriteAPI(viper.GetString("influx.org"), m.Bucket)

	errorsCh := m.Writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}()

	m.Logger.Info().Msg("InfluxDB client initialized")
	return nil
}

// PublishCapture writes one capture measurement.
func (m *Manager) PublishCapture(c journal.Capture) {
	if !m.IsValid {
		return
	}
	p := influxdb2.NewPoint(
		"capture",
		map[string]string{
			"offence": c.Offence,
			"camera":  c.OriginalCamera,
		},
		map[string]interface{}{
			"worldX":  c.WorldX,
			"worldY":  c.WorldY,
			"worldZ":  c.WorldZ,
			"simTime": int64(c.SimTime),
		},
		time.Now(),
	)
	m.Writer.WritePoint(p)
}

// Close flushes and shuts down the client.
func (m *Manager) Close() {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
}
