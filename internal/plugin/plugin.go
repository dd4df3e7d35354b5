// Package plugin wires the capture pipeline together and adapts it to the
// host lifecycle: init, per-frame tick, draw, event delivery, setting
// changes and shutdown.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redlightcam/extension/internal/api"
	"github.com/redlightcam/extension/internal/config"
	"github.com/redlightcam/extension/internal/dispatcher"
	"github.com/redlightcam/extension/internal/geo"
	"github.com/redlightcam/extension/internal/influx"
	"github.com/redlightcam/extension/internal/journal"
	"github.com/redlightcam/extension/internal/logging"
	intOtel "github.com/redlightcam/extension/internal/otel"
	"github.com/redlightcam/extension/internal/overlay"
	"github.com/redlightcam/extension/internal/sequence"
	"github.com/redlightcam/extension/internal/sim"
	"github.com/redlightcam/extension/internal/status"
	"github.com/redlightcam/extension/internal/trigger"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentExtensionVersion string = "0.0.1"
	BuildDate               string = "unknown"

	ExtensionName string = "redlight_camera"
)

// Ports bundles the host surfaces the plugin drives. All four are
// required.
type Ports struct {
	Camera    sim.CameraPort
	Telemetry sim.TelemetryPort
	Console   sim.ConsolePort
	Overlay   sim.OverlayPort
}

// Options configures a Plugin before Init.
type Options struct {
	// ConfigDir is where redlight_camera.cfg.json is searched for and
	// where logs and the fallback SQLite journal are created. Defaults
	// to the working directory.
	ConfigDir string

	Ports Ports
}

// Plugin is the composition root. Create one with New, then drive it
// through the lifecycle hooks from the host thread.
type Plugin struct {
	opts Options

	slogManager  *logging.SlogManager
	logger       *slog.Logger
	zlog         zerolog.Logger
	logFile      *os.File
	otelProvider *intOtel.Provider

	eventDispatcher *dispatcher.Dispatcher
	controller      *sequence.Controller
	presenter       *overlay.Presenter

	journalBackend journal.Backend
	journalWriter  *journal.Writer
	influxManager  *influx.Manager
	apiClient      *api.Client
	statusService  *status.Service

	anchor geo.Anchor

	initialized bool
}

// New creates an unstarted Plugin. Call Init before any other hook.
func New(opts Options) *Plugin {
	if opts.ConfigDir == "" {
		opts.ConfigDir = "."
	}
	return &Plugin{opts: opts}
}

// Init loads configuration and brings up logging, telemetry export, the
// journal pipeline and the capture controller. It is safe to call once.
func (p *Plugin) Init() error {
	if p.initialized {
		return nil
	}
	if p.opts.Ports.Camera == nil || p.opts.Ports.Telemetry == nil || p.opts.Ports.Console == nil {
		return fmt.Errorf("camera, telemetry and console ports are required")
	}

	// Bootstrap logging to console until the session log file exists.
	p.slogManager = logging.NewSlogManager()
	p.slogManager.Setup(nil, "info", nil)
	p.logger = p.slogManager.Logger()

	if err := config.Load(p.opts.ConfigDir); err != nil {
		p.logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		p.logger.Info("Loaded config")
	}

	p.setupLogFile()
	p.setupOtel()
	p.setupHandlers()

	p.anchor = geo.Anchor{
		Easting:  config.GetFloat("geo.anchorEasting", 0),
		Northing: config.GetFloat("geo.anchorNorthing", 0),
	}

	// Re-setup logging with the file, extra handlers and OTel bridge.
	p.slogManager.Setup(p.logWriter(), config.GetString("logLevel"), p.otelProvider.LoggerProvider())
	p.logger = p.slogManager.Logger()

	p.zlog = zerolog.New(p.logWriter()).With().Timestamp().Logger()

	if err := p.setupDispatcher(); err != nil {
		return err
	}
	p.setupJournal()
	p.setupInflux()
	p.setupAPI()
	p.setupSequence()
	p.setupStatus()

	p.initialized = true
	p.logger.Info("Extension initialized",
		"name", ExtensionName,
		"version", CurrentExtensionVersion,
		"buildDate", BuildDate,
	)
	return nil
}

// logWriter returns the session log file, or nil before it is open.
func (p *Plugin) logWriter() io.Writer {
	if p.logFile == nil {
		return nil
	}
	return p.logFile
}

func (p *Plugin) setupLogFile() {
	logsDir := config.GetString("logsDir")
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(p.opts.ConfigDir, logsDir)
	}
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	path := logging.LogFilePath(logsDir, ExtensionName, time.Now())
	if _, err := os.Stat(path); err == nil {
		os.Rename(path, path+".old")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		p.logger.Error("Failed to create/open log file!", "error", err, "path", path)
		return
	}
	p.logFile = f
	p.logger.Info("Begin logging in logs directory", "path", path)
}

func (p *Plugin) setupOtel() {
	cfg := intOtel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  config.GetString("otel.serviceName"),
		BatchTimeout: 5 * time.Second,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	}
	if p.logFile != nil {
		cfg.LogWriter = p.logFile
	}

	provider, err := intOtel.New(cfg)
	if err != nil {
		p.logger.Error("Failed to initialize OTel provider", "error", err)
		provider, _ = intOtel.New(intOtel.Config{})
	}
	p.otelProvider = provider
	if provider.Enabled() {
		p.logger.Info("OTel provider initialized", "endpoint", cfg.Endpoint)
	}
}

// setupHandlers registers the Graylog handler, wrapped so every record
// carries the live sequence state.
func (p *Plugin) setupHandlers() {
	if !config.GetBool("graylog.enabled") {
		return
	}
	gelfHandler, err := logging.NewGelfHandler(
		config.GetString("graylog.address"),
		config.GetString("logLevel"),
	)
	if err != nil {
		p.logger.Error("Failed to connect Graylog handler", "error", err)
		return
	}
	p.slogManager.AddHandler(logging.NewContextHandler(gelfHandler, func() []slog.Attr {
		if p.controller == nil {
			return nil
		}
		return []slog.Attr{
			slog.Bool("sequenceActive", p.controller.Active()),
			slog.Int("frameCounter", p.controller.FrameCounter()),
		}
	}))
	p.logger.Info("Graylog handler registered", "address", config.GetString("graylog.address"))
}

func (p *Plugin) setupDispatcher() error {
	d, err := dispatcher.New(logging.NewDispatcherLogger(p.zlog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	p.eventDispatcher = d
	return nil
}

func (p *Plugin) setupJournal() {
	if !config.GetBool("journal.enabled") {
		p.journalBackend = journal.NewMemoryBackend()
		p.journalBackend.Init()
		p.logger.Info("Journal disabled, using in-memory backend")
	} else {
		sqlitePath := config.GetString("journal.sqlitePath")
		if !filepath.IsAbs(sqlitePath) {
			sqlitePath = filepath.Join(p.opts.ConfigDir, sqlitePath)
		}
		backend := journal.NewGormBackend(p.zlog, sqlitePath)
		if err := backend.Init(); err != nil {
			p.logger.Error("Failed to initialize journal backend", "error", err)
			p.journalBackend = journal.NewMemoryBackend()
			p.journalBackend.Init()
		} else {
			p.journalBackend = backend
		}
	}

	flushInterval, err := time.ParseDuration(config.GetString("journal.flushInterval"))
	if err != nil {
		flushInterval = 2 * time.Second
	}
	p.journalWriter = journal.NewWriter(p.journalBackend, flushInterval, p.logger)
	p.journalWriter.Start()
}

func (p *Plugin) setupInflux() {
	if !config.GetBool("influx.enabled") {
		return
	}
	p.influxManager = influx.NewManager(p.zlog)
	if err := p.influxManager.Connect(); err != nil {
		p.logger.Error("Failed to connect to InfluxDB", "error", err)
		p.influxManager = nil
	}
}

func (p *Plugin) setupAPI() {
	if !config.GetBool("api.enabled") {
		return
	}
	p.apiClient = api.New(
		config.GetString("api.serverUrl"),
		config.GetString("api.apiKey"),
	)
	if err := p.apiClient.Healthcheck(); err != nil {
		p.logger.Info("Evidence review frontend is offline", "error", err)
	} else {
		p.logger.Info("Evidence review frontend is online")
	}
}

func (p *Plugin) setupSequence() {
	p.controller = sequence.NewController(sequence.Dependencies{
		Camera:    p.opts.Ports.Camera,
		Telemetry: p.opts.Ports.Telemetry,
		Console:   p.opts.Ports.Console,
		Settings:  config.Placement,
		Logger:    p.logger,
		Overlay:   p.overlayVisibility(),
		OnCapture: p.recordCapture,
	})

	t := trigger.New(p.controller)
	p.eventDispatcher.Register(trigger.EventFined, func(ev sim.GameplayEvent) (any, error) {
		t.HandleEvent(ev)
		return nil, nil
	}, dispatcher.Logged())
}

// controllerAlpha reads flash state off the controller lazily so the
// presenter can be built before the controller exists.
type controllerAlpha struct {
	p *Plugin
}

func (a controllerAlpha) Active() bool {
	return a.p.controller != nil && a.p.controller.Active()
}

func (a controllerAlpha) FlashAlpha() float32 {
	if a.p.controller == nil {
		return 0
	}
	return a.p.controller.FlashAlpha()
}

func (p *Plugin) overlayVisibility() sequence.Visibility {
	if p.opts.Ports.Overlay == nil {
		return nil
	}
	p.presenter = overlay.New(p.opts.Ports.Overlay, controllerAlpha{p: p})
	return p.presenter
}

func (p *Plugin) setupStatus() {
	p.statusService = status.NewService(status.Dependencies{
		Sequence:     p.controller,
		Journal:      p.journalWriter,
		CaptureCount: p.journalBackend.Count,
		LogManager:   p.slogManager,
		StatusDir:    p.opts.ConfigDir,
	})
	p.statusService.Start()

	// hosts can poll extension state through the event surface
	p.eventDispatcher.Register("status", func(sim.GameplayEvent) (any, error) {
		_, snapshot := p.statusService.GetStatus()
		return snapshot, nil
	})
}

// recordCapture fans a completed capture out to the journal, InfluxDB and
// the evidence review frontend. Called from the frame thread so only
// fire-and-forget work happens here.
func (p *Plugin) recordCapture(c sequence.Capture) {
	lat, lon := p.anchor.LatLon(c.Position.X, c.Position.Z)

	record := journal.Capture{
		Offence:        trigger.OffenceRedSignal,
		WorldX:         c.Position.X,
		WorldY:         c.Position.Y,
		WorldZ:         c.Position.Z,
		Position:       p.anchor.MercatorPoint(c.Position.X, c.Position.Y, c.Position.Z),
		Latitude:       lat,
		Longitude:      lon,
		SimTime:        c.SimTime,
		Command:        c.Command,
		OriginalCamera: c.OriginalCamera.String(),
		CapturedAt:     time.Now(),
	}
	if fields, err := json.Marshal(c.Event.Fields); err == nil {
		record.EventFields = datatypes.JSON(fields)
	}

	p.journalWriter.Enqueue(record)

	if p.influxManager != nil {
		p.influxManager.PublishCapture(record)
	}
	if p.apiClient != nil {
		go func() {
			if err := p.apiClient.UploadCapture(record); err != nil {
				p.logger.Warn("Failed to upload capture", "error", err)
			}
		}()
	}
}

// Frame advances the capture sequence by one simulation frame.
func (p *Plugin) Frame() {
	if !p.initialized {
		return
	}
	p.controller.Tick()
}

// Draw renders the overlay flash for the current frame.
func (p *Plugin) Draw() {
	if p.presenter != nil {
		p.presenter.Draw()
	}
}

// Event delivers a gameplay event from the host.
func (p *Plugin) Event(ev sim.GameplayEvent) {
	if !p.initialized {
		return
	}
	if !p.eventDispatcher.HasHandler(ev.ID) {
		return
	}
	if _, err := p.eventDispatcher.Dispatch(ev); err != nil {
		p.slogManager.WriteLog("onEvent", fmt.Sprintf("Dispatch failed for %s: %v", ev.ID, err), "ERROR")
	}
}

// SettingChanged applies a runtime setting change. Camera settings take
// effect immediately: when the free camera is live its placement is
// recomputed from the current vehicle pose so the change previews without
// waiting for the next capture.
func (p *Plugin) SettingChanged(key string, value any) {
	if !p.initialized {
		return
	}
	config.Set(key, value)
	p.slogManager.WriteLog("onSettingChanged", fmt.Sprintf("%s = %v", key, value), "INFO")

	if !p.controller.Active() {
		return
	}
	if current, ok := p.opts.Ports.Camera.CurrentType(); !ok || current != sim.CameraFree {
		return
	}
	pose, ok := p.opts.Ports.Telemetry.VehiclePose()
	if !ok {
		return
	}
	if err := p.controller.Preview(pose); err != nil {
		p.logger.Warn("Failed to apply setting preview", "error", err)
	}
}

// Dispatcher exposes the event dispatcher for host-side command
// registration.
func (p *Plugin) Dispatcher() *dispatcher.Dispatcher {
	return p.eventDispatcher
}

// Status returns a point-in-time snapshot of the extension state.
func (p *Plugin) Status() (status.Snapshot, error) {
	if !p.initialized {
		return status.Snapshot{}, fmt.Errorf("not initialized")
	}
	_, snapshot := p.statusService.GetStatus()
	return snapshot, nil
}

// Shutdown flushes and tears down all services. The plugin cannot be
// reused afterwards.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if !p.initialized {
		return nil
	}
	p.initialized = false

	p.statusService.Stop()
	p.journalWriter.Stop()

	if p.influxManager != nil {
		p.influxManager.Close()
	}
	if err := p.journalBackend.Close(); err != nil {
		p.logger.Error("Failed to close journal backend", "error", err)
	}

	p.slogManager.Flush(ctx)
	if err := p.otelProvider.Shutdown(ctx); err != nil {
		p.logger.Error("Failed to shut down OTel provider", "error", err)
	}

	p.logger.Info("Extension shut down")
	if p.logFile != nil {
		p.logFile.Close()
	}
	return nil
}
