package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/redlightcam/extension/internal/placement"
)

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./redlightcam_logs")

	viper.SetDefault("camera.distanceForward", 25.0)
	viper.SetDefault("camera.heightAbove", 4.0)
	viper.SetDefault("camera.fov", 70.0)

	viper.SetDefault("journal.enabled", true)
	viper.SetDefault("journal.flushInterval", "2s")
	viper.SetDefault("journal.db.host", "localhost")
	viper.SetDefault("journal.db.port", "5432")
	viper.SetDefault("journal.db.username", "postgres")
	viper.SetDefault("journal.db.password", "postgres")
	viper.SetDefault("journal.db.database", "redlightcam")
	viper.SetDefault("journal.sqlitePath", "./redlightcam.db")

	viper.SetDefault("geo.anchorEasting", 0.0)
	viper.SetDefault("geo.anchorNorthing", 6650000.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "redlightcam-metrics")
	viper.SetDefault("influx.bucket", "captures")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "redlight-camera")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetConfigName("redlight_camera.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Placement returns a fresh snapshot of the camera placement settings.
// Callers must not cache the result: settings can change between frames
// and the solver is required to see the latest values on every call.
func Placement() placement.Settings {
	return placement.Settings{
		DistanceForward: viper.GetFloat64("camera.distanceForward"),
		HeightAbove:     viper.GetFloat64("camera.heightAbove"),
		FieldOfView:     viper.GetFloat64("camera.fov"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetFloat returns a float config value, falling back to def when unset.
func GetFloat(key string, def float64) float64 {
	if !viper.IsSet(key) {
		return def
	}
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a config value at runtime. The host's settings UI calls
// this through the setting-change notification path.
func Set(key string, value any) {
	viper.Set(key, value)
}
