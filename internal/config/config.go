package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration, shared by all binaries.
type Config struct {
	// Capture loop
	LogDir   string
	Interval time.Duration
	SensorID string

	// Remote realtime store (Firebase RTDB style)
	FirebaseURL     string
	FirebaseEnabled bool
	BatchSize       int

	// Dashboard server
	Port         string
	WindowHours  int
	AllowOrigins []string

	// Optional InfluxDB mirror
	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	// Hardware
	I2CBus         string
	MHZ19Device    string
	DisplayEnabled bool

	// Derived-value knobs
	SeaLevelHPa   float64
	AssumedRH     float64
	CO2MockOnFail bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads the configuration from environment variables.
func Load() (Config, error) {
	// load env variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		LogDir:          getEnv("AIRSTATION_LOG_DIR", "logs"),
		Interval:        getEnvDuration("AIRSTATION_INTERVAL", 30*time.Second),
		SensorID:        getEnv("AIRSTATION_SENSOR_ID", "airstation"),
		FirebaseURL:     getEnv("FIREBASE_URL", ""),
		FirebaseEnabled: getEnvBool("FIREBASE_ENABLED", true),
		BatchSize:       getEnvInt("BACKFILL_BATCH_SIZE", 500),
		Port:            getEnv("DASHBOARD_PORT", "8888"),
		WindowHours:     getEnvInt("DASHBOARD_WINDOW_HOURS", 24),
		AllowOrigins:    []string{getEnv("DASHBOARD_ALLOW_ORIGIN", "*")},
		InfluxDBURL:     getEnv("INFLUXDB_URL", ""),
		InfluxDBToken:   getEnv("INFLUXDB_TOKEN", ""),
		InfluxDBOrg:     getEnv("INFLUXDB_ORG", ""),
		InfluxDBBucket:  getEnv("INFLUXDB_BUCKET", "airstation"),
		I2CBus:          getEnv("I2C_BUS", ""),
		MHZ19Device:     getEnv("MHZ19_DEVICE", "/dev/serial0"),
		DisplayEnabled:  getEnvBool("DISPLAY_ENABLED", true),
		SeaLevelHPa:     getEnvFloat("SEA_LEVEL_HPA", 1013.25),
		AssumedRH:       getEnvFloat("ASSUMED_RH", 50),
		CO2MockOnFail:   getEnvBool("CO2_MOCK_ON_FAIL", true),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
	}
	return cfg, nil
}

// FirebasePushEnabled reports whether readings should be pushed to the remote store.
func (c Config) FirebasePushEnabled() bool {
	return c.FirebaseEnabled && c.FirebaseURL != ""
}

// InfluxEnabled reports whether the optional InfluxDB mirror is configured.
func (c Config) InfluxEnabled() bool {
	return c.InfluxDBURL != "" && c.InfluxDBToken != "" && c.InfluxDBOrg != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid %s=%q, using default %g", key, v, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Invalid %s=%q, using default %t", key, v, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		// plain seconds also accepted, matching the old interval constant
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
	}
	return fallback
}
