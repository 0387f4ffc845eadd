package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// AttendanceConfig holds the geofence and day-boundary configuration.
type AttendanceConfig struct {
	// Timezone names the zone whose midnight bounds a calendar day,
	// e.g. "Asia/Kolkata". Day keys are computed in this zone, never
	// from the ambient process clock.
	Timezone string `yaml:"timezone"`
	// GeofenceRadiusMeters is the containment radius around a site's
	// reference point.
	GeofenceRadiusMeters float64 `yaml:"geofence_radius_m"`
	// ConflictRetries bounds internal retries on concurrent updates to
	// the same user-day before the request fails.
	ConflictRetries int `yaml:"conflict_retries"`
	// ReferenceTTLSeconds bounds the in-process cache of site
	// reference points.
	ReferenceTTLSeconds int `yaml:"reference_ttl_seconds"`
}

// ReferenceTTL returns the reference point cache TTL as a duration.
func (c AttendanceConfig) ReferenceTTL() time.Duration {
	return time.Duration(c.ReferenceTTLSeconds) * time.Second
}

// PushConfig holds the VAPID keys for web push notifications. When the
// keys are empty, attendance push notifications are disabled.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether push notifications are configured.
func (c PushConfig) Enabled() bool {
	return c.PublicKey != "" && c.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Attendance.Timezone == "" {
		cfg.Attendance.Timezone = "UTC"
	}
	if cfg.Attendance.GeofenceRadiusMeters <= 0 {
		cfg.Attendance.GeofenceRadiusMeters = 200.0
	}
	if cfg.Attendance.ConflictRetries <= 0 {
		cfg.Attendance.ConflictRetries = 3
	}
	if cfg.Attendance.ReferenceTTLSeconds <= 0 {
		cfg.Attendance.ReferenceTTLSeconds = 60
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
