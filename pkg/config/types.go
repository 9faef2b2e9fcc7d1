package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/groundsense/groundwatch/pkg/logger"
)

// Duration is a time.Duration that unmarshals from either a Go
// duration string ("10m") or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

// MQTTConfig configures the inbound transport client.
type MQTTConfig struct {
	Broker   string `json:"broker"` // e.g. tcp://broker:1883
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// CacheConfig holds the hot-tier TTLs and capacities.
type CacheConfig struct {
	SnapshotTTL     Duration `json:"snapshot_ttl"`      // freshness of the latest reading
	HistoryTTL      Duration `json:"history_ttl"`       // whole-buffer TTL, refreshed on append
	HistoryDepth    int      `json:"history_depth"`     // ring capacity
	MoistureWindow  Duration `json:"moisture_window"`   // rolling-average window
	VibrationDepth  int      `json:"vibration_depth"`   // rolling pulse sample cap
	AlertTTL        Duration `json:"alert_ttl"`         // alert record lifetime
	CooldownSeconds Duration `json:"cooldown"`          // notification suppression window
}

// ArchiveConfig configures the hot→cold migration job.
type ArchiveConfig struct {
	Interval      Duration `json:"interval"`
	RetentionDays int      `json:"retention_days"`
}

// MailConfig configures the outbound notification transport.
type MailConfig struct {
	Endpoint  string `json:"endpoint"` // mail API URL
	APIKey    string `json:"api_key,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"` // single address or comma-separated list
	PerMinute int    `json:"per_minute,omitempty"`
}

// Config is the full groundwatch configuration, read once at startup.
type Config struct {
	ListenAddr string        `json:"listen_addr"`
	DBPath     string        `json:"db_path"`
	Logging    logger.Config `json:"logging"`
	MQTT       MQTTConfig    `json:"mqtt"`
	Cache      CacheConfig   `json:"cache"`
	Archive    ArchiveConfig `json:"archive"`
	Mail       MailConfig    `json:"mail"`
}

var (
	errNoBroker   = fmt.Errorf("mqtt broker address is required")
	errNoTopic    = fmt.Errorf("mqtt topic is required")
	errNoDBPath   = fmt.Errorf("db path is required")
	errNoMailFrom = fmt.Errorf("mail sender address is required")
	errNoMailTo   = fmt.Errorf("mail recipient list is required")
)

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8090"
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "groundwatch"
	}

	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = Duration(time.Hour)
	}

	if c.Cache.HistoryTTL == 0 {
		c.Cache.HistoryTTL = Duration(24 * time.Hour)
	}

	if c.Cache.HistoryDepth == 0 {
		c.Cache.HistoryDepth = 100
	}

	if c.Cache.MoistureWindow == 0 {
		c.Cache.MoistureWindow = Duration(10 * time.Minute)
	}

	if c.Cache.VibrationDepth == 0 {
		c.Cache.VibrationDepth = 1000
	}

	if c.Cache.AlertTTL == 0 {
		c.Cache.AlertTTL = Duration(2 * time.Hour)
	}

	if c.Cache.CooldownSeconds == 0 {
		c.Cache.CooldownSeconds = Duration(5 * time.Minute)
	}

	if c.Archive.Interval == 0 {
		c.Archive.Interval = Duration(time.Hour)
	}

	if c.Archive.RetentionDays == 0 {
		c.Archive.RetentionDays = 1
	}

	if c.Mail.PerMinute == 0 {
		c.Mail.PerMinute = 10
	}
}

// Validate reports the first fatal configuration problem.
func (c *Config) Validate() error {
	if c.MQTT.Broker == "" {
		return errNoBroker
	}

	if c.MQTT.Topic == "" {
		return errNoTopic
	}

	if c.DBPath == "" {
		return errNoDBPath
	}

	if c.Mail.Endpoint != "" {
		if c.Mail.From == "" {
			return errNoMailFrom
		}

		if c.Mail.To == "" {
			return errNoMailTo
		}
	}

	return nil
}
