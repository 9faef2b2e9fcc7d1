// Package config loads and validates the groundwatch configuration.
// The file is JSON; a handful of secrets and connection strings can be
// overridden from the environment so they stay out of the config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

var (
	errInvalidDuration = fmt.Errorf("invalid duration")
)

// LoadFile is a generic helper that loads a JSON file from path into
// the struct pointed to by dst.
func LoadFile(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	return nil
}

// Validator is implemented by configs that can check themselves.
type Validator interface {
	Validate() error
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// Load reads the config file, applies environment overrides and
// validates the result. Any error here is fatal to the process.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := LoadFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GROUNDWATCH_MQTT_BROKER"); v != "" {
		c.MQTT.Broker = v
	}

	if v := os.Getenv("GROUNDWATCH_MQTT_USER"); v != "" {
		c.MQTT.Username = v
	}

	if v := os.Getenv("GROUNDWATCH_MQTT_PASS"); v != "" {
		c.MQTT.Password = v
	}

	if v := os.Getenv("GROUNDWATCH_DB_PATH"); v != "" {
		c.DBPath = v
	}

	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		c.Mail.APIKey = v
	}

	if v := os.Getenv("RESEND_FROM"); v != "" {
		c.Mail.From = v
	}

	if v := os.Getenv("RESEND_TO"); v != "" {
		c.Mail.To = v
	}
}
