// Package models holds the shared data types for groundwatch: validated
// sensor readings, the inbound packet envelope, and alert records.
package models

import (
	"errors"
	"fmt"
	"time"
)

// SensorType identifies one of the supported field sensor kinds.
type SensorType string

const (
	SensorSoilMoisture SensorType = "soil_moisture"
	SensorTilt         SensorType = "tilt"
	SensorVibration    SensorType = "vibration"
)

// SensorTypes lists every supported type, in the order jobs iterate them.
func SensorTypes() []SensorType {
	return []SensorType{SensorSoilMoisture, SensorTilt, SensorVibration}
}

// Valid reports whether t is a known sensor type.
func (t SensorType) Valid() bool {
	switch t {
	case SensorSoilMoisture, SensorTilt, SensorVibration:
		return true
	default:
		return false
	}
}

var (
	ErrUnknownSensorType = errors.New("unknown sensor type")
	ErrMissingPayload    = errors.New("reading payload missing for sensor type")
	ErrAmbiguousPayload  = errors.New("reading carries more than one payload")
	ErrZeroTimestamp     = errors.New("reading timestamp is zero")
)

// MoistureData is a soil moisture measurement.
type MoistureData struct {
	Raw     int     `json:"raw"`     // raw ADC value (0-1024)
	Percent float64 `json:"percent"` // converted moisture percentage
}

// TiltData is a binary tilt switch state.
type TiltData struct {
	State int `json:"state"` // 0 level, 1 tilted
}

// VibrationData is a vibration sensor measurement.
type VibrationData struct {
	Pulse int `json:"pulse"` // pulse count in the sample window
	Hit   int `json:"hit"`   // 1 when an impact was detected
}

// Reading is one validated measurement from a field sensor. It is a
// tagged variant: exactly one of the payload pointers matching Type is
// set. Readings are immutable once validated.
type Reading struct {
	SensorID   string         `json:"sensor_id"`
	Type       SensorType     `json:"sensor_type"`
	RecordedAt time.Time      `json:"recorded_at"`
	Moisture   *MoistureData  `json:"moisture,omitempty"`
	Tilt       *TiltData      `json:"tilt,omitempty"`
	Vibration  *VibrationData `json:"vibration,omitempty"`
}

// Validate checks the variant invariant: a known type, a non-zero
// timestamp, and exactly the payload that matches the type.
func (r *Reading) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSensorType, r.Type)
	}

	if r.RecordedAt.IsZero() {
		return ErrZeroTimestamp
	}

	set := 0
	if r.Moisture != nil {
		set++
	}

	if r.Tilt != nil {
		set++
	}

	if r.Vibration != nil {
		set++
	}

	if set > 1 {
		return ErrAmbiguousPayload
	}

	switch r.Type {
	case SensorSoilMoisture:
		if r.Moisture == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, r.Type)
		}
	case SensorTilt:
		if r.Tilt == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, r.Type)
		}
	case SensorVibration:
		if r.Vibration == nil {
			return fmt.Errorf("%w: %s", ErrMissingPayload, r.Type)
		}
	}

	return nil
}

// SeriesValue returns the numeric value recorded into the rolling
// series for this reading, and whether the type has one. Moisture
// contributes its percentage, vibration its pulse count; tilt has no
// rolling aggregate.
func (r *Reading) SeriesValue() (float64, bool) {
	switch r.Type {
	case SensorSoilMoisture:
		return r.Moisture.Percent, true
	case SensorVibration:
		return float64(r.Vibration.Pulse), true
	default:
		return 0, false
	}
}
