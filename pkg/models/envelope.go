package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingField     = errors.New("payload missing required field")
)

// SoilSample is the wire form of a soil moisture sample.
type SoilSample struct {
	Raw int     `json:"raw"`
	Pct float64 `json:"pct"`
}

// VibSample is the wire form of a vibration sample.
type VibSample struct {
	Pulse int `json:"pulse"`
	Hit   int `json:"hit"`
}

// Sample is one panel's worth of measurements inside a packet. Sensor
// fields are optional on the wire; absent ones produce no reading.
type Sample struct {
	ID   int         `json:"id"`
	Soil *SoilSample `json:"soil,omitempty"`
	Tilt *int        `json:"tilt,omitempty"`
	Vib  *VibSample  `json:"vib,omitempty"`
}

// Envelope is one decoded inbound packet from the field gateway.
type Envelope struct {
	Seq       int64     `json:"seq"`
	AlertFlag int       `json:"alerta"`
	Timestamp time.Time `json:"ts"`
	Samples   []Sample  `json:"samples"`
}

// envelopeWire mirrors Envelope with pointer fields so required-field
// absence is distinguishable from zero values.
type envelopeWire struct {
	Seq       *int64   `json:"seq"`
	AlertFlag *int     `json:"alerta"`
	Timestamp *string  `json:"ts"`
	Samples   []Sample `json:"samples"`
}

// DecodeEnvelope parses and validates one inbound message. A decode
// failure condemns only that message; the caller logs and moves on.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if wire.Seq == nil {
		return nil, fmt.Errorf("%w: seq", ErrMissingField)
	}

	if wire.Timestamp == nil {
		return nil, fmt.Errorf("%w: ts", ErrMissingField)
	}

	if wire.Samples == nil {
		return nil, fmt.Errorf("%w: samples", ErrMissingField)
	}

	if wire.AlertFlag == nil {
		return nil, fmt.Errorf("%w: alerta", ErrMissingField)
	}

	ts, err := parseTimestamp(*wire.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: ts: %w", ErrMalformedPayload, err)
	}

	return &Envelope{
		Seq:       *wire.Seq,
		AlertFlag: *wire.AlertFlag,
		Timestamp: ts,
		Samples:   wire.Samples,
	}, nil
}

// parseTimestamp accepts RFC3339 and the gateway's space-separated
// variant ("2026-08-29 14:03:00").
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02 15:04:05", s)
}

// CooldownKey derives the suppression key for packet-level alerts from
// the business identity of the event: sequence plus source timestamp.
func (e *Envelope) CooldownKey() string {
	return strconv.FormatInt(e.Seq, 10) + ":" + e.Timestamp.Format(time.RFC3339)
}

// Readings expands the envelope into validated readings, one per sensor
// field present on each sample. Readings carry the packet timestamp.
func (e *Envelope) Readings() []Reading {
	readings := make([]Reading, 0, len(e.Samples))

	for _, s := range e.Samples {
		id := strconv.Itoa(s.ID)

		if s.Soil != nil {
			readings = append(readings, Reading{
				SensorID:   id,
				Type:       SensorSoilMoisture,
				RecordedAt: e.Timestamp,
				Moisture:   &MoistureData{Raw: s.Soil.Raw, Percent: s.Soil.Pct},
			})
		}

		if s.Tilt != nil {
			readings = append(readings, Reading{
				SensorID:   id,
				Type:       SensorTilt,
				RecordedAt: e.Timestamp,
				Tilt:       &TiltData{State: *s.Tilt},
			})
		}

		if s.Vib != nil {
			readings = append(readings, Reading{
				SensorID:   id,
				Type:       SensorVibration,
				RecordedAt: e.Timestamp,
				Vibration:  &VibrationData{Pulse: s.Vib.Pulse, Hit: s.Vib.Hit},
			})
		}
	}

	return readings
}
