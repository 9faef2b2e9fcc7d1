package models

import "time"

// Alert is a triggered rule record. The only mutation it ever sees is
// the resolve transition; everything else is written once at raise time.
type Alert struct {
	ID         string     `json:"id"`
	SensorID   string     `json:"sensor_id"`
	SensorType SensorType `json:"sensor_type"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	Active     bool       `json:"active"`
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
