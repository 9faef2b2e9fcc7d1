// Package ingest validates inbound sensor packets, routes readings
// into the hot tier, and evaluates the alerting rules.
package ingest

import (
	"context"
	"fmt"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
	"github.com/groundsense/groundwatch/pkg/notify"
)

const (
	moistureHighThreshold = 80.0
	moistureLowThreshold  = 20.0
)

// Pipeline processes decoded packets: snapshot, history and series
// writes per reading, then rule evaluation, then packet-level alert
// dispatch. Per-reading failures are isolated and logged; they never
// abort the packet or the worker loop.
type Pipeline struct {
	tier       cache.Tier
	ledger     *alerting.Ledger
	dispatcher *notify.Dispatcher
	log        *logger.Logger
}

// NewPipeline wires the pipeline. dispatcher may be nil when outbound
// notification is not configured.
func NewPipeline(tier cache.Tier, ledger *alerting.Ledger, dispatcher *notify.Dispatcher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		tier:       tier,
		ledger:     ledger,
		dispatcher: dispatcher,
		log:        log,
	}
}

// ProcessMessage decodes and processes one raw inbound message. A
// malformed message condemns only itself.
func (p *Pipeline) ProcessMessage(ctx context.Context, payload []byte) error {
	env, err := models.DecodeEnvelope(payload)
	if err != nil {
		p.log.Error().Err(err).Msg("rejected inbound message")
		return err
	}

	p.ProcessEnvelope(ctx, env)

	return nil
}

// ProcessEnvelope routes every reading in the packet, then dispatches
// the packet itself when its alert flag is set.
func (p *Pipeline) ProcessEnvelope(ctx context.Context, env *models.Envelope) {
	for _, r := range env.Readings() {
		if err := p.processReading(r); err != nil {
			p.log.Error().Err(err).
				Str("sensor_id", r.SensorID).
				Str("sensor_type", string(r.Type)).
				Msg("dropped reading")
		}
	}

	if env.AlertFlag == 1 && p.dispatcher != nil {
		// dispatch outcome is logged by the dispatcher; a failed or
		// suppressed send never fails the packet
		_, _ = p.dispatcher.Dispatch(ctx, env)
	}
}

// processReading applies snapshot, history and series writes for one
// sensor key before evaluating rules, so rules always see the state
// the reading produced. The previous snapshot is captured first for
// transition rules.
func (p *Pipeline) processReading(r models.Reading) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid reading: %w", err)
	}

	prev, prevErr := p.tier.Snapshot(r.Type, r.SensorID)

	p.tier.WriteSnapshot(r.Type, r.SensorID, r)
	p.tier.AppendHistory(r.Type, r.SensorID, r)

	if v, ok := r.SeriesValue(); ok {
		p.tier.RecordSeriesPoint(r.Type, r.SensorID, v, r.RecordedAt)
	}

	p.evaluate(&r, &prev, prevErr == nil)

	return nil
}

// evaluate runs the per-type threshold/transition rules. Each
// qualifying reading raises exactly one ledger alert.
func (p *Pipeline) evaluate(r *models.Reading, prev *models.Reading, hasPrev bool) {
	switch r.Type {
	case models.SensorSoilMoisture:
		pct := r.Moisture.Percent

		switch {
		case pct > moistureHighThreshold:
			p.raise(r, fmt.Sprintf("High moisture: %.1f%%", pct))
		case pct < moistureLowThreshold:
			p.raise(r, fmt.Sprintf("Low moisture: %.1f%%", pct))
		}
	case models.SensorTilt:
		// only the 0 -> 1 transition alerts; repeated 1s stay quiet
		if r.Tilt.State == 1 && hasPrev && prev.Tilt != nil && prev.Tilt.State == 0 {
			p.raise(r, "Position change detected")
		}
	case models.SensorVibration:
		if r.Vibration.Hit == 1 {
			p.raise(r, fmt.Sprintf("Impact detected (pulse: %d)", r.Vibration.Pulse))
		}
	}
}

func (p *Pipeline) raise(r *models.Reading, message string) {
	id := p.ledger.Raise(r.SensorID, r.Type, message)

	p.log.Warn().
		Str("alert_id", id).
		Str("sensor_id", r.SensorID).
		Str("sensor_type", string(r.Type)).
		Msg(message)
}
