package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

// Result classifies the outcome of a dispatch attempt.
type Result string

const (
	ResultSent       Result = "sent"
	ResultSuppressed Result = "suppressed"
	ResultFailed     Result = "failed"
	ResultInvalid    Result = "invalid"
)

// Dispatcher applies the cooldown gate to qualifying alert packets and
// hands the survivors to the notification transport. A failed send is
// not marked sent, so the next qualifying raise retries naturally;
// there is no internal retry queue.
type Dispatcher struct {
	gate      *alerting.CooldownGate
	transport Transport
	from      string
	to        []string
	log       *logger.Logger
}

// NewDispatcher builds a dispatcher. The recipient list accepts a
// single address or a comma-separated list.
func NewDispatcher(gate *alerting.CooldownGate, transport Transport, from, to string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		gate:      gate,
		transport: transport,
		from:      from,
		to:        ParseRecipients(to),
		log:       log,
	}
}

// ParseRecipients splits a recipient list on commas and trims
// whitespace around each address.
func ParseRecipients(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			out = append(out, addr)
		}
	}

	return out
}

// Dispatch sends one alert packet. The cooldown key is derived from
// the packet's business identity (sequence + source timestamp), not
// from any ledger alert id.
func (d *Dispatcher) Dispatch(ctx context.Context, env *models.Envelope) (Result, error) {
	if env == nil || env.Timestamp.IsZero() {
		d.log.Error().Msg("alert payload missing sequence or timestamp, not sending")
		return ResultInvalid, ErrMissingAlertFields
	}

	key := env.CooldownKey()

	if !d.gate.Allow(key) {
		d.log.Info().Str("key", key).Msg("cooldown active, alert suppressed")
		return ResultSuppressed, nil
	}

	msg, err := d.buildMessage(env)
	if err != nil {
		return ResultInvalid, err
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		d.log.Error().Err(err).Int64("seq", env.Seq).Msg("alert notification failed")
		return ResultFailed, err
	}

	d.gate.MarkSent(key)
	d.log.Info().Int64("seq", env.Seq).Msg("alert notification sent")

	return ResultSent, nil
}

func (d *Dispatcher) buildMessage(env *models.Envelope) (*Message, error) {
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	return &Message{
		From:    d.from,
		To:      d.to,
		Subject: fmt.Sprintf("Alert detected: packet seq=%d", env.Seq),
		HTMLBody: "<h2>Sensor alert</h2>" +
			"<p>Event data follows:</p>" +
			"<pre>" + string(body) + "</pre>",
	}, nil
}
