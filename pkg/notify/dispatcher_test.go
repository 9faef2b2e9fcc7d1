package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/groundsense/groundwatch/pkg/alerting"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

func testEnvelope(seq int64) *models.Envelope {
	return &models.Envelope{
		Seq:       seq,
		AlertFlag: 1,
		Timestamp: time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC),
		Samples: []models.Sample{
			{ID: 1, Vib: &models.VibSample{Pulse: 180, Hit: 1}},
		},
	}
}

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"single address", "ops@example.com", []string{"ops@example.com"}},
		{"comma separated", "a@example.com,b@example.com", []string{"a@example.com", "b@example.com"}},
		{"whitespace trimmed", " a@example.com , b@example.com ", []string{"a@example.com", "b@example.com"}},
		{"empty entries dropped", "a@example.com,,", []string{"a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecipients(tt.value))
		})
	}
}

func TestDispatchSendsAndMarks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := NewMockTransport(ctrl)
	gate := alerting.NewCooldownGate(5 * time.Minute)
	d := NewDispatcher(gate, transport, "alerts@example.com", "ops@example.com", logger.Nop())

	transport.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg *Message) error {
			assert.Equal(t, "alerts@example.com", msg.From)
			assert.Equal(t, []string{"ops@example.com"}, msg.To)
			assert.Contains(t, msg.Subject, "seq=10")
			assert.Contains(t, msg.HTMLBody, "<pre>")
			return nil
		})

	result, err := d.Dispatch(context.Background(), testEnvelope(10))
	require.NoError(t, err)
	assert.Equal(t, ResultSent, result)

	// same packet again is suppressed without touching the transport
	result, err = d.Dispatch(context.Background(), testEnvelope(10))
	require.NoError(t, err)
	assert.Equal(t, ResultSuppressed, result)
}

func TestDispatchFailureDoesNotMarkSent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := NewMockTransport(ctrl)
	gate := alerting.NewCooldownGate(5 * time.Minute)
	d := NewDispatcher(gate, transport, "alerts@example.com", "ops@example.com", logger.Nop())

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(assert.AnError)

	result, err := d.Dispatch(context.Background(), testEnvelope(11))
	require.Error(t, err)
	assert.Equal(t, ResultFailed, result)

	// the next qualifying raise retries the send
	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	result, err = d.Dispatch(context.Background(), testEnvelope(11))
	require.NoError(t, err)
	assert.Equal(t, ResultSent, result)
}

func TestDispatchRejectsMissingTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := NewMockTransport(ctrl) // no Send expected
	gate := alerting.NewCooldownGate(5 * time.Minute)
	d := NewDispatcher(gate, transport, "alerts@example.com", "ops@example.com", logger.Nop())

	env := testEnvelope(12)
	env.Timestamp = time.Time{}

	result, err := d.Dispatch(context.Background(), env)
	assert.ErrorIs(t, err, ErrMissingAlertFields)
	assert.Equal(t, ResultInvalid, result)
}

func TestDispatchDistinctPacketsNotSuppressed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := NewMockTransport(ctrl)
	gate := alerting.NewCooldownGate(5 * time.Minute)
	d := NewDispatcher(gate, transport, "alerts@example.com", "ops@example.com", logger.Nop())

	transport.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := d.Dispatch(context.Background(), testEnvelope(20))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), testEnvelope(21))
	require.NoError(t, err)
}
