// Package alerting tracks raised alerts and the notification cooldown
// state. The ledger owns alert records and the active-id set; the gate
// owns per-key suppression windows.
package alerting

import (
	"fmt"
	"sync"
	"time"

	"github.com/groundsense/groundwatch/pkg/models"
)

type alertRecord struct {
	alert     models.Alert
	expiresAt time.Time
}

// Ledger stores alert records with a TTL, maintains the set of active
// alert ids, and fans raised alerts out to subscribers. Safe for
// concurrent use.
type Ledger struct {
	mu      sync.Mutex
	records map[string]*alertRecord
	active  map[string]struct{}
	subs    []chan models.Alert
	ttl     time.Duration
	seq     uint64
	now     func() time.Time
}

// NewLedger creates a ledger whose records expire after ttl.
func NewLedger(ttl time.Duration) *Ledger {
	return &Ledger{
		records: make(map[string]*alertRecord),
		active:  make(map[string]struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Subscribe returns a channel receiving every raised alert. Slow
// subscribers miss alerts rather than blocking the raise path.
func (l *Ledger) Subscribe(buffer int) <-chan models.Alert {
	ch := make(chan models.Alert, buffer)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.subs = append(l.subs, ch)

	return ch
}

// Raise creates an active alert, stores it with the ledger TTL, adds
// it to the active set and publishes it. Concurrent raises for the
// same sensor each get a distinct id: creation time in seconds plus a
// monotonic sequence component.
func (l *Ledger) Raise(sensorID string, t models.SensorType, message string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.seq++

	alert := models.Alert{
		ID:         fmt.Sprintf("%s:%s:%d:%d", sensorID, t, now.Unix(), l.seq),
		SensorID:   sensorID,
		SensorType: t,
		Message:    message,
		CreatedAt:  now,
		Active:     true,
		Resolved:   false,
	}

	l.records[alert.ID] = &alertRecord{
		alert:     alert,
		expiresAt: now.Add(l.ttl),
	}
	l.active[alert.ID] = struct{}{}

	for _, ch := range l.subs {
		select {
		case ch <- alert:
		default:
		}
	}

	return alert.ID
}

// Resolve marks the alert resolved and drops it from the active set,
// refreshing the record TTL so the resolution stays visible. Returns
// false when the record is absent or already expired; resolving a
// missing alert is a no-op signal, not an error.
func (l *Ledger) Resolve(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[id]
	if !ok || l.now().After(rec.expiresAt) {
		delete(l.records, id)
		delete(l.active, id)

		return false
	}

	now := l.now()
	rec.alert.Resolved = true
	rec.alert.Active = false
	rec.alert.ResolvedAt = &now
	rec.expiresAt = now.Add(l.ttl)

	delete(l.active, id)

	return true
}

// ActiveAlerts returns a snapshot of all currently active records.
// Ids whose backing record expired are dropped on the way out; the
// TTL is the garbage collector.
func (l *Ledger) ActiveAlerts() []models.Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	alerts := make([]models.Alert, 0, len(l.active))

	for id := range l.active {
		rec, ok := l.records[id]
		if !ok || now.After(rec.expiresAt) {
			delete(l.records, id)
			delete(l.active, id)

			continue
		}

		alerts = append(alerts, rec.alert)
	}

	return alerts
}

// Reconcile sweeps both maps: expired records are deleted outright
// (resolved records have no other deletion path once they leave the
// active set), and active ids whose record is resolved or gone are
// dropped. Returns the number of active ids dropped.
func (l *Ledger) Reconcile() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	dropped := 0

	for id, rec := range l.records {
		if now.After(rec.expiresAt) {
			delete(l.records, id)
		}
	}

	for id := range l.active {
		rec, ok := l.records[id]
		if !ok || rec.alert.Resolved {
			delete(l.active, id)
			dropped++
		}
	}

	return dropped
}
