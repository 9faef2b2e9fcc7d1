package alerting

import (
	"strconv"
	"sync"
	"time"
)

// CooldownGate deduplicates outbound notifications per alert key with
// a timed suppression window. Allow followed by MarkSent is not atomic
// as a pair: two dispatch attempts racing on the same key may both
// pass Allow before either marks. A duplicate notification is less
// harmful than a stuck suppression, so that race is accepted.
type CooldownGate struct {
	mu       sync.Mutex
	records  map[string]string // key -> unix seconds, stored in wire form
	cooldown time.Duration
	now      func() time.Time
}

// NewCooldownGate creates a gate with the given suppression window.
func NewCooldownGate(cooldown time.Duration) *CooldownGate {
	return &CooldownGate{
		records:  make(map[string]string),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Allow reports whether a notification for key may be sent. It has no
// side effects. A record that does not parse as a timestamp fails
// open: better a duplicate mail than notifications blocked forever.
func (g *CooldownGate) Allow(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	raw, ok := g.records[key]
	if !ok {
		return true
	}

	last, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return true
	}

	elapsed := g.now().Sub(time.Unix(0, int64(last*float64(time.Second))))
	if elapsed >= g.cooldown {
		delete(g.records, key) // expired record, drop it
		return true
	}

	return false
}

// MarkSent (re)writes the suppression record for key with the current
// timestamp. Keys are unique per packet and rarely re-queried, so
// expired and unparseable records are reclaimed here instead of on
// the Allow path; after a sweep the map holds only live windows.
func (g *CooldownGate) MarkSent(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	for k, raw := range g.records {
		last, err := strconv.ParseFloat(raw, 64)
		if err != nil || now.Sub(time.Unix(0, int64(last*float64(time.Second)))) >= g.cooldown {
			delete(g.records, k)
		}
	}

	g.records[key] = strconv.FormatFloat(
		float64(now.UnixNano())/float64(time.Second), 'f', 6, 64)
}
