package cache

import (
	"sync"
	"time"

	"github.com/groundsense/groundwatch/pkg/models"
)

// Config holds the injected TTLs and capacities. Zero fields are not
// defaulted here; config loading owns defaults.
type Config struct {
	SnapshotTTL    time.Duration
	HistoryTTL     time.Duration
	HistoryDepth   int
	MoistureWindow time.Duration // time-based series pruning for moisture
	VibrationDepth int           // count-based series pruning for vibration
}

// MemoryTier is the in-process Tier implementation. Sensors get
// fine-grained locks: a sync.Map keyed by (type, id) holding one entry
// per sensor, each with its own mutex, so distinct sensors never
// contend.
type MemoryTier struct {
	cfg     Config
	sensors sync.Map // sensorKey -> *sensorEntry
	now     func() time.Time
}

type sensorKey struct {
	t  models.SensorType
	id string
}

type seriesPoint struct {
	value float64
	ts    time.Time
}

type sensorEntry struct {
	mu sync.Mutex

	snapshot        *models.Reading
	snapshotExpires time.Time

	history        []models.Reading // newest first
	historyExpires time.Time
	version        uint64 // bumped on every history mutation

	series []seriesPoint // oldest first
}

// NewMemoryTier creates a hot tier with the given TTLs and capacities.
func NewMemoryTier(cfg Config) *MemoryTier {
	return &MemoryTier{
		cfg: cfg,
		now: time.Now,
	}
}

func (m *MemoryTier) entry(t models.SensorType, id string) *sensorEntry {
	e, _ := m.sensors.LoadOrStore(sensorKey{t: t, id: id}, &sensorEntry{})
	return e.(*sensorEntry)
}

func (m *MemoryTier) lookup(t models.SensorType, id string) (*sensorEntry, bool) {
	e, ok := m.sensors.Load(sensorKey{t: t, id: id})
	if !ok {
		return nil, false
	}

	return e.(*sensorEntry), true
}

// WriteSnapshot implements Tier.
func (m *MemoryTier) WriteSnapshot(t models.SensorType, id string, r models.Reading) {
	e := m.entry(t, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshot = &r
	e.snapshotExpires = m.now().Add(m.cfg.SnapshotTTL)
}

// AppendHistory implements Tier. Eviction of the oldest entry past
// capacity is silent; it is not an error.
func (m *MemoryTier) AppendHistory(t models.SensorType, id string, r models.Reading) {
	e := m.entry(t, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := m.now()

	// A buffer past its TTL is dead weight; start fresh.
	if len(e.history) > 0 && now.After(e.historyExpires) {
		e.history = nil
	}

	e.history = append([]models.Reading{r}, e.history...)
	if len(e.history) > m.cfg.HistoryDepth {
		e.history = e.history[:m.cfg.HistoryDepth]
	}

	e.historyExpires = now.Add(m.cfg.HistoryTTL)
	e.version++
}

// RecordSeriesPoint implements Tier. Pruning happens on the write path
// so reads stay cheap.
func (m *MemoryTier) RecordSeriesPoint(t models.SensorType, id string, value float64, ts time.Time) {
	e := m.entry(t, id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.series = append(e.series, seriesPoint{value: value, ts: ts})

	switch t {
	case models.SensorSoilMoisture:
		cutoff := m.now().Add(-m.cfg.MoistureWindow)
		idx := 0

		for idx < len(e.series) && !e.series[idx].ts.After(cutoff) {
			idx++
		}

		e.series = e.series[idx:]
	case models.SensorVibration:
		if over := len(e.series) - m.cfg.VibrationDepth; over > 0 {
			e.series = e.series[over:]
		}
	case models.SensorTilt:
		// tilt has no rolling aggregate
	}
}

// Snapshot implements Tier.
func (m *MemoryTier) Snapshot(t models.SensorType, id string) (models.Reading, error) {
	e, ok := m.lookup(t, id)
	if !ok {
		return models.Reading{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshot == nil || m.now().After(e.snapshotExpires) {
		return models.Reading{}, ErrNotFound
	}

	return *e.snapshot, nil
}

// History implements Tier.
func (m *MemoryTier) History(t models.SensorType, id string, limit int) ([]models.Reading, error) {
	e, ok := m.lookup(t, id)
	if !ok {
		return nil, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.history) == 0 || m.now().After(e.historyExpires) {
		return nil, ErrNotFound
	}

	n := len(e.history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]models.Reading, n)
	copy(out, e.history[:n])

	return out, nil
}

// Average implements Tier.
func (m *MemoryTier) Average(t models.SensorType, id string) (float64, error) {
	e, ok := m.lookup(t, id)
	if !ok {
		return 0, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.series) == 0 {
		return 0, ErrNotFound
	}

	var sum float64
	for _, p := range e.series {
		sum += p.value
	}

	return sum / float64(len(e.series)), nil
}

// ScanColdEntries implements Tier.
func (m *MemoryTier) ScanColdEntries(t models.SensorType, olderThan time.Time) map[string]ColdPartition {
	result := make(map[string]ColdPartition)

	m.sensors.Range(func(k, v interface{}) bool {
		key := k.(sensorKey)
		if key.t != t {
			return true
		}

		e := v.(*sensorEntry)

		e.mu.Lock()
		defer e.mu.Unlock()

		if len(e.history) == 0 || m.now().After(e.historyExpires) {
			return true
		}

		var cold, retained []models.Reading

		for _, r := range e.history {
			if r.RecordedAt.Before(olderThan) {
				cold = append(cold, r)
			} else {
				retained = append(retained, r)
			}
		}

		if len(cold) == 0 {
			return true
		}

		result[key.id] = ColdPartition{
			Cold:     cold,
			Retained: retained,
			Version:  e.version,
		}

		return true
	})

	return result
}

// ReplaceHistory implements Tier. The version argument is the one
// observed by the scan; any entries appended in between sit at the
// front of the current buffer and are preserved ahead of the retained
// set, so a writer racing the scan-prune pair never loses its entry.
func (m *MemoryTier) ReplaceHistory(t models.SensorType, id string, retained []models.Reading, version uint64) error {
	e, ok := m.lookup(t, id)
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	appended := int(e.version - version)
	if appended > len(e.history) {
		appended = len(e.history)
	}

	next := make([]models.Reading, 0, appended+len(retained))
	next = append(next, e.history[:appended]...)
	next = append(next, retained...)

	if len(next) > m.cfg.HistoryDepth {
		next = next[:m.cfg.HistoryDepth]
	}

	e.history = next
	e.version++

	return nil
}

// SensorIDs implements Tier.
func (m *MemoryTier) SensorIDs(t models.SensorType) []string {
	var ids []string

	now := m.now()

	m.sensors.Range(func(k, v interface{}) bool {
		key := k.(sensorKey)
		if key.t != t {
			return true
		}

		e := v.(*sensorEntry)

		e.mu.Lock()
		defer e.mu.Unlock()

		if e.snapshot != nil && now.Before(e.snapshotExpires) {
			ids = append(ids, key.id)
		}

		return true
	})

	return ids
}
