// Package cache implements the hot tier: per-sensor TTL-bounded
// snapshots, a capped recent-history buffer, and windowed rolling
// series for cheap aggregates. All state is in-process; durable
// retention is the archive job's problem.
package cache

import (
	"time"

	"github.com/groundsense/groundwatch/pkg/models"
)

//go:generate mockgen -destination=mock_cache.go -package=cache github.com/groundsense/groundwatch/pkg/cache Tier

// ColdPartition is the result of scanning one sensor's history against
// an age cutoff: the entries to migrate, the entries to keep, and the
// history version observed at scan time. ReplaceHistory uses the
// version to splice in entries appended after the scan.
type ColdPartition struct {
	Cold     []models.Reading
	Retained []models.Reading
	Version  uint64
}

// Tier is the hot-tier contract shared by the ingest pipeline, the
// archive job and the read API.
type Tier interface {
	// WriteSnapshot replaces the latest reading for the sensor and
	// resets its freshness TTL.
	WriteSnapshot(t models.SensorType, id string, r models.Reading)

	// AppendHistory pushes a reading onto the sensor's recent-history
	// buffer (newest first), evicting the oldest entry past capacity,
	// and refreshes the buffer TTL.
	AppendHistory(t models.SensorType, id string, r models.Reading)

	// RecordSeriesPoint inserts a numeric point into the sensor's
	// rolling series and prunes points outside the configured window
	// or capacity in the same call.
	RecordSeriesPoint(t models.SensorType, id string, value float64, ts time.Time)

	// Snapshot returns the latest reading, or ErrNotFound when the
	// sensor is unknown or its snapshot TTL has elapsed.
	Snapshot(t models.SensorType, id string) (models.Reading, error)

	// History returns up to limit recent readings, newest first.
	// limit <= 0 means all. ErrNotFound when absent or expired.
	History(t models.SensorType, id string, limit int) ([]models.Reading, error)

	// Average returns the mean of the sensor's rolling series, or
	// ErrNotFound when the series is empty.
	Average(t models.SensorType, id string) (float64, error)

	// ScanColdEntries partitions every tracked sensor of the given
	// type into entries strictly older than olderThan and entries to
	// retain. Sensors with no cold entries are omitted.
	ScanColdEntries(t models.SensorType, olderThan time.Time) map[string]ColdPartition

	// ReplaceHistory overwrites the sensor's history with the retained
	// set. Entries appended since the scan that produced version are
	// preserved in front of the retained set.
	ReplaceHistory(t models.SensorType, id string, retained []models.Reading, version uint64) error

	// SensorIDs lists the ids of sensors of the given type that still
	// hold a live snapshot.
	SensorIDs(t models.SensorType) []string
}
