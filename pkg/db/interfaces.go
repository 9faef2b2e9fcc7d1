// Package db provides the SQLite cold store for archived sensor history.
package db

import (
	"context"
	"time"

	"github.com/groundsense/groundwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/groundsense/groundwatch/pkg/db Service

// ArchiveBatch is the unit the archive job hands to durable storage:
// one generated batch identifier plus the cold readings of a single
// sensor key. The whole batch commits or rolls back together.
type ArchiveBatch struct {
	ID         string            `json:"id"`
	SensorType models.SensorType `json:"sensor_type"`
	SensorID   string            `json:"sensor_id"`
	ArchivedAt time.Time         `json:"archived_at"`
	Readings   []models.Reading  `json:"readings"`
}

// Service is the durable-store boundary. Implementations must tolerate
// duplicate batches for the same readings: a crash between migration
// and prune re-migrates the same cold entries on the next tick.
type Service interface {
	// SaveArchiveBatch inserts the batch record and its readings in
	// one transaction. Re-inserted readings (same sensor key and
	// recorded-at) are ignored, not errors.
	SaveArchiveBatch(ctx context.Context, batch *ArchiveBatch) error

	// ArchivedReadingCount reports how many readings are stored for a
	// sensor key.
	ArchivedReadingCount(ctx context.Context, t models.SensorType, id string) (int, error)

	Close() error
}
