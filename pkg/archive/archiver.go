// Package archive moves aged hot-tier history into durable cold
// storage on a fixed interval.
package archive

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/db"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

// storeTimeout bounds each per-key durable write so a hung store
// cannot stall the cycle indefinitely.
const storeTimeout = 30 * time.Second

// Archiver runs scan -> migrate -> prune over every tracked sensor
// key on a fixed interval. Each tick starts from scratch; there is no
// persistent job state. Failures are isolated per sensor key: one bad
// key is logged and skipped, never aborting the cycle, and its cold
// entries are retried on the next tick.
type Archiver struct {
	tier      cache.Tier
	store     db.Service
	interval  time.Duration
	retention time.Duration
	log       *logger.Logger
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewArchiver creates the archival job. retention is how old an entry
// must be before it is demoted to cold storage.
func NewArchiver(tier cache.Tier, store db.Service, interval, retention time.Duration, log *logger.Logger) *Archiver {
	return &Archiver{
		tier:      tier,
		store:     store,
		interval:  interval,
		retention: retention,
		log:       log,
		now:       time.Now,
	}
}

// Start runs the interval loop until ctx is canceled. A cancellation
// during a tick stops it at the next key boundary; a key that has
// started migrating always finishes, prune included.
func (a *Archiver) Start(ctx context.Context) error {
	a.wg.Add(1)

	go func() {
		defer a.wg.Done()

		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runCycle(ctx)
			}
		}
	}()

	return nil
}

// Stop waits for the current tick to complete.
func (a *Archiver) Stop(_ context.Context) error {
	a.wg.Wait()
	return nil
}

// RunCycle performs one full archival pass over all sensor types.
func (a *Archiver) RunCycle() {
	a.runCycle(context.Background())
}

// runCycle is the cancel-aware pass: a canceled ctx stops it between
// keys so shutdown is never stuck behind a slow store, and the
// deferred keys are picked up on the next process start.
func (a *Archiver) runCycle(ctx context.Context) {
	cutoff := a.now().Add(-a.retention)

	a.log.Info().Time("cutoff", cutoff).Msg("archival cycle starting")

	migrated := 0

	for _, t := range models.SensorTypes() {
		migrated += a.archiveType(ctx, t, cutoff)
	}

	a.log.Info().Int("migrated", migrated).Msg("archival cycle finished")
}

// archiveType migrates the cold history of every sensor of one type.
// Pruning a key happens only after its batch has committed, so a
// crash in between re-migrates the same entries next tick; the store
// treats that as an upsert no-op.
func (a *Archiver) archiveType(ctx context.Context, t models.SensorType, cutoff time.Time) int {
	scanned := a.tier.ScanColdEntries(t, cutoff)

	migrated := 0

	for id, part := range scanned {
		if ctx.Err() != nil {
			a.log.Info().
				Str("sensor_type", string(t)).
				Msg("archival cycle interrupted, remaining keys deferred")

			return migrated
		}

		batch := &db.ArchiveBatch{
			ID:         uuid.NewString(),
			SensorType: t,
			SensorID:   id,
			ArchivedAt: a.now(),
			Readings:   part.Cold,
		}

		// store calls get their own bounded context so a shutdown
		// signal cannot sever a key mid-migration
		storeCtx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		err := a.store.SaveArchiveBatch(storeCtx, batch)

		cancel()

		if err != nil {
			a.log.Error().Err(err).
				Str("sensor_type", string(t)).
				Str("sensor_id", id).
				Msg("migration failed, hot history untouched")

			continue
		}

		if err := a.tier.ReplaceHistory(t, id, part.Retained, part.Version); err != nil {
			a.log.Error().Err(err).
				Str("sensor_type", string(t)).
				Str("sensor_id", id).
				Msg("prune failed after migration")

			continue
		}

		migrated += len(part.Cold)

		a.log.Debug().
			Str("sensor_type", string(t)).
			Str("sensor_id", id).
			Int("cold", len(part.Cold)).
			Int("retained", len(part.Retained)).
			Msg("sensor history archived")
	}

	return migrated
}
