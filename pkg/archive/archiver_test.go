package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/groundsense/groundwatch/pkg/cache"
	"github.com/groundsense/groundwatch/pkg/db"
	"github.com/groundsense/groundwatch/pkg/logger"
	"github.com/groundsense/groundwatch/pkg/models"
)

func newTestTier() *cache.MemoryTier {
	return cache.NewMemoryTier(cache.Config{
		SnapshotTTL:    time.Hour,
		HistoryTTL:     24 * time.Hour,
		HistoryDepth:   100,
		MoistureWindow: 10 * time.Minute,
		VibrationDepth: 1000,
	})
}

func reading(id string, pct float64, at time.Time) models.Reading {
	return models.Reading{
		SensorID:   id,
		Type:       models.SensorSoilMoisture,
		RecordedAt: at,
		Moisture:   &models.MoistureData{Percent: pct},
	}
}

func TestRunCycleMigratesOnlyColdEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	old := reading("s1", 10, now.Add(-48*time.Hour))
	fresh := reading("s1", 20, now.Add(-time.Hour))

	tier.AppendHistory(models.SensorSoilMoisture, "s1", old)
	tier.AppendHistory(models.SensorSoilMoisture, "s1", fresh)

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	store.EXPECT().
		SaveArchiveBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch *db.ArchiveBatch) error {
			assert.NotEmpty(t, batch.ID)
			assert.Equal(t, models.SensorSoilMoisture, batch.SensorType)
			assert.Equal(t, "s1", batch.SensorID)
			require.Len(t, batch.Readings, 1)
			assert.Equal(t, old, batch.Readings[0])
			return nil
		})

	a.RunCycle()

	history, err := tier.History(models.SensorSoilMoisture, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, fresh, history[0], "the fresh entry stays hot")
}

func TestRunCycleIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	tier.AppendHistory(models.SensorSoilMoisture, "s1", reading("s1", 10, now.Add(-48*time.Hour)))
	tier.AppendHistory(models.SensorSoilMoisture, "s1", reading("s1", 20, now.Add(-time.Hour)))

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	// exactly one migration across both runs: the second finds
	// nothing older than the cutoff
	store.EXPECT().SaveArchiveBatch(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	a.RunCycle()
	a.RunCycle()
}

func TestFailedKeyLeavesHotHistoryUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	old := reading("s1", 10, now.Add(-48*time.Hour))
	tier.AppendHistory(models.SensorSoilMoisture, "s1", old)

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	store.EXPECT().SaveArchiveBatch(gomock.Any(), gomock.Any()).Return(assert.AnError)

	a.RunCycle()

	history, err := tier.History(models.SensorSoilMoisture, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, old, history[0], "a failed migration must not prune hot history")

	// the next tick retries the same cold entry
	store.EXPECT().SaveArchiveBatch(gomock.Any(), gomock.Any()).Return(nil)

	a.RunCycle()

	_, err = tier.History(models.SensorSoilMoisture, "s1", 0)
	assert.ErrorIs(t, err, cache.ErrNotFound, "everything was cold; the buffer is gone")
}

func TestFailureIsolationAcrossKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	tier.AppendHistory(models.SensorSoilMoisture, "bad", reading("bad", 10, now.Add(-48*time.Hour)))
	tier.AppendHistory(models.SensorSoilMoisture, "good", reading("good", 11, now.Add(-48*time.Hour)))

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	store.EXPECT().
		SaveArchiveBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch *db.ArchiveBatch) error {
			if batch.SensorID == "bad" {
				return assert.AnError
			}
			return nil
		}).
		Times(2)

	a.RunCycle()

	// the bad key kept its history, the good key was pruned
	history, err := tier.History(models.SensorSoilMoisture, "bad", 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = tier.History(models.SensorSoilMoisture, "good", 0)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestCancelStopsCycleBetweenKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	tier.AppendHistory(models.SensorSoilMoisture, "s1", reading("s1", 10, now.Add(-48*time.Hour)))
	tier.AppendHistory(models.SensorSoilMoisture, "s2", reading("s2", 11, now.Add(-48*time.Hour)))

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())

	var migratedID string

	// cancellation lands mid-key: that key still finishes end to end,
	// the other is deferred to a later run
	store.EXPECT().
		SaveArchiveBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, batch *db.ArchiveBatch) error {
			migratedID = batch.SensorID
			cancel()
			return nil
		}).
		Times(1)

	a.runCycle(ctx)

	_, err := tier.History(models.SensorSoilMoisture, migratedID, 0)
	assert.ErrorIs(t, err, cache.ErrNotFound, "the in-flight key was migrated and pruned")

	deferred := "s2"
	if migratedID == "s2" {
		deferred = "s1"
	}

	history, err := tier.History(models.SensorSoilMoisture, deferred, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "the deferred key keeps its cold history")
}

func TestAppendDuringCycleSurvivesPrune(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tier := newTestTier()
	store := db.NewMockService(ctrl)

	now := time.Now()
	tier.AppendHistory(models.SensorSoilMoisture, "s1", reading("s1", 10, now.Add(-48*time.Hour)))

	a := NewArchiver(tier, store, time.Hour, 24*time.Hour, logger.Nop())
	a.now = func() time.Time { return now }

	racer := reading("s1", 30, now)

	// append lands while the batch is being written, after the scan
	store.EXPECT().
		SaveArchiveBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *db.ArchiveBatch) error {
			tier.AppendHistory(models.SensorSoilMoisture, "s1", racer)
			return nil
		})

	a.RunCycle()

	history, err := tier.History(models.SensorSoilMoisture, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, racer, history[0], "the racing append survives the prune")
}
