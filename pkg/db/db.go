package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/groundsense/groundwatch/pkg/models"
)

const createTablesSQL = `
	-- One row per migrated batch of cold history for a sensor key
	CREATE TABLE IF NOT EXISTS archive_batches (
		batch_id TEXT PRIMARY KEY,
		sensor_type TEXT NOT NULL,
		sensor_id TEXT NOT NULL,
		entry_count INTEGER NOT NULL,
		archived_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Archived readings; the natural key makes re-migration after a
	-- crash an upsert no-op instead of a duplicate row
	CREATE TABLE IF NOT EXISTS archived_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		sensor_type TEXT NOT NULL,
		sensor_id TEXT NOT NULL,
		recorded_at TIMESTAMP NOT NULL,
		soil_raw INTEGER,
		soil_pct REAL,
		tilt INTEGER,
		vib_pulse INTEGER,
		vib_hit INTEGER,
		FOREIGN KEY (batch_id) REFERENCES archive_batches(batch_id) ON DELETE CASCADE,
		UNIQUE (sensor_type, sensor_id, recorded_at)
	);

	CREATE INDEX IF NOT EXISTS idx_archived_readings_key_time
		ON archived_readings(sensor_type, sensor_id, recorded_at);

	PRAGMA foreign_keys=ON;
	`

// DB wraps the SQLite connection behind the Service interface.
type DB struct {
	*sql.DB
}

// New opens (or creates) the cold store at dbPath and initializes the
// schema.
func New(dbPath string) (Service, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// WAL keeps archival writes from blocking dashboard reads
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	if _, err := sqlDB.Exec(createTablesSQL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return &DB{sqlDB}, nil
}

// SaveArchiveBatch implements Service.
func (db *DB) SaveArchiveBatch(ctx context.Context, batch *ArchiveBatch) error {
	if len(batch.Readings) == 0 {
		return ErrEmptyBatch
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO archive_batches (batch_id, sensor_type, sensor_id, entry_count, archived_at)
		 VALUES (?, ?, ?, ?, ?)`,
		batch.ID, string(batch.SensorType), batch.SensorID, len(batch.Readings), batch.ArchivedAt,
	); err != nil {
		return fmt.Errorf("%w batch %s: %w", ErrFailedToInsert, batch.ID, err)
	}

	for i := range batch.Readings {
		if err := insertReading(ctx, tx, batch.ID, &batch.Readings[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w batch %s: %w", ErrFailedToInsert, batch.ID, err)
	}

	return nil
}

func insertReading(ctx context.Context, tx *sql.Tx, batchID string, r *models.Reading) error {
	var soilRaw, tilt, vibPulse, vibHit sql.NullInt64

	var soilPct sql.NullFloat64

	switch r.Type {
	case models.SensorSoilMoisture:
		soilRaw = sql.NullInt64{Int64: int64(r.Moisture.Raw), Valid: true}
		soilPct = sql.NullFloat64{Float64: r.Moisture.Percent, Valid: true}
	case models.SensorTilt:
		tilt = sql.NullInt64{Int64: int64(r.Tilt.State), Valid: true}
	case models.SensorVibration:
		vibPulse = sql.NullInt64{Int64: int64(r.Vibration.Pulse), Valid: true}
		vibHit = sql.NullInt64{Int64: int64(r.Vibration.Hit), Valid: true}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO archived_readings
		 (batch_id, sensor_type, sensor_id, recorded_at, soil_raw, soil_pct, tilt, vib_pulse, vib_hit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID, string(r.Type), r.SensorID, r.RecordedAt, soilRaw, soilPct, tilt, vibPulse, vibHit,
	); err != nil {
		return fmt.Errorf("%w reading %s/%s: %w", ErrFailedToInsert, r.Type, r.SensorID, err)
	}

	return nil
}

// ArchivedReadingCount implements Service.
func (db *DB) ArchivedReadingCount(ctx context.Context, t models.SensorType, id string) (int, error) {
	var count int

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM archived_readings WHERE sensor_type = ? AND sensor_id = ?`,
		string(t), id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return count, nil
}
