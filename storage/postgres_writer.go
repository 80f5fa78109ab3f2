package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"crash-severity-prep/models"
	"crash-severity-prep/utils"
)

// mergedColumnCount is the number of bind parameters per inserted row.
const mergedColumnCount = 20

// PostgresWriter exports merged records to PostgreSQL for ad-hoc analysis.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it to accept
// pings, runs schema migrations and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := newPostgresWriter(db, retry.Logger)
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func newPostgresWriter(db *sql.DB, logger *utils.Logger) *PostgresWriter {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &PostgresWriter{db: db, logger: logger}
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS merged_records (
			id                                BIGSERIAL PRIMARY KEY,
			run_id                            UUID         NOT NULL,
			crash_fact_id                     TEXT         NOT NULL,
			crash_name                        TEXT         NOT NULL,
			minor_injuries                    INTEGER      NOT NULL DEFAULT 0,
			moderate_injuries                 INTEGER      NOT NULL DEFAULT 0,
			severe_injuries                   INTEGER      NOT NULL DEFAULT 0,
			fatal_injuries                    INTEGER      NOT NULL DEFAULT 0,
			primary_collision_factor_code     SMALLINT     NOT NULL,
			collision_type_code               SMALLINT     NOT NULL,
			distance                          DOUBLE PRECISION NOT NULL DEFAULT 0,
			crash_hour                        SMALLINT     NOT NULL,
			speeding_flag                     SMALLINT     NOT NULL DEFAULT 0,
			party_type_code                   SMALLINT     NOT NULL,
			age                               INTEGER      NOT NULL DEFAULT 0,
			sobriety_code                     SMALLINT     NOT NULL,
			vehicle_damage_code               SMALLINT     NOT NULL,
			movement_preceding_collision_code SMALLINT     NOT NULL,
			violation_code                    INTEGER      NOT NULL DEFAULT 0,
			age_group                         SMALLINT     NOT NULL,
			severity_code                     SMALLINT     NOT NULL,
			created_at                        TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_merged_records_run   ON merged_records(run_id);
		CREATE INDEX IF NOT EXISTS idx_merged_records_crash ON merged_records(crash_name);
	`)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Write replaces every earlier run with records stored under runID. The
// delete and all inserts share one transaction, so a failure leaves the
// table as it was.
func (pw *PostgresWriter) Write(runID string, records []*models.MergedRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM merged_records WHERE run_id <> $1", runID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := insertBatch(tx, runID, records[i:end]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: insert rows %d-%d: %w", i, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	pw.logger.Debug("[postgres] Inserted %d merged records for run %s", len(records), runID)
	return nil
}

func insertBatch(ex execer, runID string, batch []*models.MergedRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*mergedColumnCount)

	for idx, m := range batch {
		base := idx * mergedColumnCount
		placeholders := make([]string, mergedColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")

		c, p := m.Crash, m.Party
		valueArgs = append(valueArgs,
			runID, c.CrashFactID, c.Name,
			c.Injuries.Minor, c.Injuries.Moderate, c.Injuries.Severe, c.Injuries.Fatal,
			c.PrimaryCollisionFactorCode, c.CollisionTypeCode, c.Distance, c.CrashHour, c.SpeedingFlag,
			p.PartyTypeCode, p.Age, p.SobrietyCode, p.VehicleDamageCode,
			p.MovementPrecedingCollisionCode, p.ViolationCode, p.AgeGroup,
			models.DeriveSeverity(c.Injuries).Code())
	}

	query := fmt.Sprintf(`
		INSERT INTO merged_records (
			run_id, crash_fact_id, crash_name,
			minor_injuries, moderate_injuries, severe_injuries, fatal_injuries,
			primary_collision_factor_code, collision_type_code, distance, crash_hour, speeding_flag,
			party_type_code, age, sobriety_code, vehicle_damage_code,
			movement_preceding_collision_code, violation_code, age_group,
			severity_code
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ex.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
