package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"car-dashboard/models"
	"car-dashboard/utils"
)

const postgresBatchSize = 50

// PostgresWriter persists a dataset snapshot to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, waiting for the server
// with retry, runs schema migrations and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw, err := NewPostgresWriterFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return pw, nil
}

// NewPostgresWriterFromDB wraps an open connection and runs migrations.
func NewPostgresWriterFromDB(db *sql.DB) (*PostgresWriter, error) {
	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			seq                   BIGSERIAL PRIMARY KEY,
			id                    TEXT    UNIQUE NOT NULL,
			name                  TEXT    NOT NULL DEFAULT '',
			model                 TEXT    NOT NULL DEFAULT '',
			grade                 TEXT    NOT NULL DEFAULT '',
			price                 BIGINT  NOT NULL DEFAULT 0,
			year                  INTEGER NOT NULL DEFAULT 0,
			mileage               INTEGER NOT NULL DEFAULT 0,
			transmission          TEXT    NOT NULL DEFAULT '',
			has_repair_history    BOOLEAN NOT NULL DEFAULT FALSE,
			engine_capacity       TEXT    NOT NULL DEFAULT '',
			comments              TEXT    NOT NULL DEFAULT '',
			acquisition_date_time TEXT    NOT NULL DEFAULT '',
			acquisition_date      TEXT    NOT NULL DEFAULT '',
			acquisition_time      TEXT    NOT NULL DEFAULT '',
			source_url            TEXT    NOT NULL DEFAULT '',
			detail_url            TEXT    NOT NULL DEFAULT '',
			batch_date            TEXT    NOT NULL DEFAULT '',
			source_group          TEXT    NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_vehicles_price ON vehicles(price);
		CREATE INDEX IF NOT EXISTS idx_vehicles_grade ON vehicles(grade);
		CREATE INDEX IF NOT EXISTS idx_vehicles_group ON vehicles(source_group);
	`)
	return err
}

// Write replaces the stored snapshot with vehicles inside one transaction.
func (pw *PostgresWriter) Write(vehicles []models.Vehicle) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vehicles"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for i := 0; i < len(vehicles); i += postgresBatchSize {
		end := i + postgresBatchSize
		if end > len(vehicles) {
			end = len(vehicles)
		}
		if err := insertBatch(tx, vehicles[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(tx *sql.Tx, batch []models.Vehicle) error {
	n := len(vehicleColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, v := range batch {
		placeholders := make([]string, n)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*n+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, vehicleArgs(v)...)
	}

	query := fmt.Sprintf(`
		INSERT INTO vehicles (%s)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, vehicleColumnList, strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll reloads the stored snapshot in its original load order.
func (pw *PostgresWriter) FetchAll() (models.Dataset, error) {
	rows, err := pw.db.Query(fmt.Sprintf(`
		SELECT %s
		FROM vehicles
		ORDER BY seq
	`, vehicleColumnList))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var dataset models.Dataset
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		dataset = append(dataset, v)
	}
	return dataset, rows.Err()
}
