package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"car-dashboard/models"
)

// SQLiteWriter persists a dataset snapshot to a local SQLite file.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path and runs migrations.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create output dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	sw := &SQLiteWriter{db: db}
	if err := sw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

func (sw *SQLiteWriter) migrate() error {
	_, err := sw.db.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			seq                   INTEGER PRIMARY KEY AUTOINCREMENT,
			id                    TEXT    UNIQUE NOT NULL,
			name                  TEXT    NOT NULL DEFAULT '',
			model                 TEXT    NOT NULL DEFAULT '',
			grade                 TEXT    NOT NULL DEFAULT '',
			price                 INTEGER NOT NULL DEFAULT 0,
			year                  INTEGER NOT NULL DEFAULT 0,
			mileage               INTEGER NOT NULL DEFAULT 0,
			transmission          TEXT    NOT NULL DEFAULT '',
			has_repair_history    BOOLEAN NOT NULL DEFAULT 0,
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
		CREATE INDEX IF NOT EXISTS idx_vehicles_group ON vehicles(source_group);
	`)
	return err
}

// Write replaces the stored snapshot with vehicles inside one transaction.
func (sw *SQLiteWriter) Write(vehicles []models.Vehicle) error {
	tx, err := sw.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vehicles"); err != nil {
		return fmt.Errorf("sqlite: clear: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(vehicleColumns)), ",")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT OR IGNORE INTO vehicles (%s) VALUES (%s)", vehicleColumnList, placeholders))
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		if _, err := stmt.Exec(vehicleArgs(v)...); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchAll reloads the stored snapshot in its original load order.
func (sw *SQLiteWriter) FetchAll() (models.Dataset, error) {
	rows, err := sw.db.Query(fmt.Sprintf("SELECT %s FROM vehicles ORDER BY seq", vehicleColumnList))
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch all: %w", err)
	}
	defer rows.Close()

	var dataset models.Dataset
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		dataset = append(dataset, v)
	}
	return dataset, rows.Err()
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}
