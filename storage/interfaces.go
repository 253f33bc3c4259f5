package storage

import "car-dashboard/models"

// VehicleWriter is the interface any export or snapshot backend must satisfy.
type VehicleWriter interface {
	Write(vehicles []models.Vehicle) error
	Close() error
}

// RawRecordWriter is the interface for persisting unprocessed scraped rows.
type RawRecordWriter interface {
	WriteRaw(records []models.RawRecord) error
	Close() error
}

// VehicleReader reloads a previously stored dataset in load order.
type VehicleReader interface {
	FetchAll() (models.Dataset, error)
}

var (
	_ VehicleWriter   = (*CSVWriter)(nil)
	_ VehicleWriter   = (*XLSXWriter)(nil)
	_ VehicleWriter   = (*PostgresWriter)(nil)
	_ VehicleWriter   = (*SQLiteWriter)(nil)
	_ VehicleReader   = (*PostgresWriter)(nil)
	_ VehicleReader   = (*SQLiteWriter)(nil)
	_ RawRecordWriter = (*RawCSVWriter)(nil)
)
