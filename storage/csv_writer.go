package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"car-dashboard/models"
)

const dateLayout = "2006-01-02"

// VehicleColumns is the header row of an exported dataset.
var VehicleColumns = []string{
	"Id", "Name", "Model", "Grade", "Price", "Year", "Mileage", "Transmission",
	"HasRepairHistory", "EngineCapacity", "AcquisitionDateTime", "AcquisitionDate",
	"AcquisitionTime", "SourceUrl", "DetailUrl", "DataDate", "CarModel", "Comments",
}

// WriteVehiclesCSV writes vehicles as UTF-8 CSV with a BOM so spreadsheet
// applications detect the encoding.
func WriteVehiclesCSV(w io.Writer, vehicles []models.Vehicle) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(VehicleColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, v := range vehicles {
		if err := cw.Write(vehicleRow(v)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func vehicleRow(v models.Vehicle) []string {
	return []string{
		v.ID,
		v.Name,
		v.Model,
		v.Grade,
		strconv.FormatInt(v.Price, 10),
		strconv.Itoa(v.Year),
		strconv.Itoa(v.Mileage),
		v.Transmission,
		strconv.FormatBool(v.HasRepairHistory),
		v.EngineCapacity,
		v.AcquisitionDateTime,
		v.AcquisitionDate,
		v.AcquisitionTime,
		v.SourceURL,
		v.DetailURL,
		formatDate(v),
		v.SourceGroup,
		v.Comments,
	}
}

func formatDate(v models.Vehicle) string {
	if v.BatchDate.IsZero() {
		return ""
	}
	return v.BatchDate.Format(dateLayout)
}

// CSVWriter exports a dataset to a CSV file.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer targeting path. Intermediate directories are
// created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

// Write creates (or truncates) the file and writes all vehicles to it.
func (c *CSVWriter) Write(vehicles []models.Vehicle) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	if err := WriteVehiclesCSV(f, vehicles); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *CSVWriter) Close() error {
	return nil
}

// RawCSVWriter writes scraped rows with the source headers so the loader can
// read them back. It is safe for concurrent use.
type RawCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewRawCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row.
func NewRawCSVWriter(path string) (*RawCSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if _, err := f.Write(utf8BOM); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.RawColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &RawCSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends records to the file.
func (c *RawCSVWriter) WriteRaw(records []models.RawRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		row := make([]string, len(models.RawColumns))
		for i, col := range models.RawColumns {
			row[i] = r[col]
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *RawCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
