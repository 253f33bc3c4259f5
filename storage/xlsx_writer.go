package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"car-dashboard/models"
)

const (
	vehicleSheet = "vehicles"
	summarySheet = "summary"
)

// XLSXWriter exports a dataset to an Excel workbook, optionally with a summary
// sheet holding the aggregation scalars.
type XLSXWriter struct {
	path    string
	summary *models.AggregationResult
}

// NewXLSXWriter returns a writer targeting path.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path}, nil
}

// WithSummary adds a summary sheet to the next Write.
func (x *XLSXWriter) WithSummary(r models.AggregationResult) *XLSXWriter {
	x.summary = &r
	return x
}

// Write builds the workbook and saves it, replacing any existing file.
func (x *XLSXWriter) Write(vehicles []models.Vehicle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", vehicleSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]interface{}, len(VehicleColumns))
	for i, c := range VehicleColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(vehicleSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, v := range vehicles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		row := []interface{}{
			v.ID, v.Name, v.Model, v.Grade, v.Price, v.Year, v.Mileage, v.Transmission,
			v.HasRepairHistory, v.EngineCapacity, v.AcquisitionDateTime, v.AcquisitionDate,
			v.AcquisitionTime, v.SourceURL, v.DetailURL, formatDate(v), v.SourceGroup, v.Comments,
		}
		if err := f.SetSheetRow(vehicleSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if x.summary != nil {
		if err := writeSummarySheet(f, *x.summary); err != nil {
			return err
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r models.AggregationResult) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx: add summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"TotalCount", r.TotalCount},
		{"AveragePrice", r.AveragePrice},
		{"MedianPrice", r.MedianPrice},
		{"MinPrice", r.MinPrice},
		{"MaxPrice", r.MaxPrice},
		{"UniqueGradeCount", r.UniqueGradeCount},
		{"RepairHistoryPercentage", r.RepairHistoryPercentage},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("xlsx: write summary: %w", err)
		}
	}
	return nil
}

func (x *XLSXWriter) Close() error {
	return nil
}
