package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"car-dashboard/models"
)

func TestXLSXWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	w, err := NewXLSXWriter(path)
	require.NoError(t, err)

	w.WithSummary(models.AggregationResult{TotalCount: 2, AveragePrice: 298.5, MaxPrice: 298})
	require.NoError(t, w.Write(sampleVehicles()))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{vehicleSheet, summarySheet}, f.GetSheetList())

	rows, err := f.GetRows(vehicleSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, VehicleColumns, rows[0])
	assert.Equal(t, "トヨタ GR86", rows[1][1])
	assert.Equal(t, "2985000", rows[1][4])

	total, err := f.GetCellValue(summarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
	avg, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "298.5", avg)
}

func TestXLSXWriterWithoutSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	w, err := NewXLSXWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{vehicleSheet}, f.GetSheetList())
}
