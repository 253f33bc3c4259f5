package storage

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
)

func TestWriteVehiclesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVehiclesCSV(&buf, sampleVehicles()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, VehicleColumns, rows[0])
	assert.Equal(t, "2985000", rows[1][4])
	assert.Equal(t, "false", rows[1][8])
	assert.Equal(t, "2025-08-06", rows[1][15])
	assert.Equal(t, "禁煙車, ワンオーナー", rows[1][17])
	assert.Equal(t, "0", rows[2][4])
	assert.Equal(t, "true", rows[2][8])
	assert.Equal(t, "", rows[2][15])
}

func TestCSVWriterCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "export.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleVehicles()))
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRawCSVWriterIsReadableByLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2025_08_06_gr86.csv")
	w, err := NewRawCSVWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteRaw([]models.RawRecord{
		{models.ColName: "トヨタ GR86", models.ColPrice: "298.5万円", models.ColComments: "a,b"},
		{models.ColName: "スバル BRZ", models.ColRepairHistory: "あり"},
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := ReadRawCSV(f)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "298.5万円", records[0][models.ColPrice])
	assert.Equal(t, "a,b", records[0][models.ColComments])
	assert.Equal(t, "あり", records[1][models.ColRepairHistory])
	assert.Equal(t, "", records[1][models.ColPrice])
}
