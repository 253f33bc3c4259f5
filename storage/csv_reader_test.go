package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"car-dashboard/models"
)

const sampleCSV = "車種名,グレード,支払総額,年式,走行距離,修復歴,広告枠\n" +
	"トヨタ GR86,RZ,\"298.5万円\",2022(R04),1.2万km,なし,PR\n" +
	"スバル BRZ,S,310万円,2023\n"

func TestReadRawCSV(t *testing.T) {
	records, err := ReadRawCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "トヨタ GR86", records[0][models.ColName])
	assert.Equal(t, "298.5万円", records[0][models.ColPrice])
	assert.Equal(t, "なし", records[0][models.ColRepairHistory])
	assert.NotContains(t, records[0], "広告枠")

	// short rows keep what they have
	assert.Equal(t, "2023", records[1][models.ColYear])
	assert.NotContains(t, records[1], models.ColMileage)
}

func TestReadRawCSVWithBOM(t *testing.T) {
	records, err := ReadRawCSV(strings.NewReader("\ufeff" + sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "トヨタ GR86", records[0][models.ColName])
}

func TestReadRawCSVShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String(sampleCSV)
	require.NoError(t, err)

	records, err := ReadRawCSV(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "トヨタ GR86", records[0][models.ColName])
	assert.Equal(t, "1.2万km", records[0][models.ColMileage])
}

func TestReadRawCSVEmpty(t *testing.T) {
	records, err := ReadRawCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBatchDateFromPath(t *testing.T) {
	tests := []struct {
		path string
		want time.Time
	}{
		{"data/GR86/2025_08_06/2025_08_06_gr86.csv", time.Date(2025, 8, 6, 0, 0, 0, 0, time.UTC)},
		{"2024_12_31.csv", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"gr86_2025_08_06.csv", time.Time{}},
		{"2025_13_01_gr86.csv", time.Time{}},
		{"2025_02_30_gr86.csv", time.Time{}},
		{"listing.csv", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchDateFromPath(tt.path))
		})
	}
}
