package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
)

func newMockWriter(t *testing.T) (*PostgresWriter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS vehicles").WillReturnResult(sqlmock.NewResult(0, 0))
	pw, err := NewPostgresWriterFromDB(db)
	require.NoError(t, err)
	return pw, mock
}

func TestPostgresWriterWrite(t *testing.T) {
	pw, mock := newMockWriter(t)
	vehicles := sampleVehicles()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vehicles").WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`INSERT INTO vehicles \(id, name, .*\)\s+VALUES \(\$1,.*\$18\),\(\$19,.*\$36\)\s+ON CONFLICT \(id\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, pw.Write(vehicles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterWriteBatches(t *testing.T) {
	pw, mock := newMockWriter(t)
	vehicles := make([]models.Vehicle, postgresBatchSize+1)
	for i := range vehicles {
		vehicles[i].ID = fmt.Sprintf("id-%d", i)
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vehicles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO vehicles").WillReturnResult(sqlmock.NewResult(0, postgresBatchSize))
	mock.ExpectExec("INSERT INTO vehicles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, pw.Write(vehicles))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterRollsBackOnError(t *testing.T) {
	pw, mock := newMockWriter(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vehicles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO vehicles").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := pw.Write(sampleVehicles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriterFetchAll(t *testing.T) {
	pw, mock := newMockWriter(t)

	rows := sqlmock.NewRows(vehicleColumns).
		AddRow("a", "トヨタ GR86", "GR86", "RZ", int64(2985000), int64(2022), int64(12000), "MT",
			true, "2400cc", "", "", "", "", "", "", "2025-08-06", "GR86").
		AddRow("b", "スバル BRZ", "", "S", int64(0), int64(0), int64(0), "",
			false, "", "", "", "", "", "", "", "", "GR86")
	mock.ExpectQuery(`SELECT id, name, .* FROM vehicles\s+ORDER BY seq`).WillReturnRows(rows)

	dataset, err := pw.FetchAll()
	require.NoError(t, err)
	require.Len(t, dataset, 2)

	assert.Equal(t, "a", dataset[0].ID)
	assert.Equal(t, int64(2985000), dataset[0].Price)
	assert.Equal(t, 2022, dataset[0].Year)
	assert.True(t, dataset[0].HasRepairHistory)
	assert.Equal(t, time.Date(2025, 8, 6, 0, 0, 0, 0, time.UTC), dataset[0].BatchDate)
	assert.True(t, dataset[1].BatchDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
