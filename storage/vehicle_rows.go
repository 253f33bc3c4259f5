package storage

import (
	"strings"
	"time"

	"car-dashboard/models"
)

// vehicleColumns lists the snapshot table columns in insert order.
var vehicleColumns = []string{
	"id", "name", "model", "grade", "price", "year", "mileage", "transmission",
	"has_repair_history", "engine_capacity", "comments", "acquisition_date_time",
	"acquisition_date", "acquisition_time", "source_url", "detail_url",
	"batch_date", "source_group",
}

var vehicleColumnList = strings.Join(vehicleColumns, ", ")

func vehicleArgs(v models.Vehicle) []interface{} {
	return []interface{}{
		v.ID, v.Name, v.Model, v.Grade, v.Price, v.Year, v.Mileage, v.Transmission,
		v.HasRepairHistory, v.EngineCapacity, v.Comments, v.AcquisitionDateTime,
		v.AcquisitionDate, v.AcquisitionTime, v.SourceURL, v.DetailURL,
		formatDate(v), v.SourceGroup,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row rowScanner) (models.Vehicle, error) {
	var v models.Vehicle
	var batchDate string
	err := row.Scan(
		&v.ID, &v.Name, &v.Model, &v.Grade, &v.Price, &v.Year, &v.Mileage, &v.Transmission,
		&v.HasRepairHistory, &v.EngineCapacity, &v.Comments, &v.AcquisitionDateTime,
		&v.AcquisitionDate, &v.AcquisitionTime, &v.SourceURL, &v.DetailURL,
		&batchDate, &v.SourceGroup,
	)
	if err != nil {
		return v, err
	}
	if batchDate != "" {
		if d, err := time.Parse(dateLayout, batchDate); err == nil {
			v.BatchDate = d
		}
	}
	return v, nil
}
