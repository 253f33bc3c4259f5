package storage

import (
	"time"

	"car-dashboard/models"
)

func sampleVehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			ID:                  "3f1c8a4e-0000-4000-8000-000000000001",
			Name:                "トヨタ GR86",
			Model:               "GR86",
			Grade:               "RZ",
			Price:               2985000,
			Year:                2022,
			Mileage:             12000,
			Transmission:        "MT",
			EngineCapacity:      "2400cc",
			Comments:            "禁煙車, ワンオーナー",
			AcquisitionDateTime: "2025-08-06 10:15:00",
			AcquisitionDate:     "2025-08-06",
			AcquisitionTime:     "10:15:00",
			SourceURL:           "https://www.carsensor.net/usedcar/search.php",
			DetailURL:           "https://www.carsensor.net/usedcar/detail/AU1/index.html",
			BatchDate:           time.Date(2025, 8, 6, 0, 0, 0, 0, time.UTC),
			SourceGroup:         "GR86",
		},
		{
			ID:               "3f1c8a4e-0000-4000-8000-000000000002",
			Name:             "スバル BRZ",
			Grade:            "S",
			HasRepairHistory: true,
			SourceGroup:      "GR86",
		},
	}
}
