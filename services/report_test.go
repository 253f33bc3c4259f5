package services

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"car-dashboard/models"
)

func TestPrintReport(t *testing.T) {
	var vehicles []models.Vehicle
	for i := 0; i < 25; i++ {
		vehicles = append(vehicles, models.Vehicle{
			Grade:     fmt.Sprintf("G%d", i%3),
			Price:     int64(2000000 + i*10000),
			Year:      2020 + i%3,
			Mileage:   10000 + i*1000,
			BatchDate: day(2025, 8, 1),
		})
	}
	svc := NewInsightService(newTestLogger())

	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(vehicles))
	out := buf.String()

	for _, title := range []string{"Overview", "Year distribution", "Price distribution", "Price trend", "Average price by grade", "Mileage vs price"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "2025/08/01")
	assert.Contains(t, out, "5 more")
	assert.Contains(t, out, "Mileage (万km)")
	assert.NotContains(t, out, "MILEAGE")
}

func TestPrintReportEmpty(t *testing.T) {
	svc := NewInsightService(newTestLogger())

	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(nil))

	assert.Contains(t, buf.String(), "No records match the current filter")
	assert.False(t, strings.Contains(buf.String(), "Year distribution"))
}
