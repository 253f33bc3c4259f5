package models

import "time"

// Source column headers as written by the listing exporter.
const (
	ColName                = "車種名"
	ColGrade               = "グレード"
	ColPrice               = "支払総額"
	ColYear                = "年式"
	ColMileage             = "走行距離"
	ColTransmission        = "ミッション"
	ColRepairHistory       = "修復歴"
	ColModel               = "モデル"
	ColDetailURL           = "車両URL"
	ColSourceURL           = "ソースURL"
	ColAcquisitionDateTime = "取得日時"
	ColAcquisitionDate     = "取得日"
	ColAcquisitionTime     = "取得時刻"
	ColEngineCapacity      = "排気量"
	ColComments            = "コメント"
)

// RawColumns lists every header the loader keeps, in export order.
var RawColumns = []string{
	ColName, ColModel, ColGrade, ColPrice, ColYear, ColMileage, ColTransmission,
	ColRepairHistory, ColEngineCapacity, ColAcquisitionDateTime, ColAcquisitionDate,
	ColAcquisitionTime, ColSourceURL, ColDetailURL, ColComments,
}

// RawRecord maps a source column header to its unprocessed text value.
// It is produced by a loader and never modified by the core.
type RawRecord map[string]string

// Provenance describes where a batch of raw records came from.
type Provenance struct {
	BatchDate   time.Time // date encoded in the batch file name; zero if not derivable
	SourceGroup string    // originating model folder
}

// RawBatch is one fully read source file.
type RawBatch struct {
	Path string
	Provenance
	Records []RawRecord
}

// Vehicle is the canonical, normalized listing. Price, Year and Mileage use 0
// as the "unknown" sentinel.
type Vehicle struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Model            string `json:"model"`
	Grade            string `json:"grade"`
	Price            int64  `json:"price"`
	Year             int    `json:"year"`
	Mileage          int    `json:"mileage"`
	Transmission     string `json:"transmission"`
	HasRepairHistory bool   `json:"has_repair_history"`
	EngineCapacity   string `json:"engine_capacity"`
	Comments         string `json:"comments"`

	AcquisitionDateTime string    `json:"acquisition_date_time"`
	AcquisitionDate     string    `json:"acquisition_date"`
	AcquisitionTime     string    `json:"acquisition_time"`
	SourceURL           string    `json:"source_url"`
	DetailURL           string    `json:"detail_url"`
	BatchDate           time.Time `json:"batch_date"`
	SourceGroup         string    `json:"source_group"`
}

// Dataset is an ordered sequence of vehicles in load order. It is replaced
// wholesale on reload and never mutated in place.
type Dataset []Vehicle

// Diagnostic records a field that could not be parsed and fell back to its sentinel.
type Diagnostic struct {
	RecordID     string `json:"record_id"`
	Field        string `json:"field"`
	OriginalText string `json:"original_text"`
	Reason       string `json:"reason"`
}
