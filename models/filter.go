package models

import (
	"fmt"
	"strings"
)

// AllOption is the selector value meaning "do not filter on this field".
const AllOption = "すべて"

// RepairFilter is the tri-state repair-history selector.
type RepairFilter int

const (
	RepairAll RepairFilter = iota
	RepairNone
	RepairPresent
)

// String returns the selector label shown in the filter panel.
func (r RepairFilter) String() string {
	switch r {
	case RepairNone:
		return "なし"
	case RepairPresent:
		return "あり"
	default:
		return AllOption
	}
}

// ParseRepairFilter maps a selector label ("すべて"/"all", "なし"/"none",
// "あり"/"has") to a RepairFilter. Blank means all.
func ParseRepairFilter(s string) (RepairFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", AllOption, "all":
		return RepairAll, nil
	case "なし", "none":
		return RepairNone, nil
	case "あり", "has":
		return RepairPresent, nil
	}
	return RepairAll, fmt.Errorf("unknown repair history selector %q", s)
}

// FilterSpec is an immutable set of filter criteria. A new value is built on
// every user change. Prices are in yen, mileages in km; all ranges are inclusive.
type FilterSpec struct {
	SelectedGrades  []string     `json:"selected_grades"` // empty means all grades
	MinYear         int          `json:"min_year"`
	MaxYear         int          `json:"max_year"`
	MinPrice        int64        `json:"min_price"`
	MaxPrice        int64        `json:"max_price"`
	MinMileage      int          `json:"min_mileage"`
	MaxMileage      int          `json:"max_mileage"`
	Transmission    string       `json:"transmission"` // AllOption or "" means all
	RepairHistory   RepairFilter `json:"repair_history"`
	ExcludeKeywords []string     `json:"exclude_keywords"`
}

// FilterBounds holds the value ranges observed in a dataset, used to seed the
// filter panel.
type FilterBounds struct {
	Grades        []string `json:"grades"`
	Transmissions []string `json:"transmissions"`
	YearMin       int      `json:"year_min"`
	YearMax       int      `json:"year_max"`
	PriceMin      int64    `json:"price_min"`
	PriceMax      int64    `json:"price_max"`
	MileageMin    int      `json:"mileage_min"`
	MileageMax    int      `json:"mileage_max"`
}
