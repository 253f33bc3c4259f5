package services

import (
	"math"
	"sort"
	"strings"

	"car-dashboard/models"
)

// Filter returns the vehicles of dataset that satisfy every criterion of spec,
// in dataset order. The dataset is never modified.
func Filter(dataset []models.Vehicle, spec models.FilterSpec) models.Dataset {
	var grades map[string]struct{}
	if len(spec.SelectedGrades) > 0 {
		grades = make(map[string]struct{}, len(spec.SelectedGrades))
		for _, g := range spec.SelectedGrades {
			grades[g] = struct{}{}
		}
	}

	keywords := make([]string, 0, len(spec.ExcludeKeywords))
	for _, k := range spec.ExcludeKeywords {
		// a blank keyword would match every name, so it is ignored
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	result := make(models.Dataset, 0, len(dataset))
	for _, v := range dataset {
		if grades != nil {
			if _, ok := grades[v.Grade]; !ok {
				continue
			}
		}
		if v.Year < spec.MinYear || v.Year > spec.MaxYear {
			continue
		}
		if v.Price < spec.MinPrice || v.Price > spec.MaxPrice {
			continue
		}
		if v.Mileage < spec.MinMileage || v.Mileage > spec.MaxMileage {
			continue
		}
		if !matchTransmission(v, spec.Transmission) {
			continue
		}
		if !matchRepair(v, spec.RepairHistory) {
			continue
		}
		if containsKeyword(v, keywords) {
			continue
		}
		result = append(result, v)
	}
	return result
}

func matchTransmission(v models.Vehicle, selected string) bool {
	return selected == "" || selected == models.AllOption || v.Transmission == selected
}

func matchRepair(v models.Vehicle, selector models.RepairFilter) bool {
	switch selector {
	case models.RepairNone:
		return !v.HasRepairHistory
	case models.RepairPresent:
		return v.HasRepairHistory
	default:
		return true
	}
}

func containsKeyword(v models.Vehicle, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(v.Name, k) || strings.Contains(v.Grade, k) || strings.Contains(v.Comments, k) {
			return true
		}
	}
	return false
}

// OpenFilterSpec returns a spec that lets every vehicle through, including
// those with unknown year, price or mileage.
func OpenFilterSpec() models.FilterSpec {
	return models.FilterSpec{
		MaxYear:       math.MaxInt,
		MaxPrice:      math.MaxInt64,
		MaxMileage:    math.MaxInt,
		Transmission:  models.AllOption,
		RepairHistory: models.RepairAll,
	}
}

// DeriveBounds scans a dataset for the value ranges used to seed the filter panel.
// Unknown (zero) values are ignored. Prices are widened to whole 万円.
func DeriveBounds(dataset []models.Vehicle) models.FilterBounds {
	var b models.FilterBounds
	grades := make(map[string]struct{})
	transmissions := make(map[string]struct{})

	for _, v := range dataset {
		if strings.TrimSpace(v.Grade) != "" {
			grades[v.Grade] = struct{}{}
		}
		if strings.TrimSpace(v.Transmission) != "" {
			transmissions[v.Transmission] = struct{}{}
		}
		if v.Year > 0 {
			if b.YearMin == 0 || v.Year < b.YearMin {
				b.YearMin = v.Year
			}
			if v.Year > b.YearMax {
				b.YearMax = v.Year
			}
		}
		if v.Price > 0 {
			if b.PriceMin == 0 || v.Price < b.PriceMin {
				b.PriceMin = v.Price
			}
			if v.Price > b.PriceMax {
				b.PriceMax = v.Price
			}
		}
		if v.Mileage > 0 {
			if b.MileageMin == 0 || v.Mileage < b.MileageMin {
				b.MileageMin = v.Mileage
			}
			if v.Mileage > b.MileageMax {
				b.MileageMax = v.Mileage
			}
		}
	}

	if b.PriceMax > 0 {
		b.PriceMin = int64(math.Floor(float64(b.PriceMin)/manMultiplier)) * manMultiplier
		b.PriceMax = int64(math.Ceil(float64(b.PriceMax)/manMultiplier)) * manMultiplier
	}

	b.Grades = sortedKeys(grades)
	b.Transmissions = sortedKeys(transmissions)
	return b
}

// DefaultFilterSpec is the initial filter state for a freshly loaded dataset:
// no grade restriction and each range spanning the observed values. Missing
// bounds fall back to the open range.
func DefaultFilterSpec(b models.FilterBounds) models.FilterSpec {
	spec := OpenFilterSpec()
	if b.YearMax > 0 {
		spec.MinYear, spec.MaxYear = b.YearMin, b.YearMax
	}
	if b.PriceMax > 0 {
		spec.MinPrice, spec.MaxPrice = b.PriceMin, b.PriceMax
	}
	if b.MileageMax > 0 {
		spec.MinMileage, spec.MaxMileage = b.MileageMin, b.MileageMax
	}
	return spec
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
