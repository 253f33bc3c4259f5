package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"car-dashboard/models"
)

// FilterFile is the YAML form of a saved filter. Omitted fields keep the
// value of the base spec they are applied to. Prices are in yen.
type FilterFile struct {
	Grades          []string `yaml:"grades"`
	MinYear         *int     `yaml:"min_year"`
	MaxYear         *int     `yaml:"max_year"`
	MinPrice        *int64   `yaml:"min_price"`
	MaxPrice        *int64   `yaml:"max_price"`
	MinMileage      *int     `yaml:"min_mileage"`
	MaxMileage      *int     `yaml:"max_mileage"`
	Transmission    string   `yaml:"transmission"`
	RepairHistory   string   `yaml:"repair_history"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// LoadFilterFile reads a YAML filter file and overlays it onto base.
func LoadFilterFile(path string, base models.FilterSpec) (models.FilterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("filter: read %q: %w", path, err)
	}

	var f FilterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("filter: parse %q: %w", path, err)
	}
	return f.Apply(base)
}

// Apply returns base with every field set in f replaced.
func (f FilterFile) Apply(base models.FilterSpec) (models.FilterSpec, error) {
	spec := base
	if len(f.Grades) > 0 {
		spec.SelectedGrades = append([]string(nil), f.Grades...)
	}
	if f.MinYear != nil {
		spec.MinYear = *f.MinYear
	}
	if f.MaxYear != nil {
		spec.MaxYear = *f.MaxYear
	}
	if f.MinPrice != nil {
		spec.MinPrice = *f.MinPrice
	}
	if f.MaxPrice != nil {
		spec.MaxPrice = *f.MaxPrice
	}
	if f.MinMileage != nil {
		spec.MinMileage = *f.MinMileage
	}
	if f.MaxMileage != nil {
		spec.MaxMileage = *f.MaxMileage
	}
	if f.Transmission != "" {
		spec.Transmission = f.Transmission
	}
	if f.RepairHistory != "" {
		r, err := models.ParseRepairFilter(f.RepairHistory)
		if err != nil {
			return base, fmt.Errorf("filter: %w", err)
		}
		spec.RepairHistory = r
	}
	if len(f.ExcludeKeywords) > 0 {
		spec.ExcludeKeywords = append(append([]string(nil), spec.ExcludeKeywords...), f.ExcludeKeywords...)
	}
	return spec, nil
}
