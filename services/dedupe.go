package services

import "car-dashboard/models"

// dedupeKey is the identity of a listing for duplicate detection. Listings
// captured on different days with the same core attributes collapse into one.
type dedupeKey struct {
	name    string
	grade   string
	price   int64
	year    int
	mileage int
}

// Dedupe keeps the first occurrence of each (name, grade, price, year, mileage)
// tuple and drops later ones, preserving the order of the survivors.
func Dedupe(records []models.Vehicle) models.Dataset {
	seen := make(map[dedupeKey]struct{}, len(records))
	result := make(models.Dataset, 0, len(records))

	for _, v := range records {
		key := dedupeKey{v.Name, v.Grade, v.Price, v.Year, v.Mileage}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, v)
	}
	return result
}
