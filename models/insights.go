package models

import "time"

// LabeledCount is one bar of a categorical histogram.
type LabeledCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PriceBin is one bar of the price histogram, in 万円.
type PriceBin struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Closed bool    `json:"closed"` // true when End is inclusive
	Label  string  `json:"label"`
	Count  int     `json:"count"`
}

// TrendPoint holds the price statistics of one acquisition date, in 万円.
type TrendPoint struct {
	Date    time.Time `json:"date"`
	Unknown bool      `json:"unknown"`
	Label   string    `json:"label"`
	Average float64   `json:"average"`
	Median  float64   `json:"median"`
	Min     float64   `json:"min"`
	Max     int64     `json:"max"`
	Count   int       `json:"count"` // records with a known price
}

// GradeStat is the average price of one cleaned grade, in 万円.
type GradeStat struct {
	Grade        string  `json:"grade"`
	AveragePrice float64 `json:"average_price"`
	Count        int     `json:"count"`
}

// Point is a scatter plot point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AggregationResult holds the computed analytics over a filtered subset.
// Prices are expressed in 万円 (ten-thousand yen).
type AggregationResult struct {
	TotalCount              int     `json:"total_count"`
	AveragePrice            float64 `json:"average_price"`
	MedianPrice             float64 `json:"median_price"`
	MinPrice                float64 `json:"min_price"`
	MaxPrice                int64   `json:"max_price"`
	UniqueGradeCount        int     `json:"unique_grade_count"`
	RepairHistoryPercentage float64 `json:"repair_history_percentage"`

	YearHistogram  []LabeledCount `json:"year_histogram"`
	PriceHistogram []PriceBin     `json:"price_histogram"`
	PriceTrend     []TrendPoint   `json:"price_trend"`
	GradeAnalysis  []GradeStat    `json:"grade_analysis"`
	MileagePrice   []Point        `json:"mileage_price"`
}
