package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"car-dashboard/models"
	"car-dashboard/utils"
)

const (
	priceBinSize   = 25.0 // 万円
	topGradeCount  = 15
	highPriceYen   = 20000000
	trendDateLabel = "2006/01/02"
	unknownLabel   = "不明"
)

// acquisitionDateLayouts are tried in order when a record has no batch date.
var acquisitionDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006.01.02",
	"2006年1月2日",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	time.RFC3339,
}

// InsightService computes dashboard statistics and chart series.
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates an InsightService with the given logger.
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate aggregates a filtered subset. Records with an unknown (zero) price,
// year or mileage still count towards TotalCount but are left out of the
// statistics they would skew. An empty subset yields a zero result.
func (s *InsightService) Generate(vehicles []models.Vehicle) models.AggregationResult {
	r := models.AggregationResult{
		YearHistogram:  []models.LabeledCount{},
		PriceHistogram: []models.PriceBin{},
		PriceTrend:     []models.TrendPoint{},
		GradeAnalysis:  []models.GradeStat{},
		MileagePrice:   []models.Point{},
	}
	if len(vehicles) == 0 {
		return r
	}

	grades := newGradeCache()

	var prices []int64
	repaired := 0
	uniqueGrades := make(map[string]struct{})
	for _, v := range vehicles {
		if v.Price > 0 {
			prices = append(prices, v.Price)
		}
		if v.HasRepairHistory {
			repaired++
		}
		uniqueGrades[grades.clean(v.Grade)] = struct{}{}
	}

	r.TotalCount = len(vehicles)
	r.UniqueGradeCount = len(uniqueGrades)
	r.RepairHistoryPercentage = round1(float64(repaired) * 100 / float64(len(vehicles)))

	if st, ok := summarize(prices); ok {
		r.AveragePrice = round1(st.average)
		r.MedianPrice = round1(st.median)
		r.MinPrice = round1(st.min)
		r.MaxPrice = st.max
		if st.maxYen > highPriceYen {
			s.logger.Warn("[insights] unusually high price in subset: %s円", humanize.Comma(st.maxYen))
		}
	}

	r.YearHistogram = yearHistogram(vehicles)
	r.PriceHistogram = priceHistogram(prices)
	r.PriceTrend = priceTrend(vehicles)
	r.GradeAnalysis = gradeAnalysis(vehicles, grades)
	r.MileagePrice = mileagePrice(vehicles)

	s.logger.Debug("[insights] %d records → %d years, %d price bins, %d dates, %d grades, %d points",
		r.TotalCount, len(r.YearHistogram), len(r.PriceHistogram), len(r.PriceTrend),
		len(r.GradeAnalysis), len(r.MileagePrice))
	return r
}

// priceStats holds price statistics in 万円. max is truncated to a whole 万円.
type priceStats struct {
	average float64
	median  float64
	min     float64
	max     int64
	maxYen  int64
}

// summarize computes statistics over positive yen prices. It reports false
// when there are none.
func summarize(prices []int64) (priceStats, bool) {
	if len(prices) == 0 {
		return priceStats{}, false
	}

	sorted := append([]int64(nil), prices...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total float64
	for _, p := range sorted {
		total += float64(p)
	}

	mid := len(sorted) / 2
	median := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}

	maxYen := sorted[len(sorted)-1]
	return priceStats{
		average: total / float64(len(sorted)) / manMultiplier,
		median:  median / manMultiplier,
		min:     float64(sorted[0]) / manMultiplier,
		max:     maxYen / manMultiplier,
		maxYen:  maxYen,
	}, true
}

func yearHistogram(vehicles []models.Vehicle) []models.LabeledCount {
	counts := make(map[int]int)
	for _, v := range vehicles {
		if v.Year > 0 {
			counts[v.Year]++
		}
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]models.LabeledCount, 0, len(years))
	for _, y := range years {
		out = append(out, models.LabeledCount{Label: strconv.Itoa(y), Count: counts[y]})
	}
	return out
}

// priceHistogram splits [floor(min), ceil(max)] into 25万円 bins. Every bin is
// half-open except the last, which is closed and ends at ceil(max).
func priceHistogram(prices []int64) []models.PriceBin {
	if len(prices) == 0 {
		return []models.PriceBin{}
	}

	values := make([]float64, len(prices))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range prices {
		values[i] = float64(p) / manMultiplier
		lo = math.Min(lo, values[i])
		hi = math.Max(hi, values[i])
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)

	n := int(math.Ceil((hi - lo) / priceBinSize))
	if n < 1 {
		n = 1
	}

	bins := make([]models.PriceBin, n)
	for i := range bins {
		start := lo + float64(i)*priceBinSize
		end := start + priceBinSize
		last := i == n-1
		if last {
			end = hi
		}
		bins[i] = models.PriceBin{
			Start:  start,
			End:    end,
			Closed: last,
			Label:  humanize.Comma(int64(start)) + "-" + humanize.Comma(int64(end)),
		}
	}

	for _, p := range values {
		idx := int((p - lo) / priceBinSize)
		if idx >= n {
			idx = n - 1
		}
		bins[idx].Count++
	}
	return bins
}

// effectiveDate picks the date a record is plotted on: the batch date, else the
// acquisition date, else the acquisition timestamp. ok is false when none parse.
func effectiveDate(v models.Vehicle) (time.Time, bool) {
	if !v.BatchDate.IsZero() {
		return dayOf(v.BatchDate), true
	}
	for _, text := range []string{v.AcquisitionDate, v.AcquisitionDateTime} {
		if d, ok := parseAcquisitionDate(text); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseAcquisitionDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range acquisitionDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return dayOf(t), true
		}
	}
	return time.Time{}, false
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// priceTrend groups records by effective date in ascending order. Records
// without any usable date form a single trailing "unknown" group. A group
// without priced records yields zero statistics.
func priceTrend(vehicles []models.Vehicle) []models.TrendPoint {
	byDate := make(map[time.Time][]int64)
	var dates []time.Time
	var unknown []int64
	hasUnknown := false

	for _, v := range vehicles {
		d, ok := effectiveDate(v)
		if !ok {
			hasUnknown = true
			if v.Price > 0 {
				unknown = append(unknown, v.Price)
			}
			continue
		}
		prices, seen := byDate[d]
		if !seen {
			dates = append(dates, d)
		}
		if v.Price > 0 {
			prices = append(prices, v.Price)
		}
		byDate[d] = prices
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]models.TrendPoint, 0, len(dates)+1)
	for _, d := range dates {
		out = append(out, trendPoint(byDate[d], d, d.Format(trendDateLabel), false))
	}
	if hasUnknown {
		out = append(out, trendPoint(unknown, time.Time{}, unknownLabel, true))
	}
	return out
}

func trendPoint(prices []int64, date time.Time, label string, unknown bool) models.TrendPoint {
	p := models.TrendPoint{Date: date, Label: label, Unknown: unknown, Count: len(prices)}
	if st, ok := summarize(prices); ok {
		p.Average = st.average
		p.Median = st.median
		p.Min = st.min
		p.Max = st.max
	}
	return p
}

// gradeAnalysis averages prices per cleaned grade and keeps the most expensive
// groups. Ties keep first-seen order.
func gradeAnalysis(vehicles []models.Vehicle, grades *gradeCache) []models.GradeStat {
	type acc struct {
		grade  string
		count  int
		priced int
		total  float64
	}
	index := make(map[string]int)
	var groups []*acc

	for _, v := range vehicles {
		if strings.TrimSpace(v.Grade) == "" {
			continue
		}
		key := grades.clean(v.Grade)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &acc{grade: key})
		}
		g := groups[i]
		g.count++
		if v.Price > 0 {
			g.priced++
			g.total += float64(v.Price)
		}
	}

	stats := make([]models.GradeStat, 0, len(groups))
	for _, g := range groups {
		st := models.GradeStat{Grade: g.grade, Count: g.count}
		if g.priced > 0 {
			st.AveragePrice = g.total / float64(g.priced) / manMultiplier
		}
		stats = append(stats, st)
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].AveragePrice > stats[j].AveragePrice })
	if len(stats) > topGradeCount {
		stats = stats[:topGradeCount]
	}
	return stats
}

func mileagePrice(vehicles []models.Vehicle) []models.Point {
	points := make([]models.Point, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Price > 0 && v.Mileage > 0 {
			points = append(points, models.Point{
				X: float64(v.Mileage) / manMultiplier,
				Y: float64(v.Price) / manMultiplier,
			})
		}
	}
	return points
}

// gradeCache memoizes CleanGrade for the duration of one aggregation.
type gradeCache struct {
	cleaned map[string]string
}

func newGradeCache() *gradeCache {
	return &gradeCache{cleaned: make(map[string]string)}
}

func (c *gradeCache) clean(grade string) string {
	if g, ok := c.cleaned[grade]; ok {
		return g
	}
	g := CleanGrade(grade)
	c.cleaned[grade] = g
	return g
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
