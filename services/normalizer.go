package services

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// ErrUnparseable is returned by the field parsers when non-blank text cannot be
// turned into a number. The parsed value is then the 0 sentinel.
var ErrUnparseable = errors.New("unparseable value")

const (
	manUnit       = "万"
	manMultiplier = 10000
	maxGradeRunes = 50
	eraYearOffset = 1988
)

var (
	man          = decimal.NewFromInt(manMultiplier)
	maxPriceYen  = decimal.NewFromInt(math.MaxInt64 / 2)
	maxMileageKm = decimal.NewFromInt(math.MaxInt32)
)

var (
	// nonNumericRegexp matches everything that is not part of a decimal number
	nonNumericRegexp = regexp.MustCompile(`[^0-9.]`)

	// fullWidthReplacer maps full-width digits and period to ASCII
	fullWidthReplacer = strings.NewReplacer(
		"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
		"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
		"．", ".",
	)

	// priceTokenReplacer drops separators, currency and unit tokens from price text.
	priceTokenReplacer = strings.NewReplacer(
		"万円", "", "円", "",
		",", "", "，", "",
		"￥", "", "¥", "",
		"　", "", " ", "", "\t", "", "\r", "", "\n", "",
		"'", "", "\u00a0", "",
	)

	// mileageTokenReplacer drops unit tokens and separators from mileage text.
	// "万km" must come before "万" so the longer token wins.
	mileageTokenReplacer = strings.NewReplacer(
		"万km", "", "km", "", "万", "",
		",", "", "，", "",
		"　", "", " ", "",
		"'", "", "\u00a0", "",
	)

	// yearTokenReplacer drops the year suffix, parentheses and era prefixes.
	yearTokenReplacer = strings.NewReplacer(
		"年", "", "(", "", ")", "",
		"H", "", "R", "", "S", "",
	)
)

// gradeRule is one text substitution applied by CleanGrade.
type gradeRule struct {
	pattern *regexp.Regexp
	repl    string
}

// gradeRules run in this exact order.
var gradeRules = []gradeRule{
	// embedded price, e.g. "1489.5万円"
	{regexp.MustCompile(`\p{Nd}+\.?\p{Nd}*万?円`), ""},
	// dealer sales count, e.g. "売#200台"
	{regexp.MustCompile(`売#?\p{Nd}+台`), ""},
	// transmission speed, e.g. "8-SPEED"
	{regexp.MustCompile(`\p{Nd}+-?SPEED`), ""},
	{regexp.MustCompile(`自然吸気|エンジン最終搭載`), ""},
	{regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`), " "},
}

// ParsePrice converts total-price text such as "1,234.5万円" or "￥1,980,000"
// into integer yen. Blank text yields 0 without error.
func ParsePrice(raw string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}

	hadMan := strings.Contains(raw, manUnit)
	value := fullWidthReplacer.Replace(priceTokenReplacer.Replace(raw))
	value = nonNumericRegexp.ReplaceAllString(strings.TrimSpace(value), "")

	price, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", raw, ErrUnparseable)
	}
	if hadMan {
		price = price.Mul(man)
	}
	price = price.Round(0)
	if price.GreaterThan(maxPriceYen) {
		return 0, fmt.Errorf("price %q out of range: %w", raw, ErrUnparseable)
	}
	return price.IntPart(), nil
}

// ParseYear converts model-year text into a four digit year.
// Examples:
//
//	"2025(R07)" → 2025
//	"05"        → 2005
//	"95年"      → 1995
//	"2019/03"   → 2019
func ParseYear(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}

	value := raw
	if i := strings.Index(value, "("); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(yearTokenReplacer.Replace(fullWidthReplacer.Replace(value)))
	if before, _, found := strings.Cut(value, "/"); found {
		value = before
	}

	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year < 0 {
		return 0, fmt.Errorf("year %q: %w", raw, ErrUnparseable)
	}

	switch {
	case year < 100:
		if year <= 30 {
			year += 2000
		} else {
			year += 1900
		}
	case year < 1000:
		year += eraYearOffset
	}
	return year, nil
}

// ParseMileage converts mileage text such as "3.2万km" or "12,000km" into
// whole kilometres. Fractions are truncated.
func ParseMileage(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}

	hasMan := strings.Contains(raw, manUnit)
	value := fullWidthReplacer.Replace(mileageTokenReplacer.Replace(raw))
	value = nonNumericRegexp.ReplaceAllString(strings.TrimSpace(value), "")

	mileage, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("mileage %q: %w", raw, ErrUnparseable)
	}
	if hasMan {
		mileage = mileage.Mul(man)
	}
	mileage = mileage.Truncate(0)
	if mileage.GreaterThan(maxMileageKm) {
		return 0, fmt.Errorf("mileage %q out of range: %w", raw, ErrUnparseable)
	}
	return int(mileage.IntPart()), nil
}

// ParseRepairHistory reports whether the repair-history column says "present".
func ParseRepairHistory(raw string) bool {
	return strings.Contains(raw, "あり")
}

// CleanGrade strips dealer, price and engine annotations from grade text so
// that equivalent grades group together. Cleaning a cleaned grade is a no-op.
func CleanGrade(grade string) string {
	if strings.TrimSpace(grade) == "" {
		return grade
	}

	for {
		next := applyGradeRules(grade)
		if next == grade {
			break
		}
		grade = next
	}

	if utf8.RuneCountInString(grade) > maxGradeRunes {
		runes := []rune(grade)
		grade = string(runes[:maxGradeRunes-3]) + "..."
	}
	return grade
}

func applyGradeRules(grade string) string {
	for _, rule := range gradeRules {
		grade = strings.TrimSpace(rule.pattern.ReplaceAllString(grade, rule.repl))
	}
	return grade
}

// Normalizer turns raw source rows into canonical vehicles.
type Normalizer struct {
	logger *utils.Logger
	newID  func() string
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

// Normalize converts one raw record. It never fails: malformed fields fall back
// to their sentinel and are reported as diagnostics.
func (n *Normalizer) Normalize(raw models.RawRecord, prov models.Provenance) (models.Vehicle, []models.Diagnostic) {
	v := models.Vehicle{
		ID:                  n.newID(),
		Name:                raw[models.ColName],
		Model:               raw[models.ColModel],
		Grade:               raw[models.ColGrade],
		Transmission:        raw[models.ColTransmission],
		HasRepairHistory:    ParseRepairHistory(raw[models.ColRepairHistory]),
		EngineCapacity:      raw[models.ColEngineCapacity],
		Comments:            raw[models.ColComments],
		AcquisitionDateTime: raw[models.ColAcquisitionDateTime],
		AcquisitionDate:     raw[models.ColAcquisitionDate],
		AcquisitionTime:     raw[models.ColAcquisitionTime],
		SourceURL:           raw[models.ColSourceURL],
		DetailURL:           raw[models.ColDetailURL],
		BatchDate:           prov.BatchDate,
		SourceGroup:         prov.SourceGroup,
	}

	var diags []models.Diagnostic
	report := func(field string, err error) {
		diags = append(diags, models.Diagnostic{
			RecordID:     v.ID,
			Field:        field,
			OriginalText: raw[field],
			Reason:       err.Error(),
		})
		n.logger.Debug("[normalizer] %s parse failed: %v", field, err)
	}

	var err error
	if v.Price, err = ParsePrice(raw[models.ColPrice]); err != nil {
		report(models.ColPrice, err)
	}
	if v.Year, err = ParseYear(raw[models.ColYear]); err != nil {
		report(models.ColYear, err)
	}
	if v.Mileage, err = ParseMileage(raw[models.ColMileage]); err != nil {
		report(models.ColMileage, err)
	}

	return v, diags
}

// NormalizeBatches normalizes every record of every batch, keeping load order.
func (n *Normalizer) NormalizeBatches(batches []models.RawBatch) (models.Dataset, []models.Diagnostic) {
	total := 0
	for _, b := range batches {
		total += len(b.Records)
	}

	dataset := make(models.Dataset, 0, total)
	var diags []models.Diagnostic

	for _, b := range batches {
		zeroPrice := 0
		for _, raw := range b.Records {
			v, d := n.Normalize(raw, b.Provenance)
			if v.Price == 0 {
				zeroPrice++
			}
			dataset = append(dataset, v)
			diags = append(diags, d...)
		}
		if zeroPrice > 0 {
			n.logger.Debug("[normalizer] %s: %d of %d records have no price", b.Path, zeroPrice, len(b.Records))
		}
	}

	if len(diags) > 0 {
		n.logger.Warn("[normalizer] %d fields could not be parsed and were set to 0", len(diags))
	}
	return dataset, diags
}
