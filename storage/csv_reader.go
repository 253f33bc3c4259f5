package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"car-dashboard/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var knownColumns = func() map[string]struct{} {
	m := make(map[string]struct{}, len(models.RawColumns))
	for _, c := range models.RawColumns {
		m[c] = struct{}{}
	}
	return m
}()

// ReadRawCSV parses a listing CSV with a header row into raw records. Input
// may be UTF-8 (with or without BOM) or Shift_JIS. Unknown columns are
// dropped, short rows leave the missing columns out, and rows the CSV parser
// rejects are skipped.
func ReadRawCSV(r io.Reader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csv: read: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(decodeText(data)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := knownColumns[h]; ok {
			columns[i] = h
		}
	}

	var records []models.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return records, fmt.Errorf("csv: read row: %w", err)
		}

		rec := make(models.RawRecord, len(columns))
		for i, name := range columns {
			if name != "" && i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeText returns data as UTF-8. Text that is not valid UTF-8 is assumed
// to be Shift_JIS.
func decodeText(data []byte) []byte {
	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):]
	}
	if utf8.Valid(data) {
		return data
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}

// BatchDateFromPath extracts the batch date from a file named like
// "2025_08_06_gr86.csv". It returns the zero time when the name carries no date.
func BatchDateFromPath(path string) time.Time {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.SplitN(name, "_", 4)
	if len(parts) < 3 {
		return time.Time{}
	}

	var nums [3]int
	for i := range nums {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return time.Time{}
		}
		nums[i] = n
	}

	d := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
	if d.Year() != nums[0] || int(d.Month()) != nums[1] || d.Day() != nums[2] {
		return time.Time{}
	}
	return d
}
