package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/plotboard/plotboard/internal/errs"
)

// sniffSampleSize caps how many rows are inspected when classifying columns.
const sniffSampleSize = 1000

// FromCSV parses CSV bytes into a Dataset and a derived Schema.
//
// Column types are classified by sampling up to sniffSampleSize rows: a
// column is numeric when every non-empty sample parses as a number, date when
// every non-empty sample parses as a common date layout, categorical
// otherwise. Numeric cells are stored as float64 so downstream aggregation
// needs no re-parsing; everything else is stored as string.
func FromCSV(data []byte) (Dataset, Schema, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to read CSV header", err)
	}
	if len(headers) == 0 {
		return nil, nil, errs.New(errs.ErrKindInvalidInput, "CSV has no columns")
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var raw [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		raw = append(raw, record)
	}
	if len(raw) == 0 {
		return nil, nil, errs.New(errs.ErrKindInvalidInput, "CSV has no data rows")
	}

	sch := classifyColumns(headers, raw)

	rows := make(Dataset, 0, len(raw))
	for _, record := range raw {
		row := make(Row, len(headers))
		for i, name := range headers {
			if i >= len(record) {
				break
			}
			val := strings.TrimSpace(record[i])
			if val == "" {
				continue // missing cell, folded into "Unknown" downstream
			}
			if sch[i].Type == TypeNumeric {
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					row[name] = f
					continue
				}
			}
			row[name] = val
		}
		rows = append(rows, row)
	}

	return rows, sch, nil
}

func classifyColumns(headers []string, raw [][]string) Schema {
	sch := make(Schema, len(headers))
	for i, name := range headers {
		sch[i] = ColumnMeta{Name: name, Type: classifyColumn(i, raw)}
	}
	return sch
}

func classifyColumn(index int, raw [][]string) ColumnType {
	numeric, date, seen := true, true, 0
	for r, record := range raw {
		if r >= sniffSampleSize {
			break
		}
		if index >= len(record) {
			continue
		}
		val := strings.TrimSpace(record[index])
		if val == "" {
			continue
		}
		seen++
		if numeric {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				numeric = false
			}
		}
		if date && !isDateValue(val) {
			date = false
		}
		if !numeric && !date {
			break
		}
	}
	if seen == 0 {
		return TypeCategorical
	}
	if numeric {
		return TypeNumeric
	}
	if date {
		return TypeDate
	}
	return TypeCategorical
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"Jan-2006",
	"Jan 2, 2006",
}

func isDateValue(val string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, val); err == nil {
			return true
		}
	}
	return false
}
