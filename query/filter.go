package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

const (
	// TimestampLayout is how the export writes dates, e.g. 2024-03-28 06:12:09 -0700.
	TimestampLayout = "2006-01-02 15:04:05 -0700"
	DateLayout      = "2006-01-02"

	startColumn = "startDate"
	endColumn   = "endDate"
)

// ErrNoMatch signals that no row matched a lookup.
var ErrNoMatch = errors.New("no match")

// ParseTimestamp reads an export timestamp. RFC 3339, as used in GPX files, is accepted too.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(TimestampLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", applehealth.ErrMalformedTimestamp, value)
	}
	return t, nil
}

// ParseDate reads a calendar date such as 2024-03-28.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", applehealth.ErrMalformedTimestamp, value)
	}
	return t, nil
}

func timestampColumn(t *storage.Table, name string) (int, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return -1, fmt.Errorf("%w: table %s has no %s column", applehealth.ErrSchemaMismatch, t.Key, name)
	}
	return i, nil
}

func subset(t *storage.Table) *storage.Table {
	return &storage.Table{Key: t.Key, Columns: t.Columns}
}

// FilterByWindow keeps rows that start at or after start and end at or before end.
func FilterByWindow(t *storage.Table, start, end time.Time) (*storage.Table, error) {
	out := subset(t)
	if len(t.Rows) == 0 {
		return out, nil
	}
	si, err := timestampColumn(t, startColumn)
	if err != nil {
		return nil, err
	}
	ei, err := timestampColumn(t, endColumn)
	if err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		rowStart, err := ParseTimestamp(row[si])
		if err != nil {
			return nil, err
		}
		rowEnd, err := ParseTimestamp(row[ei])
		if err != nil {
			return nil, err
		}
		if rowStart.Before(start) || rowEnd.After(end) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// FilterByExactDate keeps rows whose start falls on date, read in the row's own offset.
// It returns ErrNoMatch when nothing matches.
func FilterByExactDate(t *storage.Table, date string) (*storage.Table, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	want := day.Format(DateLayout)

	out := subset(t)
	if len(t.Rows) > 0 {
		si, err := timestampColumn(t, startColumn)
		if err != nil {
			return nil, err
		}
		for _, row := range t.Rows {
			rowStart, err := ParseTimestamp(row[si])
			if err != nil {
				return nil, err
			}
			if rowStart.Format(DateLayout) == want {
				out.Rows = append(out.Rows, row)
			}
		}
	}
	if len(out.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", ErrNoMatch, t.Key, want)
	}
	return out, nil
}

// DistinctDates returns the start dates present in t, each once, in row order.
func DistinctDates(t *storage.Table) ([]string, error) {
	dates := make([]string, 0)
	if len(t.Rows) == 0 {
		return dates, nil
	}
	si, err := timestampColumn(t, startColumn)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		rowStart, err := ParseTimestamp(row[si])
		if err != nil {
			return nil, err
		}
		d := rowStart.Format(DateLayout)
		if seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	return dates, nil
}

// Record is one row addressed by column name.
type Record map[string]string

func Records(t *storage.Table) []Record {
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record, len(t.Columns))
		for i, c := range t.Columns {
			rec[c] = row[i]
		}
		out = append(out, rec)
	}
	return out
}
