package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

// Chart is a time series of one record type.
type Chart struct {
	Time  []string  `json:"time" yaml:"time"`
	Value []float64 `json:"value" yaml:"value"`
}

func emptyChart() Chart {
	return Chart{Time: []string{}, Value: []float64{}}
}

// ChartOf turns the startDate and value columns of a record table into a chart.
func ChartOf(t *storage.Table) (Chart, error) {
	chart := emptyChart()
	if len(t.Rows) == 0 {
		return chart, nil
	}
	si, err := timestampColumn(t, startColumn)
	if err != nil {
		return chart, err
	}
	vi := t.ColumnIndex("value")
	if vi < 0 {
		return chart, fmt.Errorf("%w: table %s has no value column", applehealth.ErrSchemaMismatch, t.Key)
	}
	for _, row := range t.Rows {
		ts, err := ParseTimestamp(row[si])
		if err != nil {
			return emptyChart(), err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[vi]), 64)
		if err != nil {
			return emptyChart(), fmt.Errorf("%w: %s value %q", applehealth.ErrMalformedStatistic, t.Key, row[vi])
		}
		chart.Time = append(chart.Time, ts.Format(TimestampLayout))
		chart.Value = append(chart.Value, v)
	}
	return chart, nil
}

func parseOptional(column, value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", applehealth.ErrMalformedStatistic, column, value)
	}
	return &v, nil
}

func errMissing(key, column string) error {
	return fmt.Errorf("%w: %s has an empty %s", applehealth.ErrMalformedStatistic, key, column)
}
