package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

func recordTable(t *testing.T, key string, rows ...[3]string) *storage.Table {
	t.Helper()
	table := storage.NewTable(key, applehealth.RecordColumns)
	for _, r := range rows {
		require.NoError(t, table.Append([]string{"StepCount", "count", r[0], "iPhone", "", "", "", r[1], r[2]}))
	}
	return table
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := ParseTimestamp(value)
	require.NoError(t, err)
	return ts
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-03-28 06:12:09 -0700")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-28T13:12:09Z", ts.UTC().Format(time.RFC3339))

	ts, err = ParseTimestamp("2024-03-28T13:30:01Z")
	require.NoError(t, err)
	assert.Equal(t, 13, ts.Hour())

	_, err = ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, applehealth.ErrMalformedTimestamp)
	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, applehealth.ErrMalformedTimestamp)
}

func TestFilterByExactDate(t *testing.T) {
	table := recordTable(t, "records/activity/StepCount",
		[3]string{"1", "2024-03-28 23:50:00 -0700", "2024-03-28 23:59:00 -0700"},
		[3]string{"2", "2024-03-29 00:10:00 -0700", "2024-03-29 00:20:00 -0700"},
		[3]string{"3", "2024-03-28 07:00:00 -0700", "2024-03-28 07:10:00 -0700"},
	)

	matched, err := FilterByExactDate(table, "2024-03-28")
	require.NoError(t, err)
	require.Len(t, matched.Rows, 2)
	assert.Equal(t, "1", matched.Rows[0][2])
	assert.Equal(t, "3", matched.Rows[1][2])
	assert.Equal(t, table.Columns, matched.Columns)

	matched, err = FilterByExactDate(table, "2024-03-29")
	require.NoError(t, err)
	require.Len(t, matched.Rows, 1)
	assert.Equal(t, "2", matched.Rows[0][2])

	_, err = FilterByExactDate(table, "2024-03-30")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = FilterByExactDate(&storage.Table{Key: "missing"}, "2024-03-30")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestDistinctDates(t *testing.T) {
	table := recordTable(t, "workouts",
		[3]string{"1", "2024-03-28 06:00:00 -0700", "2024-03-28 06:30:00 -0700"},
		[3]string{"2", "2024-03-28 12:00:00 -0700", "2024-03-28 12:30:00 -0700"},
		[3]string{"3", "2024-03-28 18:00:00 -0700", "2024-03-28 18:30:00 -0700"},
		[3]string{"4", "2024-03-29 06:00:00 -0700", "2024-03-29 06:30:00 -0700"},
		[3]string{"5", "2024-03-29 18:00:00 -0700", "2024-03-29 18:30:00 -0700"},
	)
	dates, err := DistinctDates(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-28", "2024-03-29"}, dates)

	dates, err = DistinctDates(&storage.Table{Key: "missing"})
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestFilterByWindow(t *testing.T) {
	table := recordTable(t, "records/vitals/HeartRate",
		[3]string{"60", "2024-03-28 06:29:59 -0700", "2024-03-28 06:29:59 -0700"},
		[3]string{"120", "2024-03-28 06:30:00 -0700", "2024-03-28 06:30:00 -0700"},
		[3]string{"150", "2024-03-28 06:45:00 -0700", "2024-03-28 06:45:05 -0700"},
		[3]string{"130", "2024-03-28 07:01:25 -0700", "2024-03-28 07:01:30 -0700"},
		[3]string{"90", "2024-03-28 07:01:29 -0700", "2024-03-28 07:01:31 -0700"},
	)
	start := mustTime(t, "2024-03-28 06:30:00 -0700")
	end := mustTime(t, "2024-03-28 07:01:30 -0700")

	window, err := FilterByWindow(table, start, end)
	require.NoError(t, err)
	values := make([]string, 0)
	for _, row := range window.Rows {
		values = append(values, row[2])
	}
	assert.Equal(t, []string{"120", "150", "130"}, values)

	empty, err := FilterByWindow(&storage.Table{Key: "missing"}, start, end)
	require.NoError(t, err)
	assert.Empty(t, empty.Rows)
}

func TestChartOf(t *testing.T) {
	table := recordTable(t, "records/vitals/HeartRate",
		[3]string{"120", "2024-03-28 06:30:00 -0700", "2024-03-28 06:30:00 -0700"},
		[3]string{"151.5", "2024-03-28 06:45:00 -0700", "2024-03-28 06:45:05 -0700"},
	)
	chart, err := ChartOf(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-28 06:30:00 -0700", "2024-03-28 06:45:00 -0700"}, chart.Time)
	assert.Equal(t, []float64{120, 151.5}, chart.Value)

	chart, err = ChartOf(&storage.Table{Key: "missing"})
	require.NoError(t, err)
	assert.Equal(t, emptyChart(), chart)

	bad := recordTable(t, "records/vitals/HeartRate", [3]string{"fast", "2024-03-28 06:30:00 -0700", "2024-03-28 06:30:00 -0700"})
	_, err = ChartOf(bad)
	assert.ErrorIs(t, err, applehealth.ErrMalformedStatistic)
}

func TestRecords(t *testing.T) {
	table := recordTable(t, "records/activity/StepCount", [3]string{"7", "2024-03-28 06:30:00 -0700", "2024-03-28 06:31:00 -0700"})
	records := Records(table)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0]["value"])
	assert.Equal(t, "StepCount", records[0]["type"])
}
