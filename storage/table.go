package storage

import (
	"fmt"
	"path"

	"github.com/datapod/health-parser/schema/applehealth"
)

// Table is a header plus rows of equal arity.
type Table struct {
	Key     string
	Columns []string
	Rows    [][]string
}

func NewTable(key string, columns []string) *Table {
	return &Table{Key: key, Columns: columns}
}

// Append adds a row. A row whose length differs from the header is rejected.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: table %s expects %d fields, got %d", applehealth.ErrSchemaMismatch, t.Key, len(t.Columns), len(row))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Len() int { return len(t.Rows) }

// Layout decides the key of every table. It is configuration, passed to
// whoever writes or reads tables.
type Layout struct {
	RecordDir          string `yaml:"record_dir" env:"LAYOUT_RECORD_DIR" env-default:"records"`
	ActivitySummaryDir string `yaml:"activity_summary_dir" env:"LAYOUT_ACTIVITY_SUMMARY_DIR" env-default:"activity_summary"`
	WorkoutDir         string `yaml:"workout_dir" env:"LAYOUT_WORKOUT_DIR" env-default:"workouts"`
	RouteDir           string `yaml:"route_dir" env:"LAYOUT_ROUTE_DIR" env-default:"workout_routes"`
}

func DefaultLayout() Layout {
	return Layout{
		RecordDir:          "records",
		ActivitySummaryDir: "activity_summary",
		WorkoutDir:         "workouts",
		RouteDir:           "workout_routes",
	}
}

func (l Layout) RecordKey(bucket applehealth.Bucket, typeName string) string {
	return path.Join(l.RecordDir, string(bucket), typeName)
}

func (l Layout) ActivitySummaryKey() string {
	return path.Join(l.ActivitySummaryDir, "ActivitySummary")
}

func (l Layout) WorkoutKey() string {
	return path.Join(l.WorkoutDir, "Workouts")
}

// RouteKey accepts a route file name or a workout file reference.
func (l Layout) RouteKey(ref string) string {
	return path.Join(l.RouteDir, applehealth.RouteName(ref))
}
