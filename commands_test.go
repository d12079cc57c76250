package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapod/health-parser/parser"
	"github.com/datapod/health-parser/query"
	"github.com/datapod/health-parser/storage"
)

func TestCommandsAreRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"worker", "parse", "clean", "dates", "workouts", "chart", "summary", "status"} {
		assert.True(t, names[name], name)
	}
	assert.NotNil(t, workoutsCmd.Flags().Lookup("output"))
	assert.NotNil(t, chartCmd.Flags().Lookup("start"))
}

func TestParseAndPublish(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("apple_health_export/export.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<HealthData>
<Workout workoutActivityType="HKWorkoutActivityTypeWalking" sourceName="Watch" startDate="2024-03-28 12:00:00 -0700" endDate="2024-03-28 12:30:00 -0700"/>
</HealthData>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	layout := storage.DefaultLayout()
	store := storage.NewTableStore(t.TempDir(), nil)
	version, err := parseAndPublish(ctx, parser.NewWalker(layout, nil), store, nil, nil, path)
	require.NoError(t, err)

	current, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, current)

	svc, err := query.NewService(store, layout, 4, nil)
	require.NoError(t, err)
	dates, err := svc.WorkoutDates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-28"}, dates)

	_, err = parseAndPublish(ctx, parser.NewWalker(layout, nil), store, nil, nil, filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
	current, err = store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, version, current, "a failed parse does not move the published version")
}

func TestRender(t *testing.T) {
	defer func(prev string) { outputFormat = prev }(outputFormat)

	var buf bytes.Buffer
	outputFormat = "yaml"
	require.NoError(t, render(&buf, []string{"2024-03-28"}))
	assert.Contains(t, buf.String(), "- ")
	assert.Contains(t, buf.String(), "2024-03-28")

	buf.Reset()
	outputFormat = "json"
	require.NoError(t, render(&buf, []string{"2024-03-28"}))
	assert.JSONEq(t, `["2024-03-28"]`, buf.String())

	outputFormat = "xml"
	assert.Error(t, render(&buf, nil))
}
