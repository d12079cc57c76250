package main

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapod/health-parser/storage"
)

func TestCleanerKeepsNewestVersions(t *testing.T) {
	ctx := context.Background()
	store := storage.NewTableStore(t.TempDir(), nil)
	layout := storage.DefaultLayout()

	var versions []string
	for i := 0; i < 4; i++ {
		v := storage.NewVersion(time.Date(2024, 3, 28+i, 0, 0, 0, 0, time.UTC))
		require.NoError(t, store.Commit(ctx, v, []*storage.Table{storage.NewTable(layout.WorkoutKey(), []string{"startDate"})}))
		versions = append(versions, v)
	}

	c := &cleaner{store: store, keep: 2, log: log.WithField("component", "cleaner")}
	deleted, err := c.clean(ctx)
	require.NoError(t, err)
	assert.Equal(t, versions[:2], deleted)

	left, err := store.Versions(ctx)
	require.NoError(t, err)
	assert.Equal(t, versions[2:], left)

	deleted, err = c.clean(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}
