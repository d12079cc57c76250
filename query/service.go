package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

// Source is the read side of the table store.
type Source interface {
	Current(ctx context.Context) (string, error)
	Read(ctx context.Context, version, key string) (*storage.Table, error)
}

type cached struct {
	table *storage.Table
	found bool
}

// Service answers date based questions from committed tables. It never
// touches an archive. Each call reads the published version once, so a
// commit in the middle of a call is not observed.
type Service struct {
	source Source
	layout storage.Layout
	cache  *lru.Cache[string, cached]
	log    *log.Entry
}

func NewService(source Source, layout storage.Layout, cacheSize int, logger *log.Entry) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cache, err := lru.New[string, cached](cacheSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Service{source: source, layout: layout, cache: cache, log: logger}, nil
}

func (s *Service) Layout() storage.Layout { return s.layout }

func (s *Service) current(ctx context.Context) (string, error) {
	version, err := s.source.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to resolve published tables: %w", err)
	}
	return version, nil
}

// Load returns the published table under key. A key that was never written
// yields an empty table without columns.
func (s *Service) Load(ctx context.Context, key string) (*storage.Table, error) {
	version, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	t, _, err := s.load(ctx, version, key)
	return t, err
}

func (s *Service) load(ctx context.Context, version, key string) (*storage.Table, bool, error) {
	cacheKey := version + "/" + key
	if c, ok := s.cache.Get(cacheKey); ok {
		return c.table, c.found, nil
	}

	t, err := s.source.Read(ctx, version, key)
	found := true
	if errors.Is(err, storage.ErrTableNotFound) {
		t, found, err = &storage.Table{Key: key}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("unable to load %s: %w", key, err)
	}
	if version != "" {
		s.cache.Add(cacheKey, cached{table: t, found: found})
	}
	s.log.WithFields(log.Fields{"version": version, "table": key, "rows": t.Len(), "found": found}).Debug("table loaded")
	return t, found, nil
}

func (s *Service) recordKey(typeName string) string {
	return s.layout.RecordKey(applehealth.StaticBucket(typeName), typeName)
}

// ExportPresent reports whether a parsed export is published.
func (s *Service) ExportPresent(ctx context.Context) (bool, error) {
	version, err := s.current(ctx)
	if err != nil || version == "" {
		return false, err
	}
	_, found, err := s.load(ctx, version, s.layout.WorkoutKey())
	return found, err
}

// WorkoutDates lists the dates that have at least one workout.
func (s *Service) WorkoutDates(ctx context.Context) ([]string, error) {
	t, err := s.Load(ctx, s.layout.WorkoutKey())
	if err != nil {
		return nil, err
	}
	return DistinctDates(t)
}

// Chart returns the records of typeName inside [start, end] as a chart.
// A type that was never exported gives an empty chart.
func (s *Service) Chart(ctx context.Context, typeName string, start, end time.Time) (Chart, error) {
	version, err := s.current(ctx)
	if err != nil {
		return emptyChart(), err
	}
	return s.chart(ctx, version, typeName, start, end)
}

func (s *Service) chart(ctx context.Context, version, typeName string, start, end time.Time) (Chart, error) {
	t, _, err := s.load(ctx, version, s.recordKey(typeName))
	if err != nil {
		return emptyChart(), err
	}
	window, err := FilterByWindow(t, start, end)
	if err != nil {
		return emptyChart(), err
	}
	return ChartOf(window)
}

// RecordsOn returns the records of typeName that started on date.
func (s *Service) RecordsOn(ctx context.Context, typeName, date string) ([]Record, error) {
	t, err := s.Load(ctx, s.recordKey(typeName))
	if err != nil {
		return nil, err
	}
	matched, err := FilterByExactDate(t, date)
	if err != nil {
		return nil, err
	}
	return Records(matched), nil
}

// ActivitySummaryOn returns the activity rings summary of date.
func (s *Service) ActivitySummaryOn(ctx context.Context, date string) (Record, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	t, err := s.Load(ctx, s.layout.ActivitySummaryKey())
	if err != nil {
		return nil, err
	}
	want := day.Format(DateLayout)
	for _, rec := range Records(t) {
		if rec["date"] == want {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: activity summary on %s", ErrNoMatch, want)
}

// WorkoutsOn returns the detail view of every workout that started on date.
func (s *Service) WorkoutsOn(ctx context.Context, date string) ([]*WorkoutDetail, error) {
	version, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	t, _, err := s.load(ctx, version, s.layout.WorkoutKey())
	if err != nil {
		return nil, err
	}
	matched, err := FilterByExactDate(t, date)
	if err != nil {
		return nil, err
	}
	details := make([]*WorkoutDetail, 0, matched.Len())
	for _, rec := range Records(matched) {
		d, err := s.buildWorkoutDetail(ctx, version, rec)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}
