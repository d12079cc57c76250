package parser

import (
	"archive/zip"
	"fmt"
	"sort"
	"time"

	"github.com/mholt/archiver"
	log "github.com/sirupsen/logrus"

	"github.com/datapod/health-parser/schema/applehealth"
	"github.com/datapod/health-parser/storage"
)

// Walker turns one export archive into the full set of tables.
type Walker struct {
	layout storage.Layout
	log    *log.Entry
}

func NewWalker(layout storage.Layout, logger *log.Entry) *Walker {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Walker{layout: layout, log: logger}
}

// Result is everything one parse produced.
type Result struct {
	Tables       []*storage.Table
	Unclassified map[string]int

	Summaries   int
	Records     int
	Workouts    int
	Routes      int
	TrackPoints int
}

// Table returns the table stored under key, or nil.
func (r *Result) Table(key string) *storage.Table {
	for _, t := range r.Tables {
		if t.Key == key {
			return t
		}
	}
	return nil
}

// Walk reads the zip archive at archivePath in one pass. Any error aborts
// the whole parse and no tables are returned.
func (w *Walker) Walk(archivePath string) (*Result, error) {
	started := time.Now()
	logger := w.log.WithField("archive", archivePath)
	run := &run{
		layout: w.layout,
		router: applehealth.NewRouter(logger),
		arena:  applehealth.NewArena(),
		tables: make(map[string]*storage.Table),
		result: &Result{},
	}

	z := archiver.Zip{ContinueOnError: false}
	walkErr := z.Walk(archivePath, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		name := entryName(f)
		switch {
		case applehealth.ExportPattern.Match(name):
			run.err = run.scanExport(name, f)
		case applehealth.RoutePattern.Match(name):
			run.err = run.scanRoute(name, f)
		}
		return run.err
	})
	if run.err != nil {
		return nil, run.err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("%w: %v", applehealth.ErrArchiveCorrupt, walkErr)
	}
	if !run.sawExport {
		return nil, fmt.Errorf("%w: no %s in %s", applehealth.ErrArchiveCorrupt, "export.xml", archivePath)
	}

	result := run.result
	keys := make([]string, 0, len(run.tables))
	for k := range run.tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		result.Tables = append(result.Tables, run.tables[k])
	}
	result.Unclassified = run.router.Unclassified()

	logger.WithFields(log.Fields{
		"tables":       len(result.Tables),
		"records":      result.Records,
		"workouts":     result.Workouts,
		"summaries":    result.Summaries,
		"routes":       result.Routes,
		"unclassified": len(result.Unclassified),
		"elapsed":      time.Since(started),
	}).Info("archive parsed")
	return result, nil
}

func entryName(f archiver.File) string {
	switch h := f.Header.(type) {
	case zip.FileHeader:
		return h.Name
	case *zip.FileHeader:
		return h.Name
	}
	return f.Name()
}

// run holds the accumulators of one Walk.
type run struct {
	layout storage.Layout
	router *applehealth.Router
	arena  *applehealth.Arena
	tables map[string]*storage.Table
	result *Result

	sawExport bool
	err       error
}

func (r *run) table(key string, columns []string) *storage.Table {
	t, ok := r.tables[key]
	if !ok {
		t = storage.NewTable(key, columns)
		r.tables[key] = t
	}
	return t
}
