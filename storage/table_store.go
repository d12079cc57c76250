package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/viant/afs"
	_ "github.com/viant/afsc/s3"
)

const (
	currentPointer = "CURRENT"
	versionsDir    = "versions"
	tableExt       = ".csv"
)

// ErrTableNotFound is returned by Read for a key that was never written.
var ErrTableNotFound = errors.New("table not found")

// TableStore keeps every parse under its own version directory and exposes
// one of them through the CURRENT pointer:
//
//	<root>/versions/<version>/<key>.csv
//	<root>/CURRENT
type TableStore struct {
	fs   afs.Service
	root string
	log  *log.Entry

	mu sync.Mutex
}

// NewTableStore opens a store rooted at an afs URL (local path, file://, s3://).
func NewTableStore(root string, logger *log.Entry) *TableStore {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &TableStore{
		fs:   afs.New(),
		root: strings.TrimRight(root, "/"),
		log:  logger,
	}
}

// NewVersion returns a version id that sorts by creation time.
func NewVersion(now time.Time) string {
	return now.UTC().Format("20060102T150405.000000000Z") + "-" + uuid.New().String()[:8]
}

func (s *TableStore) url(parts ...string) string {
	return s.root + "/" + path.Join(parts...)
}

func (s *TableStore) tableURL(version, key string) string {
	return s.url(versionsDir, version, key+tableExt)
}

// Write persists one table under version, replacing any table with the same key.
func (s *TableStore) Write(ctx context.Context, version string, t *Table) error {
	data, err := EncodeTable(t)
	if err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, s.tableURL(version, t.Key), 0644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("unable to write table %s: %w", t.Key, err)
	}
	return nil
}

// Commit writes all tables of one parse and then points CURRENT at version.
// Readers never see a partially written set.
func (s *TableStore) Commit(ctx context.Context, version string, tables []*Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tables {
		if err := s.Write(ctx, version, t); err != nil {
			return err
		}
	}
	if err := s.fs.Upload(ctx, s.url(currentPointer), 0644, strings.NewReader(version)); err != nil {
		return fmt.Errorf("unable to publish version %s: %w", version, err)
	}
	s.log.WithFields(log.Fields{"version": version, "tables": len(tables)}).Info("tables committed")
	return nil
}

// Current returns the published version, or empty string when nothing was committed yet.
func (s *TableStore) Current(ctx context.Context) (string, error) {
	ok, err := s.fs.Exists(ctx, s.url(currentPointer))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	data, err := s.fs.DownloadWithURL(ctx, s.url(currentPointer))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Read loads a table of version. It returns ErrTableNotFound for unknown keys.
func (s *TableStore) Read(ctx context.Context, version, key string) (*Table, error) {
	if version == "" {
		return nil, ErrTableNotFound
	}
	URL := s.tableURL(version, key)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTableNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, err
	}
	return DecodeTable(key, data)
}

// Exists reports whether version holds a table under key.
func (s *TableStore) Exists(ctx context.Context, version, key string) (bool, error) {
	if version == "" {
		return false, nil
	}
	return s.fs.Exists(ctx, s.tableURL(version, key))
}

// Versions lists every stored version, oldest first.
func (s *TableStore) Versions(ctx context.Context) ([]string, error) {
	dir := s.url(versionsDir)
	ok, err := s.fs.Exists(ctx, dir)
	if err != nil || !ok {
		return nil, err
	}
	objects, err := s.fs.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(objects))
	for _, o := range objects {
		if !o.IsDir() || o.Name() == versionsDir {
			continue
		}
		versions = append(versions, o.Name())
	}
	sort.Strings(versions)
	return versions, nil
}

// DeleteVersion removes every table of version. The published version cannot be deleted.
func (s *TableStore) DeleteVersion(ctx context.Context, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if version == current {
		return fmt.Errorf("version %s is published", version)
	}
	return s.fs.Delete(ctx, s.url(versionsDir, version))
}

// EncodeTable renders a table as CSV with a header line.
func EncodeTable(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeTable parses CSV written by EncodeTable. Every row must match the header arity.
func DecodeTable(key string, data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to decode table %s: %w", key, err)
	}
	t := &Table{Key: key}
	if len(records) == 0 {
		return t, nil
	}
	t.Columns = records[0]
	t.Rows = records[1:]
	return t, nil
}
