package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
)

// DefaultPath is where the store lives when nothing else is configured
const DefaultPath = "~/.local/share/ctx-theatre/productions.json"

// ErrCorrupt is returned by Load when the document exists but cannot be trusted
var ErrCorrupt = errors.New("store is corrupt")

// Result tells the caller what Upsert did
type Result int

const (
	Inserted Result = iota
	Updated
)

func (r Result) String() string {
	if r == Updated {
		return "updated"
	}
	return "inserted"
}

// Store handles persistence of production records
type Store struct {
	path    string
	records map[string]*production.Record
}

// New creates a new Store for the document at path. It expands a leading ~/
// and creates the parent directory; nothing is read until Load.
func New(path string) (*Store, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		path:    path,
		records: make(map[string]*production.Record),
	}, nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Path returns the location of the backing document
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory records with the document on disk.
// A missing or blank file is an empty store.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.records = make(map[string]*production.Record)
			return nil
		}
		return fmt.Errorf("reading store: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		s.records = make(map[string]*production.Record)
		return nil
	}

	var decoded map[string]*production.Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	records := make(map[string]*production.Record, len(decoded))
	for key, rec := range decoded {
		if rec == nil {
			return fmt.Errorf("%w: %s: record %q is null", ErrCorrupt, s.path, key)
		}
		if rec.Key == "" {
			rec.Key = key
		}
		if rec.Key != key {
			return fmt.Errorf("%w: %s: record stored under %q has key %q", ErrCorrupt, s.path, key, rec.Key)
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %s: record %q: %v", ErrCorrupt, s.path, key, err)
		}
		records[key] = rec
	}

	s.records = records
	return nil
}

// Upsert inserts rec or overwrites the record with the same key.
// The store keeps its own copy.
func (s *Store) Upsert(rec *production.Record) (Result, error) {
	if rec == nil {
		return Inserted, fmt.Errorf("upserting nil record")
	}
	if strings.TrimSpace(rec.Key) == "" {
		return Inserted, fmt.Errorf("%w: key is required", production.ErrInvalid)
	}
	if err := rec.Validate(); err != nil {
		return Inserted, fmt.Errorf("record %q: %w", rec.Key, err)
	}

	result := Inserted
	if _, exists := s.records[rec.Key]; exists {
		result = Updated
	}
	s.records[rec.Key] = rec.Clone()
	return result, nil
}

// Get returns a copy of the record stored under key
func (s *Store) Get(key string) (*production.Record, bool) {
	rec, ok := s.records[key]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Has reports whether key is taken
func (s *Store) Has(key string) bool {
	_, ok := s.records[key]
	return ok
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

// All returns copies of every record sorted by key
func (s *Store) All() []*production.Record {
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	all := make([]*production.Record, 0, len(keys))
	for _, key := range keys {
		all = append(all, s.records[key].Clone())
	}
	return all
}

// Save writes the whole mapping to disk. The document is written to a
// temporary file in the same directory and renamed over the target, so a
// crash leaves either the old or the new document.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting store permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}
