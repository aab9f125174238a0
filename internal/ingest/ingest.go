package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gordoncheme/ctx-theatre-browser/internal/feed"
	"github.com/gordoncheme/ctx-theatre-browser/internal/htmltext"
	"github.com/gordoncheme/ctx-theatre-browser/internal/logger"
	"github.com/gordoncheme/ctx-theatre-browser/internal/production"
	"github.com/gordoncheme/ctx-theatre-browser/internal/scraper"
	"github.com/gordoncheme/ctx-theatre-browser/internal/storage"
)

// Fetcher retrieves a URL body. *scraper.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Store is the part of storage.Store a sync writes to
type Store interface {
	Upsert(rec *production.Record) (storage.Result, error)
}

// Warning describes one feed item that could not be stored
type Warning struct {
	Title  string
	Link   string
	Reason string
}

func (w Warning) String() string {
	name := w.Title
	if name == "" {
		name = w.Link
	}
	if name == "" {
		return w.Reason
	}
	return fmt.Sprintf("%s: %s", name, w.Reason)
}

// Report summarises one sync run
type Report struct {
	RunID    string
	Items    int // items in the feed
	Inserted int
	Updated  int
	Skipped  int // items outside the tracked category
	Warnings []Warning
	Duration time.Duration
}

// Stored is the number of records inserted or updated
func (r *Report) Stored() int {
	return r.Inserted + r.Updated
}

// Ingestor runs syncs against one feed
type Ingestor struct {
	fetcher  Fetcher
	parser   *feed.Parser
	feedURL  string
	category string
	log      *logger.Logger
	metrics  *logger.Metrics
	now      func() time.Time
}

// Option customises an Ingestor
type Option func(*Ingestor)

// WithLogger sets the logger. The default is logger.Default().
func WithLogger(l *logger.Logger) Option {
	return func(i *Ingestor) { i.log = l }
}

// WithMetrics records sync metrics on m instead of the default tracker
func WithMetrics(m *logger.Metrics) Option {
	return func(i *Ingestor) { i.metrics = m }
}

// New creates an Ingestor for feedURL that keeps items tagged category
func New(fetcher Fetcher, feedURL, category string, opts ...Option) *Ingestor {
	i := &Ingestor{
		fetcher:  fetcher,
		parser:   feed.NewParser(),
		feedURL:  feedURL,
		category: strings.TrimSpace(category),
		log:      logger.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Sync fetches the feed and upserts every tracked item into store.
// It returns an error only when the feed itself is unusable; per-item
// problems are collected in the report.
func (i *Ingestor) Sync(ctx context.Context, store Store) (*Report, error) {
	start := i.now()
	report := &Report{RunID: uuid.NewString()}
	log := i.log.With(logger.Fields{"run_id": report.RunID})

	log.Info("Sync started", logger.Fields{"feed_url": i.feedURL, "category": i.category})

	data, err := i.fetcher.Fetch(ctx, i.feedURL)
	if err != nil {
		log.Error("Feed fetch failed", logger.Fields{"feed_url": i.feedURL}, err)
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	items, err := i.parser.Parse(data)
	if err != nil {
		log.Error("Feed parse failed", logger.Fields{"feed_url": i.feedURL}, err)
		return nil, fmt.Errorf("reading feed %s: %w", i.feedURL, err)
	}
	report.Items = len(items)

	for _, item := range items {
		if !item.HasCategory(i.category) {
			report.Skipped++
			log.Debug("Skipping item outside category", logger.Fields{"title": item.Title, "categories": item.Categories})
			continue
		}

		result, err := i.syncItem(ctx, store, item)
		if err != nil {
			w := Warning{Title: item.Title, Link: item.Link, Reason: err.Error()}
			report.Warnings = append(report.Warnings, w)
			log.Warn("Item not stored", logger.Fields{"title": item.Title, "link": item.Link, "reason": w.Reason})
			continue
		}

		switch result {
		case storage.Updated:
			report.Updated++
		default:
			report.Inserted++
		}
	}

	report.Duration = i.now().Sub(start)
	i.record(report)

	log.Info("Sync finished", logger.Fields{
		"items":    report.Items,
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"skipped":  report.Skipped,
		"warnings": len(report.Warnings),
		"duration": report.Duration.String(),
	})
	return report, nil
}

func (i *Ingestor) syncItem(ctx context.Context, store Store, item feed.Item) (storage.Result, error) {
	if item.Title == "" {
		return storage.Inserted, fmt.Errorf("item has no title")
	}
	if item.Link == "" {
		return storage.Inserted, fmt.Errorf("item has no link")
	}
	key, err := production.KeyFromURL(item.Link)
	if err != nil {
		return storage.Inserted, err
	}

	page, err := i.fetcher.Fetch(ctx, item.Link)
	if err != nil {
		return storage.Inserted, err
	}
	rec, err := scraper.ParsePage(bytes.NewReader(page))
	if err != nil {
		return storage.Inserted, fmt.Errorf("parsing detail page: %w", err)
	}

	rec.Key = key
	rec.Title = item.Title
	rec.URL = item.Link
	rec.Category = i.category
	rec.FeedDescriptionHTML = item.Description
	rec.FeedDescription = htmltext.Normalize(item.Description)

	return store.Upsert(rec)
}

func (i *Ingestor) record(report *Report) {
	add := logger.AddCounter
	timing := logger.RecordTiming
	if i.metrics != nil {
		add = i.metrics.AddCounter
		timing = i.metrics.RecordTiming
	}
	add("sync.inserted", int64(report.Inserted))
	add("sync.updated", int64(report.Updated))
	add("sync.warnings", int64(len(report.Warnings)))
	timing("sync.duration", report.Duration)
}
