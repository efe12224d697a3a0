// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/okian/runelens/internal/adapters/export"
	"github.com/okian/runelens/internal/adapters/http/hiscores"
	"github.com/okian/runelens/internal/adapters/mq/queue"
	"github.com/okian/runelens/internal/adapters/mq/worker"
	"github.com/okian/runelens/internal/adapters/repository"
	"github.com/okian/runelens/internal/domain/hiscore"
	"github.com/okian/runelens/internal/domain/model"
	"github.com/okian/runelens/internal/domain/price"
	"github.com/okian/runelens/internal/domain/resolve"
	"github.com/okian/runelens/pkg/logger"
	"github.com/okian/runelens/pkg/metrics"
)

// PriceSource retrieves item metadata and prices from the wiki price
// service.
type PriceSource interface {
	Mapping(ctx context.Context) ([]model.ItemMeta, error)
	Latest(ctx context.Context) (map[int]model.PriceObservation, error)
	Timeseries(ctx context.Context, itemID int, step string) ([]model.TimeseriesPoint, error)
	Graph(ctx context.Context, itemID int) (price.HistorySeries, error)
}

// StatsSource retrieves raw hiscore feeds for players.
type StatsSource interface {
	PlayerFeed(ctx context.Context, username string) (string, error)
}

// Exporter persists artifacts for completed operations.
type Exporter interface {
	WritePlayerStats(stats model.PlayerStats) (export.PlayerArtifacts, error)
	WritePriceSnapshot(records map[int]model.EnrichedPriceRecord) (export.SnapshotArtifacts, error)
	WriteTimeseries(itemID int, itemName string, points []model.TimeseriesPoint) (string, error)
	WriteHistory(itemID int, itemName string, history model.PriceHistory) (string, error)
}

// Service implements the API dependencies for the collection system.
type Service struct {
	mu sync.RWMutex

	// Core components
	prices   PriceSource
	stats    StatsSource
	exporter Exporter
	catalog  *repository.Catalog

	// Configuration
	workerCount      int
	queueSize        int
	maxSearchResults int

	// Counters
	playersFetched   int64
	snapshotsWritten int64
	seriesFetched    int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fetch worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the fetch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxSearchResults caps the number of rows a name search returns.
func WithMaxSearchResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSearchResults = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over the given sources and exporter.
func New(prices PriceSource, stats StatsSource, exporter Exporter, opts ...Option) *Service {
	s := &Service{
		prices:           prices,
		stats:            stats,
		exporter:         exporter,
		workerCount:      4,
		queueSize:        256,
		maxSearchResults: 25,
		logger:           logger.Get().Named("service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PlayerResult bundles decoded stats with their written artifacts.
type PlayerResult struct {
	Stats     model.PlayerStats
	Artifacts export.PlayerArtifacts
}

// PlayerStats fetches, decodes, and persists one player's hiscore feed.
func (s *Service) PlayerStats(ctx context.Context, username string) (PlayerResult, error) {
	feed, err := s.stats.PlayerFeed(ctx, username)
	if err != nil {
		return PlayerResult{}, fmt.Errorf("fetching hiscore feed for %q: %w", username, err)
	}

	stats, err := hiscore.Decode(feed)
	if err != nil {
		metrics.RecordDecodeFailure()
		return PlayerResult{}, fmt.Errorf("decoding hiscore feed for %q: %w", username, err)
	}
	metrics.RecordFeedDecoded()
	for skipped := taxonomySize() - decodedSize(stats); skipped > 0; skipped-- {
		metrics.RecordRecordSkipped()
	}
	stats.Username = hiscores.Sanitize(username)

	arts, err := s.exporter.WritePlayerStats(stats)
	if err != nil {
		return PlayerResult{}, fmt.Errorf("writing player artifacts: %w", err)
	}

	atomic.AddInt64(&s.playersFetched, 1)
	s.logger.Info(ctx, "player stats collected",
		logger.String("username", stats.Username),
		logger.Int("skills", len(stats.Skills)),
		logger.Int("activities", len(stats.Activities)),
		logger.Int("bosses", len(stats.Bosses)),
	)

	return PlayerResult{Stats: stats, Artifacts: arts}, nil
}

// SnapshotResult bundles an enriched batch with its written artifacts.
type SnapshotResult struct {
	Records   map[int]model.EnrichedPriceRecord
	Artifacts export.SnapshotArtifacts
}

// SnapshotPrices refreshes the item catalog, joins it against the
// latest price observations, and persists the snapshot.
func (s *Service) SnapshotPrices(ctx context.Context) (SnapshotResult, error) {
	catalog, err := s.refreshCatalog(ctx)
	if err != nil {
		return SnapshotResult{}, err
	}

	observations, err := s.prices.Latest(ctx)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("fetching latest prices: %w", err)
	}

	records := price.Enrich(observations, catalog)
	recordEnrichment(observations, catalog)

	arts, err := s.exporter.WritePriceSnapshot(records)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("writing price snapshot: %w", err)
	}

	atomic.AddInt64(&s.snapshotsWritten, 1)
	s.logger.Info(ctx, "price snapshot written",
		logger.String("run_id", arts.RunID),
		logger.Int("records", len(records)),
	)

	return SnapshotResult{Records: records, Artifacts: arts}, nil
}

// LatestPrices joins the latest observations against the catalog
// without writing artifacts.
func (s *Service) LatestPrices(ctx context.Context) (map[int]model.EnrichedPriceRecord, error) {
	catalog, err := s.ensureCatalog(ctx)
	if err != nil {
		return nil, err
	}

	observations, err := s.prices.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest prices: %w", err)
	}

	records := price.Enrich(observations, catalog)
	recordEnrichment(observations, catalog)
	return records, nil
}

// ResolveItem maps a user-supplied query to a catalog entry.
func (s *Service) ResolveItem(ctx context.Context, query string) (resolve.Result, error) {
	catalog, err := s.ensureCatalog(ctx)
	if err != nil {
		return resolve.Result{}, err
	}
	return resolve.Resolve(query, catalog), nil
}

// SearchItems returns catalog entries whose names contain the query,
// capped at the configured maximum.
func (s *Service) SearchItems(ctx context.Context, query string) ([]model.ItemMeta, error) {
	catalog, err := s.ensureCatalog(ctx)
	if err != nil {
		return nil, err
	}

	matches := catalog.SearchByName(query)
	if len(matches) > s.maxSearchResults {
		matches = matches[:s.maxSearchResults]
	}
	return matches, nil
}

// SeriesResult bundles the bucketed timeseries and chronological
// history for one item, with artifact paths.
type SeriesResult struct {
	Item           model.ItemMeta
	Points         []model.TimeseriesPoint
	History        model.PriceHistory
	TimeseriesPath string
	HistoryPath    string
}

// ItemTimeseries resolves one item and collects both its bucketed
// timeseries and its daily/average history.
func (s *Service) ItemTimeseries(ctx context.Context, query, timestep string) (SeriesResult, error) {
	res, err := s.ResolveItem(ctx, query)
	if err != nil {
		return SeriesResult{}, err
	}
	switch res.Outcome {
	case resolve.NotFound:
		return SeriesResult{}, fmt.Errorf("%w: %q", repository.ErrItemNotFound, query)
	case resolve.Ambiguous:
		return SeriesResult{}, fmt.Errorf("%w: %q matches %d items", repository.ErrAmbiguousItem, query, len(res.Matches))
	}

	item := res.Item

	points, err := s.prices.Timeseries(ctx, item.ID, timestep)
	if err != nil {
		return SeriesResult{}, fmt.Errorf("fetching timeseries for %d: %w", item.ID, err)
	}

	series, err := s.prices.Graph(ctx, item.ID)
	if err != nil {
		return SeriesResult{}, fmt.Errorf("fetching price history for %d: %w", item.ID, err)
	}
	history := price.ParseHistory(series)
	metrics.RecordHistoryPoints(len(history.Daily) + len(history.Average))

	tsPath, err := s.exporter.WriteTimeseries(item.ID, item.Name, points)
	if err != nil {
		return SeriesResult{}, fmt.Errorf("writing timeseries artifact: %w", err)
	}
	histPath, err := s.exporter.WriteHistory(item.ID, item.Name, history)
	if err != nil {
		return SeriesResult{}, fmt.Errorf("writing history artifact: %w", err)
	}

	atomic.AddInt64(&s.seriesFetched, 1)

	return SeriesResult{
		Item:           item,
		Points:         points,
		History:        history,
		TimeseriesPath: tsPath,
		HistoryPath:    histPath,
	}, nil
}

// CompareResult holds one item's series within a comparison batch.
// Err is set when the fetch for that item failed; the rest of the
// batch is unaffected.
type CompareResult struct {
	Item   model.ItemMeta
	Points []model.TimeseriesPoint
	Err    error
}

// compareSink collects worker results keyed by item id.
type compareSink struct {
	mu      sync.Mutex
	results map[int]CompareResult
	items   map[int]model.ItemMeta
}

func (cs *compareSink) Accept(ctx context.Context, job queue.Job, points []model.TimeseriesPoint, err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.results[job.ItemID] = CompareResult{
		Item:   cs.items[job.ItemID],
		Points: points,
		Err:    err,
	}
}

// CompareTimeseries resolves each query and fetches their series
// concurrently through the worker pool. Queries that do not resolve to
// exactly one item fail the whole call; per-item fetch failures are
// reported in the result.
func (s *Service) CompareTimeseries(ctx context.Context, queries []string, timestep string) (map[int]CompareResult, error) {
	if len(queries) == 0 {
		return map[int]CompareResult{}, nil
	}

	items := make(map[int]model.ItemMeta, len(queries))
	jobs := make([]queue.Job, 0, len(queries))
	for _, q := range queries {
		res, err := s.ResolveItem(ctx, q)
		if err != nil {
			return nil, err
		}
		switch res.Outcome {
		case resolve.NotFound:
			return nil, fmt.Errorf("%w: %q", repository.ErrItemNotFound, q)
		case resolve.Ambiguous:
			return nil, fmt.Errorf("%w: %q matches %d items", repository.ErrAmbiguousItem, q, len(res.Matches))
		}
		if _, dup := items[res.Item.ID]; dup {
			continue
		}
		items[res.Item.ID] = res.Item
		jobs = append(jobs, queue.Job{ItemID: res.Item.ID, ItemName: res.Item.Name, Timestep: timestep})
	}

	q := queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	sink := &compareSink{
		results: make(map[int]CompareResult, len(jobs)),
		items:   items,
	}

	for _, job := range jobs {
		if !q.Enqueue(ctx, job) {
			return nil, fmt.Errorf("enqueueing fetch job for item %d: queue full", job.ItemID)
		}
	}

	pool := worker.NewPool(s.workerCount, q, s.prices, sink)
	pool.Start(ctx)

	// Closing the queue lets the pool drain and exit.
	if err := q.Close(); err != nil {
		return nil, fmt.Errorf("closing fetch queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, err
	}

	atomic.AddInt64(&s.seriesFetched, int64(len(jobs)))

	return sink.results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	catalogSize := 0
	if s.catalog != nil {
		catalogSize = s.catalog.Count()
	}
	s.mu.RUnlock()

	return map[string]interface{}{
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"catalogItems":     catalogSize,
		"playersFetched":   atomic.LoadInt64(&s.playersFetched),
		"snapshotsWritten": atomic.LoadInt64(&s.snapshotsWritten),
		"seriesFetched":    atomic.LoadInt64(&s.seriesFetched),
	}
}

// taxonomySize is the number of records a complete feed decodes to.
func taxonomySize() int {
	return len(hiscore.Skills) + len(hiscore.Activities) + len(hiscore.Bosses)
}

func decodedSize(stats model.PlayerStats) int {
	return len(stats.Skills) + len(stats.Activities) + len(stats.Bosses)
}

// recordEnrichment counts the join outcome of one enrichment pass.
func recordEnrichment(observations map[int]model.PriceObservation, catalog *repository.Catalog) {
	metrics.RecordEnriched(len(observations))
	for id := range observations {
		if _, ok := catalog.ByID(id); !ok {
			metrics.RecordUnknownItem()
		}
	}
}

// ensureCatalog returns the cached catalog, loading it on first use.
func (s *Service) ensureCatalog(ctx context.Context) (*repository.Catalog, error) {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}
	return s.refreshCatalog(ctx)
}

// refreshCatalog replaces the cached catalog with a fresh mapping.
func (s *Service) refreshCatalog(ctx context.Context) (*repository.Catalog, error) {
	mapping, err := s.prices.Mapping(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching item mapping: %w", err)
	}
	if len(mapping) == 0 {
		return nil, repository.ErrEmptySnapshot
	}

	catalog := repository.NewCatalog(mapping)

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	s.logger.Info(ctx, "item catalog refreshed", logger.Int("items", catalog.Count()))

	return catalog, nil
}
