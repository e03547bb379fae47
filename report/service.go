package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"market-pulse/cache"
	"market-pulse/database"
	"market-pulse/helpers"
)

// displayDateLayout renders the report's human-readable heading date
const displayDateLayout = "January 2, 2006"

const cacheKeyPrefix = "report:data:"

// ErrInvalidDateKey reports a report request with a malformed date key
var ErrInvalidDateKey = errors.New("invalid date key, expected YYYY-MM-DD")

// ErrNoDataForDate reports a report request for a day with no persisted records
var ErrNoDataForDate = errors.New("no market data for date")

// Store is the read surface the report service needs. *database.PriceRepository
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	DayRecords(start, end time.Time) ([]database.PriceRecord, error)
	HistoryInRange(tickers []string, from, to time.Time) ([]database.PriceRecord, error)
}

// Service builds report data for a date, caching built reports in Redis.
// Reports are read-heavy and expensive to compute, so cache-aside pays off;
// the cache being down degrades to recomputation, never to a failed request.
type Service struct {
	store Store
	cache *cache.RedisClient // nil disables caching
	ttl   time.Duration
}

// NewService creates a new report service
func NewService(store Store, cacheClient *cache.RedisClient, ttl time.Duration) *Service {
	return &Service{store: store, cache: cacheClient, ttl: ttl}
}

// ForDate returns the report data for a date key, building it from storage on
// a cache miss. Returns ErrNoDataForDate when the day has no records.
func (s *Service) ForDate(ctx context.Context, dateKey string) (*ReportData, error) {
	day, ok := helpers.DayRangeForKey(dateKey)
	if !ok {
		return nil, ErrInvalidDateKey
	}

	cacheKey := cacheKeyPrefix + dateKey
	if s.cache != nil {
		var cached ReportData
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	dayRecords, err := s.store.DayRecords(day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("ForDate: %w", err)
	}
	if len(dayRecords) == 0 {
		return nil, ErrNoDataForDate
	}

	tickers := make([]string, 0, len(dayRecords))
	for _, rec := range dayRecords {
		tickers = append(tickers, rec.Ticker)
	}

	// Trailing year of history per ticker, report day included. The store
	// returns the flat set newest first; regroup per ticker preserving order.
	oneYearAgo := day.Start.AddDate(-1, 0, 0)
	historyRecords, err := s.store.HistoryInRange(tickers, oneYearAgo, day.End)
	if err != nil {
		return nil, fmt.Errorf("ForDate: %w", err)
	}

	historyByTicker := make(map[string][]database.PriceRecord, len(tickers))
	for _, rec := range historyRecords {
		historyByTicker[rec.Ticker] = append(historyByTicker[rec.Ticker], rec)
	}

	data := BuildReport(dayRecords, historyByTicker, dateKey, helpers.FormatDateKey(dateKey, displayDateLayout))

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, data, s.ttl); err != nil {
			log.Printf("⚠️  Failed to cache report %s: %v", dateKey, err)
		}
	}

	return data, nil
}

// InvalidateDates drops cached reports for the given date keys. Called after
// an ingest touches those days.
func (s *Service) InvalidateDates(ctx context.Context, dateKeys []string) {
	if s.cache == nil {
		return
	}
	for _, dateKey := range dateKeys {
		if err := s.cache.Delete(ctx, cacheKeyPrefix+dateKey); err != nil {
			log.Printf("⚠️  Failed to invalidate cached report %s: %v", dateKey, err)
		}
	}
}

// InvalidateAll drops every cached report. Called on admin reset.
func (s *Service) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, cacheKeyPrefix); err != nil {
		log.Printf("⚠️  Failed to flush report cache: %v", err)
	}
}
