package ingest

import (
	"errors"
	"sort"
	"time"

	"market-pulse/database"
	"market-pulse/helpers"
)

// historyDepth bounds the backfill lookback window in records
const historyDepth = 30

// ErrEmptyPayload rejects a structurally empty ingestion request before any
// row processing starts. It is the only wholesale rejection the pipeline has;
// every per-row problem is reported through the summary instead.
var ErrEmptyPayload = errors.New("empty payload")

// Store is the persistence surface the pipeline needs. *database.PriceRepository
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	UpsertStock(ticker string) error
	FindRecord(ticker string, start, end time.Time) (*database.PriceRecord, error)
	RecentHistory(ticker string, before time.Time, limit int) ([]database.PriceRecord, error)
	InsertPriceRecord(rec *database.PriceRecord) error
}

// Pipeline ingests daily observation payloads into the price record store
type Pipeline struct {
	store Store
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(store Store) *Pipeline {
	return &Pipeline{store: store}
}

// Ingest processes one payload and returns the per-row accounting. The batch
// always runs to completion: duplicates are skipped, invalid rows are counted
// as failed with a reason, and only an empty payload aborts the call.
func (p *Pipeline) Ingest(payload Payload) (*Summary, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	summary := &Summary{Errors: []RowError{}}

	// Map iteration order is randomized; sort tickers so two runs over the
	// same payload produce identical summaries.
	tickers := make([]string, 0, len(payload))
	for ticker := range payload {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	for _, ticker := range tickers {
		datesData := payload[ticker]

		// The parent stock row must exist before any of its records
		if err := p.store.UpsertStock(ticker); err != nil {
			for dateKey := range datesData {
				summary.Received++
				summary.Failed++
				summary.Errors = append(summary.Errors, RowError{
					Ticker: ticker,
					Date:   dateKey,
					Reason: "failed to upsert stock record",
				})
			}
			continue
		}

		// Ascending date keys are chronological for YYYY-MM-DD. Each insert
		// lands before the next date's backfill query runs, so earlier dates
		// of the same batch count as history for later ones.
		dateKeys := make([]string, 0, len(datesData))
		for dateKey := range datesData {
			dateKeys = append(dateKeys, dateKey)
		}
		sort.Strings(dateKeys)

		for _, dateKey := range dateKeys {
			summary.Received++
			p.ingestOne(summary, ticker, dateKey, datesData[dateKey])
		}
	}

	summary.Success = summary.Failed == 0
	return summary, nil
}

// ingestOne handles a single (ticker, date) unit and records its outcome
func (p *Pipeline) ingestOne(summary *Summary, ticker, dateKey string, entry DailyEntry) {
	day, ok := helpers.DayRangeForKey(dateKey)
	if !ok {
		summary.Failed++
		summary.Errors = append(summary.Errors, RowError{
			Ticker: ticker,
			Date:   dateKey,
			Reason: "invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	parsed := ParsedObservation{
		Volume:          helpers.ParseNumber(entry.Data.Volume),
		LastTradedPrice: helpers.ParseNumber(entry.Data.LastTradedPrice),
		ClosingPrice:    helpers.ParseNumber(entry.Data.ClosingPrice),
		PriceChange:     helpers.ParseNumber(entry.Data.PriceChange),
		ClosingBid:      helpers.ParseNumber(entry.Data.ClosingBid),
		ClosingAsk:      helpers.ParseNumber(entry.Data.ClosingAsk),
	}

	// Cheap duplicate guard before computing anything; ingestion never
	// overwrites an existing row.
	existing, err := p.store.FindRecord(ticker, day.Start, day.End)
	if err != nil {
		summary.Failed++
		summary.Errors = append(summary.Errors, RowError{Ticker: ticker, Date: dateKey, Reason: err.Error()})
		return
	}
	if existing != nil {
		summary.Skipped++
		return
	}

	var metrics Metrics
	if entry.needsBackfill() {
		history, err := p.store.RecentHistory(ticker, day.Start, historyDepth)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, RowError{Ticker: ticker, Date: dateKey, Reason: err.Error()})
			return
		}
		metrics = BackfillMetrics(entry, parsed, history)
	} else {
		metrics = Metrics{
			Change1DayPct:  *entry.Change1DayPct,
			Change30DayPct: *entry.Change30DayPct,
			RelativeVolume: *entry.RelativeVolume,
		}
	}

	rec := &database.PriceRecord{
		Ticker:          ticker,
		Date:            day.Start,
		Volume:          parsed.Volume,
		LastTradedPrice: parsed.LastTradedPrice,
		ClosingPrice:    parsed.ClosingPrice,
		PriceChange:     parsed.PriceChange,
		ClosingBid:      parsed.ClosingBid,
		ClosingAsk:      parsed.ClosingAsk,
		Change1DayPct:   metrics.Change1DayPct,
		Change30DayPct:  metrics.Change30DayPct,
		RelativeVolume:  metrics.RelativeVolume,
	}

	if err := p.store.InsertPriceRecord(rec); err != nil {
		if errors.Is(err, database.ErrDuplicateRecord) {
			// Lost a race with a concurrent ingest of the same day
			summary.Skipped++
			return
		}
		summary.Failed++
		summary.Errors = append(summary.Errors, RowError{Ticker: ticker, Date: dateKey, Reason: err.Error()})
		return
	}

	summary.Inserted++
}

// DateKeys returns the distinct, valid date keys a payload touches. The API
// layer uses it to invalidate cached reports after an ingest.
func (p Payload) DateKeys() []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, dates := range p {
		for dateKey := range dates {
			if _, dup := seen[dateKey]; dup || !helpers.IsValidDateKey(dateKey) {
				continue
			}
			seen[dateKey] = struct{}{}
			keys = append(keys, dateKey)
		}
	}
	sort.Strings(keys)
	return keys
}
