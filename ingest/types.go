// Package ingest turns raw daily scraper payloads into persisted price
// records: numeric parsing, date validation, duplicate detection and metric
// backfill, with a full per-row accounting of the outcome.
package ingest

// ObservationData carries the six raw textual fields of one scraped daily
// observation. Field keys match the scraper output verbatim. Values are
// usually strings with thousands separators or currency symbols, but older
// scraper versions emit plain numbers, so fields stay untyped until parsing.
type ObservationData struct {
	Volume          any `json:"Volume"`
	LastTradedPrice any `json:"Last Traded Price ($)"`
	ClosingPrice    any `json:"Closing Price ($)"`
	PriceChange     any `json:"Price Change ($)"`
	ClosingBid      any `json:"Closing Bid ($)"`
	ClosingAsk      any `json:"Closing Ask ($)"`
}

// DailyEntry is one ticker's payload for one date key. A nil metric pointer
// (explicit null or absent field) is backfilled from history at ingest time;
// a supplied value passes through untouched, including zero.
type DailyEntry struct {
	Change1DayPct  *float64        `json:"1_day_change_pct"`
	Change30DayPct *float64        `json:"30_day_change_pct"`
	RelativeVolume *float64        `json:"relative_volume"`
	Data           ObservationData `json:"data"`
}

// needsBackfill reports whether any metric must be computed from history
func (e DailyEntry) needsBackfill() bool {
	return e.Change1DayPct == nil || e.Change30DayPct == nil || e.RelativeVolume == nil
}

// Payload maps ticker -> date key -> daily entry
type Payload map[string]map[string]DailyEntry

// ParsedObservation holds the six observation fields after numeric parsing
type ParsedObservation struct {
	Volume          float64
	LastTradedPrice float64
	ClosingPrice    float64
	PriceChange     float64
	ClosingBid      float64
	ClosingAsk      float64
}

// RowError identifies one (ticker, date) unit that could not be ingested
type RowError struct {
	Ticker string `json:"ticker"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Summary is the full accounting of one ingestion call. Success is true iff
// no row failed; skipped duplicates never flip it.
type Summary struct {
	Success  bool       `json:"success"`
	Received int        `json:"received"`
	Inserted int        `json:"inserted"`
	Skipped  int        `json:"skipped"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}
