// Package report builds the daily market report: per-ticker analytics derived
// from trailing history and the ranked, filtered sections the report document
// is composed of.
package report

import (
	"math"
	"sort"

	"market-pulse/database"
)

// Section size limits
const (
	topMoversLimit     = 3
	volumeLeadersLimit = 5
	momentumLimit      = 10
	unusualVolumeLimit = 10
)

// Analytic thresholds
const (
	unusualVolumeRatio  = 2.0
	highVolumeRatio     = 1.5
	recoveryDailyMinPct = 3.0
	recoveryMonthlyMax  = -10.0
	minVolatilitySample = 5
	sparklineDays       = 30
)

// EnrichedStock is a persisted day record augmented with report-scoped
// analytics. It exists only inside a built report and is never persisted.
//
// Pointer fields are null when history cannot support them: volatility below
// five samples, 52-week bounds with no history at all. Null deliberately
// means "insufficient data" where zero would mean "no movement".
type EnrichedStock struct {
	Ticker           string    `json:"ticker"`
	ClosingPrice     float64   `json:"closingPrice"`
	Volume           float64   `json:"volume"`
	Change1DayPct    float64   `json:"change1DayPct"`
	Change30DayPct   float64   `json:"change30DayPct"`
	RelativeVolume   float64   `json:"relativeVolume"`
	VolumeConviction float64   `json:"volumeConviction"`
	VolatilityRank   *float64  `json:"volatilityRank"`
	High52w          *float64  `json:"high52w"`
	Low52w           *float64  `json:"low52w"`
	High52wDistance  *float64  `json:"high52wDistance"`
	PriceHistory     []float64 `json:"priceHistory"`
}

// ReportData is everything the report document needs for one market day
type ReportData struct {
	Date          string  `json:"date"`
	FormattedDate string  `json:"formattedDate"`
	MarketMood    float64 `json:"marketMood"` // Percentage of gainers
	TotalTickers  int     `json:"totalTickers"`
	TotalGainers  int     `json:"totalGainers"`
	TotalLosers   int     `json:"totalLosers"`

	TopGainers         []EnrichedStock `json:"topGainers"`         // Top 3 by daily change
	TopLosers          []EnrichedStock `json:"topLosers"`          // Bottom 3 by daily change
	VolumeLeaders      []EnrichedStock `json:"volumeLeaders"`      // Top 5 by raw volume
	UnusualVolume      []EnrichedStock `json:"unusualVolume"`      // Relative volume > 2.0
	MomentumDaily      []EnrichedStock `json:"momentumDaily"`      // Top 10 by daily change
	MomentumMonthly    []EnrichedStock `json:"momentumMonthly"`    // Top 10 by monthly change
	HighRelativeVolume []EnrichedStock `json:"highRelativeVolume"` // Relative volume > 1.5
	RecoveryStocks     []EnrichedStock `json:"recoveryStocks"`     // Daily bounce after monthly decline
}

// BuildReport computes the full report for one day. dayRecords is the day's
// record set; historyByTicker holds each ticker's trailing-year records
// (including the report day itself), most recent first. Returns nil when the
// day has no records at all.
func BuildReport(dayRecords []database.PriceRecord, historyByTicker map[string][]database.PriceRecord, dateKey, formattedDate string) *ReportData {
	if len(dayRecords) == 0 {
		return nil
	}

	enriched := make([]EnrichedStock, 0, len(dayRecords))
	for _, rec := range dayRecords {
		enriched = append(enriched, enrichStock(rec, historyByTicker[rec.Ticker]))
	}

	gainers := 0
	losers := 0
	for _, s := range enriched {
		switch {
		case s.Change1DayPct > 0:
			gainers++
		case s.Change1DayPct < 0:
			losers++
		}
	}

	// A day with zero tickers would be mood 50 by definition, but such days
	// never reach this point: the empty check above returns first.
	marketMood := float64(gainers) / float64(len(enriched)) * 100

	return &ReportData{
		Date:          dateKey,
		FormattedDate: formattedDate,
		MarketMood:    marketMood,
		TotalTickers:  len(enriched),
		TotalGainers:  gainers,
		TotalLosers:   losers,

		TopGainers: top(filterStocks(enriched, func(s EnrichedStock) bool {
			return s.Change1DayPct > 0
		}, byChange1DayDesc), topMoversLimit),

		TopLosers: top(filterStocks(enriched, func(s EnrichedStock) bool {
			return s.Change1DayPct < 0
		}, byChange1DayAsc), topMoversLimit),

		VolumeLeaders: top(filterStocks(enriched, nil, byVolumeDesc), volumeLeadersLimit),

		UnusualVolume: top(filterStocks(enriched, func(s EnrichedStock) bool {
			return s.RelativeVolume > unusualVolumeRatio
		}, byRelativeVolumeDesc), unusualVolumeLimit),

		MomentumDaily: top(filterStocks(enriched, nil, byChange1DayDesc), momentumLimit),

		MomentumMonthly: top(filterStocks(enriched, nil, byChange30DayDesc), momentumLimit),

		HighRelativeVolume: filterStocks(enriched, func(s EnrichedStock) bool {
			return s.RelativeVolume > highVolumeRatio
		}, byRelativeVolumeDesc),

		RecoveryStocks: filterStocks(enriched, func(s EnrichedStock) bool {
			return s.Change1DayPct > recoveryDailyMinPct && s.Change30DayPct < recoveryMonthlyMax
		}, byChange1DayDesc),
	}
}

// enrichStock derives the report-scoped analytics for one day record from the
// ticker's trailing-year history (most recent first, report day included).
func enrichStock(rec database.PriceRecord, history []database.PriceRecord) EnrichedStock {
	s := EnrichedStock{
		Ticker:           rec.Ticker,
		ClosingPrice:     rec.ClosingPrice,
		Volume:           rec.Volume,
		Change1DayPct:    rec.Change1DayPct,
		Change30DayPct:   rec.Change30DayPct,
		RelativeVolume:   rec.RelativeVolume,
		VolumeConviction: rec.Change1DayPct * rec.RelativeVolume,
	}

	if len(history) > 0 {
		high := history[0].ClosingPrice
		low := history[0].ClosingPrice
		for _, h := range history[1:] {
			high = math.Max(high, h.ClosingPrice)
			low = math.Min(low, h.ClosingPrice)
		}
		s.High52w = &high
		s.Low52w = &low

		if high > 0 {
			distance := rec.ClosingPrice/high - 1
			s.High52wDistance = &distance
		}
	}

	last30 := history
	if len(last30) > sparklineDays {
		last30 = last30[:sparklineDays]
	}

	// Chronological closing prices for the sparkline
	s.PriceHistory = make([]float64, len(last30))
	for i, h := range last30 {
		s.PriceHistory[len(last30)-1-i] = h.ClosingPrice
	}

	s.VolatilityRank = volatility(last30)

	return s
}

// volatility is the population standard deviation of the last month's daily
// changes. Below minVolatilitySample it returns nil, not zero: too little
// data must not read as a perfectly calm stock.
func volatility(last30 []database.PriceRecord) *float64 {
	if len(last30) < minVolatilitySample {
		return nil
	}

	var mean float64
	for _, h := range last30 {
		mean += h.Change1DayPct
	}
	mean /= float64(len(last30))

	var variance float64
	for _, h := range last30 {
		variance += (h.Change1DayPct - mean) * (h.Change1DayPct - mean)
	}
	variance /= float64(len(last30))

	stddev := math.Sqrt(variance)
	return &stddev
}

// filterStocks copies the matching stocks and sorts the copy. A nil keep
// function matches everything.
func filterStocks(in []EnrichedStock, keep func(EnrichedStock) bool, less func(a, b EnrichedStock) bool) []EnrichedStock {
	out := make([]EnrichedStock, 0, len(in))
	for _, s := range in {
		if keep == nil || keep(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// top truncates a ranked slice to its section limit
func top(in []EnrichedStock, n int) []EnrichedStock {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func byChange1DayDesc(a, b EnrichedStock) bool  { return a.Change1DayPct > b.Change1DayPct }
func byChange1DayAsc(a, b EnrichedStock) bool   { return a.Change1DayPct < b.Change1DayPct }
func byChange30DayDesc(a, b EnrichedStock) bool { return a.Change30DayPct > b.Change30DayPct }
func byVolumeDesc(a, b EnrichedStock) bool      { return a.Volume > b.Volume }
func byRelativeVolumeDesc(a, b EnrichedStock) bool {
	return a.RelativeVolume > b.RelativeVolume
}
