package ingest

import "market-pulse/database"

// Metrics are the derived values persisted with every price record. Once a
// record is persisted these are never null; 0 stands in where history could
// not support a value.
type Metrics struct {
	Change1DayPct  float64
	Change30DayPct float64
	RelativeVolume float64
}

// BackfillMetrics fills in the metrics the payload left null from the
// ticker's prior records. history must be ordered most recent first and
// truncated to the 30 latest records; metrics supplied in the entry pass
// through verbatim and are never recomputed.
func BackfillMetrics(entry DailyEntry, parsed ParsedObservation, history []database.PriceRecord) Metrics {
	var m Metrics

	if entry.Change1DayPct != nil {
		m.Change1DayPct = *entry.Change1DayPct
	} else if len(history) > 0 {
		prev := history[0]
		if prev.ClosingPrice > 0 {
			m.Change1DayPct = (parsed.ClosingPrice - prev.ClosingPrice) / prev.ClosingPrice * 100
		}
	}

	if entry.Change30DayPct != nil {
		m.Change30DayPct = *entry.Change30DayPct
	} else if len(history) > 0 {
		// Offsets are trading days, not calendar days: gaps in history shift
		// the comparison point. Index 28 is the 29th most recent close.
		indexToCompare := len(history) - 1
		if len(history) >= 29 {
			indexToCompare = 28
		}
		old := history[indexToCompare]
		if old.ClosingPrice > 0 {
			m.Change30DayPct = (parsed.ClosingPrice - old.ClosingPrice) / old.ClosingPrice * 100
		}
	}

	if entry.RelativeVolume != nil {
		m.RelativeVolume = *entry.RelativeVolume
	} else if len(history) > 0 {
		var totalVol float64
		for _, rec := range history {
			totalVol += rec.Volume
		}
		avgVol := totalVol / float64(len(history))
		if avgVol > 0 {
			m.RelativeVolume = parsed.Volume / avgVol
		}
	}

	return m
}
