package report

import (
	"math"
	"testing"
	"time"

	"market-pulse/database"
)

var reportDay = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func dayRecord(ticker string, change1, change30, relVol, volume float64) database.PriceRecord {
	return database.PriceRecord{
		Ticker:         ticker,
		Date:           reportDay,
		ClosingPrice:   10,
		Volume:         volume,
		Change1DayPct:  change1,
		Change30DayPct: change30,
		RelativeVolume: relVol,
	}
}

// historyOf builds a most-recent-first history of closes with fixed changes
func historyOf(ticker string, closes ...float64) []database.PriceRecord {
	records := make([]database.PriceRecord, len(closes))
	for i, c := range closes {
		records[i] = database.PriceRecord{
			Ticker:        ticker,
			Date:          reportDay.AddDate(0, 0, -i),
			ClosingPrice:  c,
			Change1DayPct: float64(i), // distinct, known changes for volatility
		}
	}
	return records
}

func TestBuildReportEmptyDay(t *testing.T) {
	if got := BuildReport(nil, nil, "2024-03-15", "March 15, 2024"); got != nil {
		t.Fatalf("empty day must produce no report, got %+v", got)
	}
}

func TestBuildReportMarketMood(t *testing.T) {
	records := []database.PriceRecord{
		dayRecord("G1", 1.0, 0, 1, 100),
		dayRecord("G2", 2.0, 0, 1, 100),
		dayRecord("G3", 3.5, 0, 1, 100),
		dayRecord("L1", -1.0, 0, 1, 100),
		dayRecord("L2", -0.5, 0, 1, 100),
	}

	data := BuildReport(records, nil, "2024-03-15", "March 15, 2024")
	if data == nil {
		t.Fatal("expected report data")
	}

	if data.TotalTickers != 5 || data.TotalGainers != 3 || data.TotalLosers != 2 {
		t.Errorf("counts wrong: %+v", data)
	}
	if math.Abs(data.MarketMood-60.0) > 1e-9 {
		t.Errorf("MarketMood = %v, want 60", data.MarketMood)
	}
	if data.Date != "2024-03-15" || data.FormattedDate != "March 15, 2024" {
		t.Errorf("dates wrong: %q %q", data.Date, data.FormattedDate)
	}
}

func TestBuildReportTopGainersAndLosers(t *testing.T) {
	records := []database.PriceRecord{
		dayRecord("A", 5.0, 0, 1, 100),
		dayRecord("B", 3.0, 0, 1, 100),
		dayRecord("C", 8.0, 0, 1, 100),
		dayRecord("D", 1.0, 0, 1, 100),
		dayRecord("E", 0, 0, 1, 100), // flat: neither gainer nor loser
		dayRecord("F", -2.0, 0, 1, 100),
		dayRecord("G", -7.0, 0, 1, 100),
	}

	data := BuildReport(records, nil, "2024-03-15", "")

	gainers := tickersOf(data.TopGainers)
	if len(gainers) != 3 || gainers[0] != "C" || gainers[1] != "A" || gainers[2] != "B" {
		t.Errorf("TopGainers = %v", gainers)
	}
	for _, s := range data.TopGainers {
		if s.Change1DayPct <= 0 {
			t.Errorf("non-positive change in TopGainers: %+v", s)
		}
	}

	losers := tickersOf(data.TopLosers)
	if len(losers) != 2 || losers[0] != "G" || losers[1] != "F" {
		t.Errorf("TopLosers = %v", losers)
	}
}

func TestBuildReportVolumeSections(t *testing.T) {
	records := []database.PriceRecord{
		dayRecord("V1", 0, 0, 2.5, 900),
		dayRecord("V2", 0, 0, 1.6, 800),
		dayRecord("V3", 0, 0, 2.0, 700), // exactly 2.0 is not unusual
		dayRecord("V4", 0, 0, 1.5, 600), // exactly 1.5 is not high
		dayRecord("V5", 0, 0, 0.5, 1000),
		dayRecord("V6", 0, 0, 3.0, 50),
	}

	data := BuildReport(records, nil, "2024-03-15", "")

	leaders := tickersOf(data.VolumeLeaders)
	want := []string{"V5", "V1", "V2", "V3", "V4"}
	if len(leaders) != 5 {
		t.Fatalf("VolumeLeaders = %v", leaders)
	}
	for i := range want {
		if leaders[i] != want[i] {
			t.Errorf("VolumeLeaders = %v, want %v", leaders, want)
			break
		}
	}

	unusual := tickersOf(data.UnusualVolume)
	if len(unusual) != 2 || unusual[0] != "V6" || unusual[1] != "V1" {
		t.Errorf("UnusualVolume = %v", unusual)
	}

	high := tickersOf(data.HighRelativeVolume)
	if len(high) != 3 || high[0] != "V6" || high[1] != "V1" || high[2] != "V2" {
		t.Errorf("HighRelativeVolume = %v", high)
	}
}

func TestBuildReportRecoveryBoundaries(t *testing.T) {
	records := []database.PriceRecord{
		dayRecord("IN", 3.1, -10.1, 1, 100),
		dayRecord("EDGE1", 3.0, -20.0, 1, 100), // daily exactly 3: excluded
		dayRecord("EDGE2", 5.0, -10.0, 1, 100), // monthly exactly -10: excluded
		dayRecord("OUT", 5.0, 4.0, 1, 100),
		dayRecord("IN2", 8.0, -15.0, 1, 100),
	}

	data := BuildReport(records, nil, "2024-03-15", "")

	recovery := tickersOf(data.RecoveryStocks)
	if len(recovery) != 2 || recovery[0] != "IN2" || recovery[1] != "IN" {
		t.Errorf("RecoveryStocks = %v", recovery)
	}
}

func TestBuildReportMomentumLimits(t *testing.T) {
	var records []database.PriceRecord
	for i := 0; i < 12; i++ {
		records = append(records, dayRecord(
			string(rune('A'+i)), float64(i), float64(-i), 1, 100,
		))
	}

	data := BuildReport(records, nil, "2024-03-15", "")

	if len(data.MomentumDaily) != 10 {
		t.Fatalf("MomentumDaily length = %d", len(data.MomentumDaily))
	}
	if data.MomentumDaily[0].Change1DayPct != 11 {
		t.Errorf("MomentumDaily[0] = %+v", data.MomentumDaily[0])
	}
	if len(data.MomentumMonthly) != 10 {
		t.Fatalf("MomentumMonthly length = %d", len(data.MomentumMonthly))
	}
	if data.MomentumMonthly[0].Change30DayPct != 0 {
		t.Errorf("MomentumMonthly[0] = %+v", data.MomentumMonthly[0])
	}
}

func TestEnrichStock52Week(t *testing.T) {
	rec := dayRecord("ABC", 0, 0, 1, 100)
	rec.ClosingPrice = 8.0
	history := historyOf("ABC", 8.0, 12.0, 4.0, 9.0, 10.0)

	s := enrichStock(rec, history)

	if s.High52w == nil || *s.High52w != 12.0 {
		t.Fatalf("High52w = %v", s.High52w)
	}
	if s.Low52w == nil || *s.Low52w != 4.0 {
		t.Fatalf("Low52w = %v", s.Low52w)
	}
	if s.High52wDistance == nil || math.Abs(*s.High52wDistance-(8.0/12.0-1)) > 1e-9 {
		t.Fatalf("High52wDistance = %v", s.High52wDistance)
	}

	// Chronological sparkline: oldest first
	if len(s.PriceHistory) != 5 || s.PriceHistory[0] != 10.0 || s.PriceHistory[4] != 8.0 {
		t.Errorf("PriceHistory = %v", s.PriceHistory)
	}
}

func TestEnrichStockNoHistory(t *testing.T) {
	s := enrichStock(dayRecord("ABC", 2.0, 0, 1.5, 100), nil)

	if s.High52w != nil || s.Low52w != nil || s.High52wDistance != nil {
		t.Errorf("52-week bounds must be null without history: %+v", s)
	}
	if s.VolatilityRank != nil {
		t.Errorf("volatility must be null without history: %v", *s.VolatilityRank)
	}
	if len(s.PriceHistory) != 0 {
		t.Errorf("PriceHistory = %v", s.PriceHistory)
	}
	if math.Abs(s.VolumeConviction-3.0) > 1e-9 {
		t.Errorf("VolumeConviction = %v, want 3.0", s.VolumeConviction)
	}
}

func TestVolatilityRank(t *testing.T) {
	t.Run("below five samples is null", func(t *testing.T) {
		s := enrichStock(dayRecord("ABC", 0, 0, 1, 100), historyOf("ABC", 1, 2, 3, 4))
		if s.VolatilityRank != nil {
			t.Errorf("VolatilityRank = %v, want nil", *s.VolatilityRank)
		}
	})

	t.Run("population standard deviation", func(t *testing.T) {
		// historyOf assigns changes 0,1,2,3,4: mean 2, population variance 2
		s := enrichStock(dayRecord("ABC", 0, 0, 1, 100), historyOf("ABC", 1, 2, 3, 4, 5))
		if s.VolatilityRank == nil {
			t.Fatal("VolatilityRank is nil")
		}
		if math.Abs(*s.VolatilityRank-math.Sqrt2) > 1e-9 {
			t.Errorf("VolatilityRank = %v, want sqrt(2)", *s.VolatilityRank)
		}
	})

	t.Run("only the last thirty days count", func(t *testing.T) {
		// 35 history records; closes beyond index 29 must not affect the window
		closes := make([]float64, 35)
		for i := range closes {
			closes[i] = float64(i + 1)
		}
		s := enrichStock(dayRecord("ABC", 0, 0, 1, 100), historyOf("ABC", closes...))
		if len(s.PriceHistory) != 30 {
			t.Errorf("PriceHistory length = %d, want 30", len(s.PriceHistory))
		}
		// Most recent 30 in chronological order: closes 30 down to 1 reversed
		if s.PriceHistory[0] != 30 || s.PriceHistory[29] != 1 {
			t.Errorf("PriceHistory window wrong: first=%v last=%v", s.PriceHistory[0], s.PriceHistory[29])
		}
	})
}

func tickersOf(stocks []EnrichedStock) []string {
	out := make([]string, len(stocks))
	for i, s := range stocks {
		out[i] = s.Ticker
	}
	return out
}
