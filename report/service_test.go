package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-pulse/database"
)

// fakeStore serves canned day records and captures the queried ranges
type fakeStore struct {
	dayRecords   []database.PriceRecord
	history      []database.PriceRecord
	historyFrom  time.Time
	historyTo    time.Time
	queriedTicks []string
}

func (f *fakeStore) DayRecords(start, end time.Time) ([]database.PriceRecord, error) {
	return f.dayRecords, nil
}

func (f *fakeStore) HistoryInRange(tickers []string, from, to time.Time) ([]database.PriceRecord, error) {
	f.queriedTicks = tickers
	f.historyFrom = from
	f.historyTo = to
	return f.history, nil
}

func TestServiceForDateInvalidKey(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, time.Hour)
	if _, err := svc.ForDate(context.Background(), "2024-02-30"); !errors.Is(err, ErrInvalidDateKey) {
		t.Fatalf("expected ErrInvalidDateKey, got %v", err)
	}
}

func TestServiceForDateNoData(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, time.Hour)
	if _, err := svc.ForDate(context.Background(), "2024-03-15"); !errors.Is(err, ErrNoDataForDate) {
		t.Fatalf("expected ErrNoDataForDate, got %v", err)
	}
}

func TestServiceForDateBuildsReport(t *testing.T) {
	store := &fakeStore{
		dayRecords: []database.PriceRecord{dayRecord("ABC", 2.0, 0, 1, 100)},
		history:    historyOf("ABC", 10, 11, 12),
	}
	svc := NewService(store, nil, time.Hour)

	data, err := svc.ForDate(context.Background(), "2024-03-15")
	if err != nil {
		t.Fatalf("ForDate: %v", err)
	}

	if data.TotalTickers != 1 || data.Date != "2024-03-15" {
		t.Errorf("unexpected report: %+v", data)
	}
	if data.FormattedDate != "March 15, 2024" {
		t.Errorf("FormattedDate = %q", data.FormattedDate)
	}

	// History window: trailing year up to the end of the report day
	if len(store.queriedTicks) != 1 || store.queriedTicks[0] != "ABC" {
		t.Errorf("queried tickers = %v", store.queriedTicks)
	}
	wantFrom := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if !store.historyFrom.Equal(wantFrom) || !store.historyTo.Equal(wantTo) {
		t.Errorf("history window = [%v, %v)", store.historyFrom, store.historyTo)
	}

	// The report day's own record is part of the 52-week window
	if data.TopGainers[0].High52w == nil || *data.TopGainers[0].High52w != 12 {
		t.Errorf("High52w = %v", data.TopGainers[0].High52w)
	}
}
