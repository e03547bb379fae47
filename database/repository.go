package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceRepository handles database operations for stocks and price records
type PriceRepository struct {
	db *Database
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *Database) *PriceRepository {
	return &PriceRepository{db: db}
}

// InitSchema performs auto-migration for the stock and price record tables
func (r *PriceRepository) InitSchema() error {
	if err := r.db.db.AutoMigrate(&Stock{}, &PriceRecord{}); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Belt and braces for databases that predate the uniqueIndex tag; the
	// index is what makes concurrent ingestion safe.
	r.db.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_price_records_ticker_date
		ON price_records (ticker, date)
	`)

	return nil
}

// isDuplicateKeyError detects a violated unique constraint. GORM translates
// most of these to ErrDuplicatedKey; the message check covers paths the
// translation misses.
func isDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// UpsertStock creates the ticker's parent row if it does not exist yet.
// A no-op when the stock is already present.
func (r *PriceRepository) UpsertStock(ticker string) error {
	stock := Stock{Ticker: ticker}
	err := r.db.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&stock).Error
	if err != nil && !isDuplicateKeyError(err) {
		return fmt.Errorf("UpsertStock: %w", err)
	}
	return nil
}

// InsertPriceRecord persists a new price record. Returns ErrDuplicateRecord
// when the unique (ticker, date) index is violated, e.g. by a racing ingest.
func (r *PriceRepository) InsertPriceRecord(rec *PriceRecord) error {
	if err := r.db.db.Create(rec).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("InsertPriceRecord: %w", err)
	}
	return nil
}

// FindRecord returns the ticker's record inside [start, end), or nil when the
// day has not been ingested for that ticker.
func (r *PriceRepository) FindRecord(ticker string, start, end time.Time) (*PriceRecord, error) {
	var rec PriceRecord
	err := r.db.db.
		Where("ticker = ? AND date >= ? AND date < ?", ticker, start, end).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("FindRecord: %w", err)
	}
	return &rec, nil
}

// RecentHistory returns up to limit records for the ticker strictly before
// the given instant, most recent first.
func (r *PriceRepository) RecentHistory(ticker string, before time.Time, limit int) ([]PriceRecord, error) {
	var records []PriceRecord
	err := r.db.db.
		Where("ticker = ? AND date < ?", ticker, before).
		Order("date DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("RecentHistory: %w", err)
	}
	return records, nil
}

// DayRecords returns every record within [start, end), ordered by ticker.
func (r *PriceRepository) DayRecords(start, end time.Time) ([]PriceRecord, error) {
	var records []PriceRecord
	err := r.db.db.
		Where("date >= ? AND date < ?", start, end).
		Order("ticker ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("DayRecords: %w", err)
	}
	return records, nil
}

// HistoryInRange returns the records of the given tickers within [from, to),
// newest first. Callers group the flat result per ticker.
func (r *PriceRepository) HistoryInRange(tickers []string, from, to time.Time) ([]PriceRecord, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	var records []PriceRecord
	err := r.db.db.
		Where("ticker IN ? AND date >= ? AND date < ?", tickers, from, to).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("HistoryInRange: %w", err)
	}
	return records, nil
}

// ResetAll deletes every stock; price records cascade with their parent.
// Returns the number of stocks removed.
func (r *PriceRepository) ResetAll() (int64, error) {
	res := r.db.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Stock{})
	if res.Error != nil {
		return 0, fmt.Errorf("ResetAll: %w", res.Error)
	}
	return res.RowsAffected, nil
}
