package database

import "time"

// Stock is the parent entity for a ticker's price records. Stocks are created
// implicitly on first observation of a ticker and are never updated; deleting
// a stock cascades to its records.
type Stock struct {
	Ticker    string        `gorm:"primaryKey;size:20" json:"ticker"`
	CreatedAt time.Time     `json:"created_at"`
	Records   []PriceRecord `gorm:"foreignKey:Ticker;references:Ticker;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Stock
func (Stock) TableName() string {
	return "stocks"
}

// PriceRecord is one ticker's market observation for one UTC calendar day.
//
// Key Fields:
//   - Ticker: the stock symbol (part of the unique day index)
//   - Date: UTC midnight instant of the observation day (part of the unique day index)
//   - Volume / prices: values parsed from the raw scraper payload
//   - Change1DayPct / Change30DayPct / RelativeVolume: derived metrics,
//     supplied by the payload or backfilled from history at ingest time
//
// The derived metrics are never null once persisted; 0 stands in when history
// could not support a value. Ingestion never updates an existing row.
type PriceRecord struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Ticker          string    `gorm:"size:20;not null;uniqueIndex:idx_price_records_ticker_date" json:"ticker"`
	Date            time.Time `gorm:"not null;uniqueIndex:idx_price_records_ticker_date" json:"date"`
	Volume          float64   `gorm:"not null" json:"volume"`
	LastTradedPrice float64   `gorm:"not null" json:"last_traded_price"`
	ClosingPrice    float64   `gorm:"not null" json:"closing_price"`
	PriceChange     float64   `gorm:"not null" json:"price_change"`
	ClosingBid      float64   `gorm:"not null" json:"closing_bid"`
	ClosingAsk      float64   `gorm:"not null" json:"closing_ask"`
	Change1DayPct   float64   `gorm:"not null" json:"change_1day_pct"`
	Change30DayPct  float64   `gorm:"not null" json:"change_30day_pct"`
	RelativeVolume  float64   `gorm:"not null" json:"relative_volume"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for PriceRecord
func (PriceRecord) TableName() string {
	return "price_records"
}
