package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ReadDB wraps a plain database/sql connection used for the report-side read
// queries: day counts that gate report generation and the distinct-date
// listing. Keeping reads on their own pool stops a heavy report build from
// starving the ingest path.
type ReadDB struct {
	conn *sql.DB
}

// ConnConfig holds database connection settings for the read pool
type ConnConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewReadDB opens the read connection pool
func NewReadDB(cfg ConnConfig) (*ReadDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Report reads are bursty but few; a small pool is plenty
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(2 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Read connection pool established")

	return &ReadDB{conn: conn}, nil
}

// Close closes the read connection pool
func (db *ReadDB) Close() error {
	if db.conn != nil {
		log.Println("📡 Closing read connection pool...")
		return db.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (db *ReadDB) Ping() error {
	return db.conn.Ping()
}

// CountRecordsInRange reports how many price records fall inside [start, end).
// A positive count is the precondition for building a report for that day.
func (db *ReadDB) CountRecordsInRange(start, end time.Time) (int64, error) {
	var count int64
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM price_records WHERE date >= $1 AND date < $2`,
		start, end,
	).Scan(&count)
	if err != nil {
		return 0, WrapDBError("CountRecordsInRange", err)
	}
	return count, nil
}

// DistinctRecordDates returns every day instant that has at least one price
// record, newest first.
func (db *ReadDB) DistinctRecordDates() ([]time.Time, error) {
	rows, err := db.conn.Query(
		`SELECT DISTINCT date FROM price_records ORDER BY date DESC`,
	)
	if err != nil {
		return nil, WrapDBError("DistinctRecordDates", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, WrapDBError("DistinctRecordDates", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapDBError("DistinctRecordDates", err)
	}
	return dates, nil
}
