// Package database provides PostgreSQL persistence for the market-pulse
// ingestion and reporting system.
//
// This package includes:
//   - GORM connection management for the write/ingest path
//   - A parallel database/sql connection for report-side read queries
//   - Stock and PriceRecord models with a unique (ticker, date) index
//
// The unique index is the system's central consistency guarantee: at most one
// price record may exist per ticker per UTC calendar day, and a violated
// insert is reported to callers as ErrDuplicateRecord rather than a failure.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for all
// write-path operations.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Silent logging for production
		TranslateError: true,                                  // Surface duplicate key errors as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
