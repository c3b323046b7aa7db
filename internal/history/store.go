// Package history persists fetched daily bars in SQLite so repeated
// backtests do not hammer exchange APIs and temporary outages degrade to
// cached data instead of empty results.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

// Store provides access to the daily price archive.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (and if needed creates) the history database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			symbol TEXT NOT NULL,
			date   INTEGER NOT NULL,
			open   REAL NOT NULL,
			high   REAL NOT NULL,
			low    REAL NOT NULL,
			close  REAL NOT NULL,
			volume REAL NOT NULL,
			PRIMARY KEY (symbol, date)
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create daily_prices table: %w", err)
	}

	return &Store{
		db:  db,
		log: log.With().Str("component", "history_store").Logger(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveDaily upserts a fetched series into the archive.
func (s *Store) SaveDaily(symbol string, series domain.PriceSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO daily_prices (symbol, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, bar := range series {
		if _, err := stmt.Exec(symbol, bar.Timestamp.Unix(), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert bar: %w", err)
		}
	}

	return tx.Commit()
}

// Daily returns the most recent limit bars for a symbol, oldest first.
func (s *Store) Daily(symbol string, limit int) (domain.PriceSeries, error) {
	rows, err := s.db.Query(`
		SELECT date, open, high, low, close, volume
		FROM daily_prices
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var series domain.PriceSeries
	for rows.Next() {
		var dateUnix int64
		var bar domain.PriceBar
		if err := rows.Scan(&dateUnix, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		bar.Timestamp = time.Unix(dateUnix, 0).UTC()
		series = append(series, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query returned newest first; flip to chronological order.
	for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
		series[i], series[j] = series[j], series[i]
	}
	return series, nil
}
