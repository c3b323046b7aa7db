// Package storage persists backtest results, reports and the position
// book as files on disk. All writes are atomic so a crash mid-write never
// leaves a half-written state file behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/akastanis/holdwise/internal/domain"
)

const (
	positionsFileName  = "positions.json"
	timestampLayout    = "20060102_150405"
	resultsFilePattern = "backtest_results_%s.json"
	reportFilePattern  = "backtest_report_%s.md"
)

// ResultsFile is the on-disk schema for a backtest run.
type ResultsFile struct {
	Timestamp string                               `json:"timestamp"`
	Days      int                                  `json:"days"`
	Results   map[string]domain.PerformanceMetrics `json:"results"`
}

// PositionsFile is the on-disk schema for the position book.
type PositionsFile struct {
	Positions map[string]domain.Position `json:"positions"`
	Timestamp string                     `json:"timestamp"`
}

// Store writes and reads state files under a base directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		dir: dir,
		log: log.With().Str("component", "storage").Logger(),
	}, nil
}

// Dir returns the base directory.
func (s *Store) Dir() string { return s.dir }

// SaveResults writes backtest metrics to a timestamped JSON file and
// returns the path written.
func (s *Store) SaveResults(results map[string]domain.PerformanceMetrics, days int, now time.Time) (string, error) {
	file := ResultsFile{
		Timestamp: now.UTC().Format(time.RFC3339),
		Days:      days,
		Results:   results,
	}
	path := filepath.Join(s.dir, fmt.Sprintf(resultsFilePattern, now.UTC().Format(timestampLayout)))
	if err := writeJSON(path, file); err != nil {
		return "", err
	}
	s.log.Info().Str("path", path).Int("pairs", len(results)).Msg("Saved backtest results")
	return path, nil
}

// SaveReport writes a rendered markdown report next to the results and
// returns the path written.
func (s *Store) SaveReport(report string, now time.Time) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf(reportFilePattern, now.UTC().Format(timestampLayout)))
	if err := writeAtomic(path, []byte(report)); err != nil {
		return "", err
	}
	s.log.Info().Str("path", path).Msg("Saved backtest report")
	return path, nil
}

// SavePositions writes the current position book.
func (s *Store) SavePositions(positions map[string]domain.Position, now time.Time) error {
	file := PositionsFile{
		Positions: positions,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	path := filepath.Join(s.dir, positionsFileName)
	if err := writeJSON(path, file); err != nil {
		return err
	}
	s.log.Debug().Int("positions", len(positions)).Msg("Saved position book")
	return nil
}

// LoadPositions reads the position book. A missing file is not an error;
// it returns an empty book so a fresh deployment starts flat.
func (s *Store) LoadPositions() (map[string]domain.Position, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, positionsFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.Position{}, nil
		}
		return nil, fmt.Errorf("failed to read positions file: %w", err)
	}

	var file PositionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse positions file: %w", err)
	}
	if file.Positions == nil {
		file.Positions = map[string]domain.Position{}
	}
	return file.Positions, nil
}

// writeJSON marshals v with indentation and writes it atomically.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, data)
}

// writeAtomic writes to a temp file in the target directory and renames
// it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
