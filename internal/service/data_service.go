package service

import (
	"fmt"
	"time"

	"airstation/internal/models"
)

// WindowLoader is the slice of the CSV store the dashboard needs.
type WindowLoader interface {
	LoadWindow(now time.Time, window time.Duration) ([]models.Reading, error)
}

// DataService serves the dashboard's read path over the daily CSV files.
type DataService struct {
	store  WindowLoader
	window time.Duration
}

// NewDataService creates a DataService with the given trailing window.
func NewDataService(store WindowLoader, window time.Duration) *DataService {
	return &DataService{store: store, window: window}
}

// Window returns the readings of the trailing window, deduplicated and
// sorted by timestamp.
func (s *DataService) Window(now time.Time) ([]models.Reading, error) {
	rows, err := s.store.LoadWindow(now, s.window)
	if err != nil {
		return nil, fmt.Errorf("loading window: %w", err)
	}
	return rows, nil
}

// Latest returns the most recent reading, or nil when no data exists yet.
func (s *DataService) Latest(now time.Time) (*models.Reading, error) {
	rows, err := s.Window(now)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[len(rows)-1], nil
}

// Recent returns the last n readings of the window, for the home page chart.
func (s *DataService) Recent(now time.Time, n int) ([]models.Reading, error) {
	rows, err := s.Window(now)
	if err != nil {
		return nil, err
	}
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}
