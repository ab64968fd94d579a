package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airstation/internal/models"
	"airstation/internal/storage"
)

func seedStore(t *testing.T, now time.Time, offsets ...time.Duration) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)
	for i, off := range offsets {
		r := models.Reading{
			Timestamp:    now.Add(off),
			AHT21Present: true,
			TemperatureC: models.Float(20 + float64(i)),
		}
		require.NoError(t, store.Append(r))
	}
	return store
}

func TestLatest(t *testing.T) {
	now := time.Date(2025, 11, 4, 12, 0, 0, 0, time.Local)
	store := seedStore(t, now, -3*time.Hour, -2*time.Hour, -1*time.Hour)

	svc := NewDataService(store, 24*time.Hour)
	latest, err := svc.Latest(now)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 22.0, *latest.TemperatureC)
}

func TestLatestEmptyStore(t *testing.T) {
	store, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	svc := NewDataService(store, 24*time.Hour)
	latest, err := svc.Latest(time.Now())
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestWindowSpansTwoDays(t *testing.T) {
	now := time.Date(2025, 11, 4, 8, 0, 0, 0, time.Local)
	// One row yesterday inside the window, one outside, one today.
	store := seedStore(t, now, -30*time.Hour, -10*time.Hour, -1*time.Hour)

	svc := NewDataService(store, 24*time.Hour)
	rows, err := svc.Window(now)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Timestamp.Before(rows[1].Timestamp))
}

func TestRecentTail(t *testing.T) {
	now := time.Date(2025, 11, 4, 12, 0, 0, 0, time.Local)
	offsets := make([]time.Duration, 10)
	for i := range offsets {
		offsets[i] = -time.Duration(10-i) * time.Minute
	}
	store := seedStore(t, now, offsets...)

	svc := NewDataService(store, 24*time.Hour)
	rows, err := svc.Recent(now, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 29.0, *rows[2].TemperatureC) // the newest row
}
