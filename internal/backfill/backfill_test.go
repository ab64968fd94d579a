package backfill

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airstation/internal/firebase"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRowsConversion(t *testing.T) {
	path := writeTemp(t,
		"timestamp,aht21_present,temperature_C,humidity_pct,co2_ppm,co2_source,errors\n"+
			"2025-11-03T10:00:00,true,21.5,48.2,612,sensor,\n"+
			"2025-11-03T10:00:30,true,,48.0,610,sensor,aht21: sense failed\n")

	rows, skipped, err := LoadRows(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "2025-11-03T10:00:00", first["timestamp"])
	assert.Equal(t, 21.5, first["temperature_C"])
	assert.Equal(t, "sensor", first["co2_source"])
	_, hasPresent := first["aht21_present"]
	assert.False(t, hasPresent, "presence flags must be stripped")
	_, hasErrors := first["errors"]
	assert.False(t, hasErrors, "empty annotations must be dropped")

	second := rows[1]
	assert.Nil(t, second["temperature_C"], "empty numeric becomes null")
	assert.Equal(t, "aht21: sense failed", second["errors"])
}

func TestLoadRowsSkipsNonNumericRows(t *testing.T) {
	path := writeTemp(t,
		"timestamp,temperature_C\n"+
			"2025-11-03T10:00:00,21.5\n"+
			"2025-11-03T10:00:30,not-a-number\n"+
			"2025-11-03T10:01:00,21.6\n")

	rows, skipped, err := LoadRows(path)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, 21.5, rows[0]["temperature_C"])
	assert.Equal(t, 21.6, rows[1]["temperature_C"])
}

func TestBatchesCoverAllRowsInOrder(t *testing.T) {
	rows := make([]map[string]any, 1201)
	for i := range rows {
		rows[i] = map[string]any{"n": float64(i)}
	}

	batches := Batches(rows, 500)
	require.Len(t, batches, 3) // ceil(1201/500)

	n := 0
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 500)
		for _, row := range b {
			assert.Equal(t, float64(n), row["n"], "rows must stay in original order")
			n++
		}
	}
	assert.Equal(t, 1201, n)
}

func TestBatchesExactMultiple(t *testing.T) {
	rows := make([]map[string]any, 1000)
	for i := range rows {
		rows[i] = map[string]any{"n": float64(i)}
	}
	batches := Batches(rows, 500)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 500)
	assert.Len(t, batches[1], 500)
}

func TestBatchesEdgeCases(t *testing.T) {
	assert.Nil(t, Batches(nil, 500))
	assert.Nil(t, Batches([]map[string]any{{"n": 1.0}}, 0))
}

// End-to-end: N CSV rows through the remote-store client produce
// ceil(N/batch) POSTs covering every row once, in order.
func TestReplayThroughClient(t *testing.T) {
	var postedBatches [][]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		require.NoError(t, json.Unmarshal(body, &batch))
		postedBatches = append(postedBatches, batch)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	content := "timestamp,co2_ppm\n"
	for i := 0; i < 7; i++ {
		content += "2025-11-03T10:00:0" + string(rune('0'+i)) + ",600\n"
	}
	rows, _, err := LoadRows(writeTemp(t, content))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	client := firebase.New(srv.URL, "station1")
	for _, batch := range Batches(rows, 3) {
		require.NoError(t, client.PushBatch(context.Background(), batch))
	}

	require.Len(t, postedBatches, 3) // ceil(7/3)
	var timestamps []string
	for _, b := range postedBatches {
		assert.LessOrEqual(t, len(b), 3)
		for _, row := range b {
			timestamps = append(timestamps, row["timestamp"].(string))
		}
	}
	require.Len(t, timestamps, 7)
	assert.IsIncreasing(t, timestamps)
}
