package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingJSONShape(t *testing.T) {
	r := Reading{
		Timestamp:    time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
		AHT21Present: true,
		TemperatureC: Float(21.5),
		CO2Source:    CO2SourceSensor,
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "2025-11-03T10:00:00Z", got["timestamp"])
	assert.Equal(t, 21.5, got["temperature_C"])
	assert.Equal(t, true, got["aht21_present"])
	assert.Equal(t, false, got["bmp180_present"])
	assert.Equal(t, "sensor", got["co2_source"])
	_, present := got["co2_ppm"]
	assert.False(t, present, "nil numerics must be omitted")
	_, present = got["errors"]
	assert.False(t, present, "empty errors field must be omitted")
}

func TestBestCO2PrefersSensor(t *testing.T) {
	r := Reading{CO2Ppm: Float(587), ECO2Ppm: Float(612)}
	assert.Equal(t, 587.0, *r.BestCO2())

	r = Reading{ECO2Ppm: Float(612)}
	assert.Equal(t, 612.0, *r.BestCO2())

	assert.Nil(t, Reading{}.BestCO2())
}
