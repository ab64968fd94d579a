package models

import "time"

// CO2 source markers. The capture daemon substitutes a mock value when the
// MH-Z19 read fails and mock fallback is enabled.
const (
	CO2SourceSensor = "sensor"
	CO2SourceMock   = "mock"
)

// Reading is one polling cycle's worth of sensor data. Numeric fields are
// pointers so an absent value serializes as empty (CSV) or null (JSON)
// instead of a misleading zero. Readings are append-only: once written to a
// daily file or pushed to the remote store they are never mutated.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`

	// AHT21: temperature + relative humidity
	AHT21Present bool     `json:"aht21_present"`
	TemperatureC *float64 `json:"temperature_C,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`

	// ENS160: air quality index, volatile organic compounds, equivalent CO2
	ENS160Present bool     `json:"ens160_present"`
	AQI           *float64 `json:"AQI,omitempty"`
	TVOCPpb       *float64 `json:"TVOC_ppb,omitempty"`
	ECO2Ppm       *float64 `json:"eCO2_ppm,omitempty"`

	// BMP180: barometric pressure + derived altitude
	BMP180Present bool     `json:"bmp180_present"`
	PressureHPa   *float64 `json:"pressure_hPa,omitempty"`
	AltitudeM     *float64 `json:"altitude_m,omitempty"`

	// Derived from temperature + humidity (Magnus formula)
	DewPointC *float64 `json:"dew_point_C,omitempty"`

	// MH-Z19: CO2 over UART
	MHZ19Present bool     `json:"mhz19_present"`
	CO2Ppm       *float64 `json:"co2_ppm,omitempty"`
	CO2Source    string   `json:"co2_source,omitempty"`

	// Semicolon-joined per-sensor error messages, empty when the cycle was clean.
	Errors string `json:"errors,omitempty"`
}

// Float returns a pointer to v, for filling optional Reading fields.
func Float(v float64) *float64 {
	return &v
}

// BestCO2 prefers the MH-Z19 reading and falls back to the ENS160 eCO2
// estimate, mirroring what the summary display shows.
func (r Reading) BestCO2() *float64 {
	if r.CO2Ppm != nil {
		return r.CO2Ppm
	}
	return r.ECO2Ppm
}
