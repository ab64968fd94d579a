// Package repository holds the optional InfluxDB mirror: when configured,
// every reading the capture daemon logs is also written as a point, so an
// existing Influx/Grafana setup can chart the station without touching the
// CSV files.
package repository

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"airstation/internal/models"
)

// InfluxRepository writes readings to a single bucket via the blocking write API.
type InfluxRepository struct {
	client influxdb2.Client
	write  api.WriteAPIBlocking
}

// NewInfluxRepository creates a repository and checks connectivity.
func NewInfluxRepository(ctx context.Context, url, token, org, bucket string) (*InfluxRepository, error) {
	client := influxdb2.NewClient(url, token)
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		client.Close()
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return nil, fmt.Errorf("InfluxDB health check failed: %s", msg)
	}
	return &InfluxRepository{
		client: client,
		write:  client.WriteAPIBlocking(org, bucket),
	}, nil
}

// WriteReading mirrors one reading as a sensor_data point tagged with the
// station's sensor ID. Only fields that were actually measured are written.
func (r *InfluxRepository) WriteReading(ctx context.Context, sensorID string, reading models.Reading) error {
	fields := make(map[string]interface{})
	add := func(name string, v *float64) {
		if v != nil {
			fields[name] = *v
		}
	}
	add("temperature_C", reading.TemperatureC)
	add("humidity_pct", reading.HumidityPct)
	add("pressure_hPa", reading.PressureHPa)
	add("altitude_m", reading.AltitudeM)
	add("dew_point_C", reading.DewPointC)
	add("AQI", reading.AQI)
	add("TVOC_ppb", reading.TVOCPpb)
	add("eCO2_ppm", reading.ECO2Ppm)
	add("co2_ppm", reading.CO2Ppm)
	if len(fields) == 0 {
		return nil // nothing measured this cycle, no point to write
	}

	p := influxdb2.NewPoint(
		"sensor_data",
		map[string]string{"sensor_id": sensorID},
		fields,
		reading.Timestamp,
	)
	if err := r.write.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("error writing to InfluxDB: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (r *InfluxRepository) Close() {
	r.client.Close()
}
