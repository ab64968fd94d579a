// sensorhealth is a one-shot diagnostic: it scans the I2C bus for responding
// addresses, probes each sensor once, and prints a JSON health report.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"airstation/internal/config"
	"airstation/internal/models"
	"airstation/internal/sensors"
)

type report struct {
	Timestamp    string         `json:"timestamp"`
	I2CAddresses []string       `json:"i2c_addresses"`
	AHT21        map[string]any `json:"aht21"`
	ENS160       map[string]any `json:"ens160"`
	BMP180       map[string]any `json:"bmp180"`
	MHZ19        map[string]any `json:"mh_z19"`
	Errors       []string       `json:"errors"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	result := report{
		Timestamp:    time.Now().Format(time.RFC3339),
		I2CAddresses: []string{},
		Errors:       []string{},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bus, err := sensors.OpenBus(cfg.I2CBus)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("i2c_bus: %v", err))
	} else {
		defer bus.Close()
		// Probe each address with a one-byte read; NAK means nobody home.
		var probe [1]byte
		for addr := uint16(0x03); addr <= 0x77; addr++ {
			if err := bus.Tx(addr, nil, probe[:]); err == nil {
				result.I2CAddresses = append(result.I2CAddresses, fmt.Sprintf("0x%02X", addr))
			}
		}
	}

	result.AHT21 = probeSource(ctx, func() (sensors.Source, error) { return sensors.NewAHT21(bus) }, func(r models.Reading) map[string]any {
		return map[string]any{"temperature_C": r.TemperatureC, "humidity_pct": r.HumidityPct}
	})
	result.ENS160 = probeSource(ctx, func() (sensors.Source, error) { return sensors.NewENS160(bus) }, func(r models.Reading) map[string]any {
		return map[string]any{"AQI": r.AQI, "TVOC_ppb": r.TVOCPpb, "eCO2_ppm": r.ECO2Ppm}
	})
	result.BMP180 = probeSource(ctx, func() (sensors.Source, error) { return sensors.NewBMP180(bus, cfg.SeaLevelHPa) }, func(r models.Reading) map[string]any {
		return map[string]any{"temperature_C": r.TemperatureC, "pressure_hPa": r.PressureHPa, "altitude_m": r.AltitudeM}
	})
	result.MHZ19 = probeSource(ctx, func() (sensors.Source, error) { return sensors.NewMHZ19(cfg.MHZ19Device), nil }, func(r models.Reading) map[string]any {
		return map[string]any{"co2_ppm": r.CO2Ppm}
	})

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func probeSource(ctx context.Context, open func() (sensors.Source, error), fields func(models.Reading) map[string]any) map[string]any {
	src, err := open()
	if err != nil {
		return map[string]any{"present": false, "error": err.Error()}
	}
	if !src.Present() {
		return map[string]any{"present": false}
	}
	var r models.Reading
	if err := src.Read(ctx, &r); err != nil {
		return map[string]any{"present": true, "error": err.Error()}
	}
	out := fields(r)
	out["present"] = true
	return out
}
