package sensors

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"

	"airstation/internal/models"
)

const bmp180Addr = 0x77

// BMP180 reads barometric pressure and temperature; altitude is derived
// from pressure against the configured sea-level reference.
type BMP180 struct {
	dev         *bmxx80.Dev
	seaLevelHPa float64
}

// NewBMP180 probes the sensor on the bus. The returned source is always
// usable; when the probe fails it reports absent and the error is only for
// logging.
func NewBMP180(bus i2c.Bus, seaLevelHPa float64) (*BMP180, error) {
	s := &BMP180{seaLevelHPa: seaLevelHPa}
	if bus == nil {
		return s, nil
	}
	dev, err := bmxx80.NewI2C(bus, bmp180Addr, &bmxx80.DefaultOpts)
	if err != nil {
		return s, fmt.Errorf("bmp180 init: %w", err)
	}
	s.dev = dev
	return s, nil
}

func (s *BMP180) Name() string  { return "bmp180" }
func (s *BMP180) Present() bool { return s.dev != nil }

func (s *BMP180) Read(ctx context.Context, r *models.Reading) error {
	if s.dev == nil {
		return nil
	}
	r.BMP180Present = true
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return fmt.Errorf("bmp180 sense: %w", err)
	}
	p := float64(e.Pressure) / float64(100*physic.Pascal)
	r.PressureHPa = models.Float(round2(p))
	r.AltitudeM = models.Float(round2(altitudeM(p, s.seaLevelHPa)))
	// The BMP180 die temperature wins over the AHT21's when both respond,
	// matching the merge order the station has always logged.
	r.TemperatureC = models.Float(round2(e.Temperature.Celsius()))
	return nil
}
