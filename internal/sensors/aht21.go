package sensors

import (
	"context"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/aht20"

	"airstation/internal/models"
)

// AHT21 reads temperature and relative humidity. The AHT21 speaks the same
// protocol as the AHT20, so the aht20 driver covers it.
type AHT21 struct {
	dev *aht20.Dev
}

// NewAHT21 probes the sensor on the bus; failures leave an absent source.
func NewAHT21(bus i2c.Bus) (*AHT21, error) {
	s := &AHT21{}
	if bus == nil {
		return s, nil
	}
	dev, err := aht20.NewI2C(bus, &aht20.DefaultOpts)
	if err != nil {
		return s, fmt.Errorf("aht21 init: %w", err)
	}
	s.dev = dev
	return s, nil
}

func (s *AHT21) Name() string  { return "aht21" }
func (s *AHT21) Present() bool { return s.dev != nil }

func (s *AHT21) Read(ctx context.Context, r *models.Reading) error {
	if s.dev == nil {
		return nil
	}
	r.AHT21Present = true
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return fmt.Errorf("aht21 sense: %w", err)
	}
	r.TemperatureC = models.Float(round2(e.Temperature.Celsius()))
	r.HumidityPct = models.Float(round2(float64(e.Humidity) / float64(physic.PercentRH)))
	return nil
}
