// Package sensors holds the hardware glue: one Source per physical sensor,
// each filling its own fields of a Reading. A sensor that cannot be opened
// stays registered as an absent source so its presence flag is still logged,
// and a read failure in one source never stops the others.
package sensors

import (
	"context"
	"math"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"airstation/internal/models"
)

// Source is one sensor's contribution to a polling cycle.
type Source interface {
	// Name is the short identifier used in error annotations ("bmp180", ...).
	Name() string
	// Present reports whether the device responded at init time.
	Present() bool
	// Read fills the source's fields of r. It sets the presence flag itself
	// and returns an error on read failure without touching other fields.
	Read(ctx context.Context, r *models.Reading) error
}

// OpenBus initializes the periph host drivers and opens the named I2C bus.
// An empty name opens the first available bus.
func OpenBus(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return i2creg.Open(name)
}

// altitudeM derives altitude from pressure against a sea-level reference,
// using the international barometric formula.
func altitudeM(pressureHPa, seaLevelHPa float64) float64 {
	return 44330 * (1 - math.Pow(pressureHPa/seaLevelHPa, 1/5.255))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
