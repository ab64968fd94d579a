package sensors

import "math"

// Magnus formula constants, valid for -45..60 °C.
const (
	magnusA = 17.62
	magnusB = 243.12
)

// DewPoint returns the dew point in °C for a temperature in °C and relative
// humidity in percent, using the Magnus formula. The second return value is
// false when humidity is out of the formula's domain.
func DewPoint(tempC, rhPct float64) (float64, bool) {
	if rhPct <= 0 || rhPct > 100 {
		return 0, false
	}
	gamma := (magnusA*tempC)/(magnusB+tempC) + math.Log(rhPct/100)
	return (magnusB * gamma) / (magnusA - gamma), true
}
