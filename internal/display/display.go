// Package display renders the two-line summary shown on the station's
// attached OLED, with a no-op fallback when no display is present.
package display

import "fmt"

// Display shows the latest temperature / humidity / CO2 summary.
type Display interface {
	ShowSummary(temp, humidity, co2 *float64) error
	Close() error
}

// Noop is used when the display is disabled or was not detected.
type Noop struct{}

func (Noop) ShowSummary(temp, humidity, co2 *float64) error { return nil }
func (Noop) Close() error                                   { return nil }

// FormatNum renders an optional value with one decimal and its unit,
// substituting "---" when the value is absent so a missing reading never
// turns into a formatting error.
func FormatNum(v *float64, unit string) string {
	if v == nil {
		return "---" + unit
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

// FormatPpm renders a CO2 concentration; non-positive or absent values show
// as the placeholder.
func FormatPpm(v *float64) string {
	if v == nil || *v <= 0 {
		return "---ppm"
	}
	return fmt.Sprintf("%.0fppm", *v)
}

// SummaryLines builds the two display lines.
func SummaryLines(temp, humidity, co2 *float64) (string, string) {
	line1 := fmt.Sprintf("%s  %s", FormatNum(temp, "C"), FormatNum(humidity, "%"))
	line2 := "CO2: " + FormatPpm(co2)
	return line1, line2
}
