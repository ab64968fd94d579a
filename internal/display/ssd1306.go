package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// OLED drives the 128x32 SSD1306 panel on the I2C bus.
type OLED struct {
	dev *ssd1306.Dev
}

// NewOLED opens the panel; an absent panel is an error the caller downgrades
// to the Noop display.
func NewOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.Opts{W: 128, H: 32})
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return &OLED{dev: dev}, nil
}

func (o *OLED) ShowSummary(temp, humidity, co2 *float64) error {
	line1, line2 := SummaryLines(temp, humidity, co2)

	img := image1bit.NewVerticalLSB(o.dev.Bounds())
	drawCentered(img, line1, 12)
	drawCentered(img, line2, 27)
	return o.dev.Draw(o.dev.Bounds(), img, image.Point{})
}

func (o *OLED) Close() error {
	return o.dev.Halt()
}

func drawCentered(img *image1bit.VerticalLSB, s string, baselineY int) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(s).Ceil()
	x := (img.Bounds().Dx() - w) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.P(x, baselineY)
	d.DrawString(s)
}
