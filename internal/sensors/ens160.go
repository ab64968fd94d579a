package sensors

import (
	"context"
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"airstation/internal/models"
)

// ENS160 register map (datasheet §10). No upstream periph driver exists for
// this part, so the three data registers are read directly.
const (
	ens160Addr = 0x52

	ens160RegPartID = 0x00
	ens160RegOpMode = 0x10
	ens160RegStatus = 0x20
	ens160RegAQI    = 0x21

	ens160OpModeStandard = 0x02
	ens160PartID         = 0x0160

	ens160StatusNewData = 0x02
)

// ENS160 reads the air-quality index, TVOC, and equivalent-CO2 values the
// device computes on-chip.
type ENS160 struct {
	dev *i2c.Dev
}

// NewENS160 verifies the part ID and switches the device into standard gas
// sensing mode; failures leave an absent source.
func NewENS160(bus i2c.Bus) (*ENS160, error) {
	s := &ENS160{}
	if bus == nil {
		return s, nil
	}
	dev := &i2c.Dev{Bus: bus, Addr: ens160Addr}

	var id [2]byte
	if err := dev.Tx([]byte{ens160RegPartID}, id[:]); err != nil {
		return s, fmt.Errorf("ens160 init: %w", err)
	}
	if got := binary.LittleEndian.Uint16(id[:]); got != ens160PartID {
		return s, fmt.Errorf("ens160 init: unexpected part id %#04x", got)
	}
	if err := dev.Tx([]byte{ens160RegOpMode, ens160OpModeStandard}, nil); err != nil {
		return s, fmt.Errorf("ens160 init: set opmode: %w", err)
	}
	s.dev = dev
	return s, nil
}

func (s *ENS160) Name() string  { return "ens160" }
func (s *ENS160) Present() bool { return s.dev != nil }

func (s *ENS160) Read(ctx context.Context, r *models.Reading) error {
	if s.dev == nil {
		return nil
	}
	r.ENS160Present = true

	var status [1]byte
	if err := s.dev.Tx([]byte{ens160RegStatus}, status[:]); err != nil {
		return fmt.Errorf("ens160 status: %w", err)
	}
	if status[0]&ens160StatusNewData == 0 {
		return fmt.Errorf("ens160: no new data (status %#02x)", status[0])
	}

	// AQI (1 byte), TVOC (2 bytes LE), eCO2 (2 bytes LE) are contiguous.
	var buf [5]byte
	if err := s.dev.Tx([]byte{ens160RegAQI}, buf[:]); err != nil {
		return fmt.Errorf("ens160 data: %w", err)
	}
	r.AQI = models.Float(float64(buf[0] & 0x07))
	r.TVOCPpb = models.Float(float64(binary.LittleEndian.Uint16(buf[1:3])))
	r.ECO2Ppm = models.Float(float64(binary.LittleEndian.Uint16(buf[3:5])))
	return nil
}
