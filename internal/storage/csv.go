// Package storage implements the append-only daily CSV store: one file per
// day keyed by date, canonical wide header, header-driven reads that also
// accept the older narrow layout.
package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"airstation/internal/models"
)

// Header is the canonical column layout written to new daily files.
var Header = []string{
	"timestamp",
	"aht21_present", "temperature_C", "humidity_pct",
	"ens160_present", "AQI", "TVOC_ppb", "eCO2_ppm",
	"bmp180_present", "pressure_hPa", "altitude_m",
	"dew_point_C",
	"mhz19_present", "co2_ppm", "co2_source",
	"errors",
}

// Store appends readings to and loads readings from a directory of daily
// CSV files named YYYY-MM-DD.csv.
type Store struct {
	dir string
}

// NewStore creates the log directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileFor returns the daily file path for the given time.
func (s *Store) FileFor(t time.Time) string {
	return filepath.Join(s.dir, t.Format("2006-01-02")+".csv")
}

// Append writes one reading to the daily file for its timestamp, creating
// the file with a header row on first write of the day.
func (s *Store) Append(r models.Reading) error {
	path := s.FileFor(r.Timestamp)
	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(encodeRow(r)); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// LoadWindow loads readings from the daily files covering [now-window, now],
// skips malformed rows, dedupes by timestamp, sorts ascending, and filters
// to the trailing window.
func (s *Store) LoadWindow(now time.Time, window time.Duration) ([]models.Reading, error) {
	cutoff := now.Add(-window)
	days := int((window + 24*time.Hour - 1) / (24 * time.Hour))
	var all []models.Reading
	for i := days; i >= 0; i-- {
		rows, err := s.LoadDay(now.AddDate(0, 0, -i))
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}

	seen := make(map[int64]bool, len(all))
	out := all[:0]
	for _, r := range all {
		if r.Timestamp.Before(cutoff) || r.Timestamp.After(now) {
			continue
		}
		key := r.Timestamp.Unix()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// LoadDay loads the daily file for the given date. A missing file is not an
// error; it just yields no rows.
func (s *Store) LoadDay(day time.Time) ([]models.Reading, error) {
	rows, err := loadFile(s.FileFor(day))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return rows, err
}

func loadFile(path string) ([]models.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, they are skipped below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	var out []models.Reading
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // malformed line, skip
		}
		r, ok := DecodeRow(header, record)
		if !ok {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func encodeRow(r models.Reading) []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		strconv.FormatBool(r.AHT21Present),
		formatFloat(r.TemperatureC),
		formatFloat(r.HumidityPct),
		strconv.FormatBool(r.ENS160Present),
		formatFloat(r.AQI),
		formatFloat(r.TVOCPpb),
		formatFloat(r.ECO2Ppm),
		strconv.FormatBool(r.BMP180Present),
		formatFloat(r.PressureHPa),
		formatFloat(r.AltitudeM),
		formatFloat(r.DewPointC),
		strconv.FormatBool(r.MHZ19Present),
		formatFloat(r.CO2Ppm),
		r.CO2Source,
		r.Errors,
	}
}

// DecodeRow maps one CSV record onto a Reading using the file's own header,
// so both the canonical layout and the old narrow layout
// (timestamp,temperature_C,...,humidity_percent,...) parse. Returns false
// for rows with no parseable timestamp or with a field count mismatch.
func DecodeRow(header, record []string) (models.Reading, bool) {
	if len(record) > len(header) {
		return models.Reading{}, false
	}
	var r models.Reading
	tsSeen := false
	for i, col := range header {
		if i >= len(record) {
			break
		}
		v := record[i]
		switch col {
		case "timestamp":
			ts, err := parseTimestamp(v)
			if err != nil {
				return models.Reading{}, false
			}
			r.Timestamp = ts
			tsSeen = true
		case "aht21_present":
			r.AHT21Present = parseBoolLax(v)
		case "ens160_present":
			r.ENS160Present = parseBoolLax(v)
		case "bmp180_present":
			r.BMP180Present = parseBoolLax(v)
		case "mhz19_present":
			r.MHZ19Present = parseBoolLax(v)
		case "temperature_C":
			r.TemperatureC = parseFloat(v)
		case "humidity_pct", "humidity_percent":
			r.HumidityPct = parseFloat(v)
		case "AQI":
			r.AQI = parseFloat(v)
		case "TVOC_ppb":
			r.TVOCPpb = parseFloat(v)
		case "eCO2_ppm":
			r.ECO2Ppm = parseFloat(v)
		case "pressure_hPa":
			r.PressureHPa = parseFloat(v)
		case "altitude_m":
			r.AltitudeM = parseFloat(v)
		case "dew_point_C":
			r.DewPointC = parseFloat(v)
		case "co2_ppm":
			r.CO2Ppm = parseFloat(v)
		case "co2_source":
			r.CO2Source = v
		case "errors":
			r.Errors = v
		}
		// unknown columns are ignored; the schema is whatever the file says
	}
	if !tsSeen {
		return models.Reading{}, false
	}
	return r, true
}

func parseTimestamp(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts, nil
	}
	// naive local timestamps from older files
	return time.ParseInLocation("2006-01-02T15:04:05", v, time.Local)
}

func parseFloat(v string) *float64 {
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseBoolLax(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
