package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"airstation/internal/display"
	"airstation/internal/models"
	"airstation/internal/sensors"
)

// Appender is the slice of the CSV store the capture loop needs.
type Appender interface {
	Append(models.Reading) error
}

// RemotePusher pushes a single reading to the realtime store.
type RemotePusher interface {
	Push(ctx context.Context, r models.Reading) error
}

// MirrorWriter writes a reading to the optional InfluxDB mirror.
type MirrorWriter interface {
	WriteReading(ctx context.Context, sensorID string, r models.Reading) error
}

// CaptureOptions are the derived-value knobs of the polling cycle.
type CaptureOptions struct {
	SensorID      string
	AssumedRH     float64
	CO2MockOnFail bool
}

// CaptureService runs the polling cycle: read every sensor, derive dew point,
// apply the CO2 mock fallback, then fan the reading out to the CSV store, the
// remote store, the mirror, and the display. Sink failures are logged and
// never abort the cycle; a failed remote push is dropped for good.
type CaptureService struct {
	sources []sensors.Source
	store   Appender
	remote  RemotePusher
	mirror  MirrorWriter
	disp    display.Display
	opts    CaptureOptions
	log     *zap.Logger
}

// NewCaptureService wires the cycle. remote and mirror may be nil when the
// corresponding sink is not configured; disp may be the Noop display.
func NewCaptureService(sources []sensors.Source, store Appender, remote RemotePusher, mirror MirrorWriter, disp display.Display, opts CaptureOptions, log *zap.Logger) *CaptureService {
	return &CaptureService{
		sources: sources,
		store:   store,
		remote:  remote,
		mirror:  mirror,
		disp:    disp,
		opts:    opts,
		log:     log,
	}
}

// Run polls once immediately and then once per interval until ctx is done.
func (s *CaptureService) Run(ctx context.Context, interval time.Duration) {
	s.Cycle(ctx, time.Now())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			s.Cycle(ctx, t)
		}
	}
}

// Cycle performs one full poll and returns the reading that was logged.
func (s *CaptureService) Cycle(ctx context.Context, now time.Time) models.Reading {
	r := models.Reading{Timestamp: now.Truncate(time.Second)}
	var errs []string

	for _, src := range s.sources {
		if err := src.Read(ctx, &r); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", src.Name(), err))
		}
	}

	if r.MHZ19Present && r.CO2Ppm == nil && s.opts.CO2MockOnFail {
		r.CO2Ppm = models.Float(sensors.MockCO2(now))
		r.CO2Source = models.CO2SourceMock
	}

	if r.TemperatureC != nil {
		rh := s.opts.AssumedRH
		if r.HumidityPct != nil {
			rh = *r.HumidityPct
		}
		if dp, ok := sensors.DewPoint(*r.TemperatureC, rh); ok {
			r.DewPointC = models.Float(math.Round(dp*100) / 100)
		}
	}

	r.Errors = strings.Join(errs, "; ")

	if err := s.store.Append(r); err != nil {
		s.log.Error("csv append failed", zap.Error(err))
	}
	if s.remote != nil {
		if err := s.remote.Push(ctx, r); err != nil {
			s.log.Warn("remote push failed, reading dropped", zap.Error(err))
		}
	}
	if s.mirror != nil {
		if err := s.mirror.WriteReading(ctx, s.opts.SensorID, r); err != nil {
			s.log.Warn("influx mirror write failed", zap.Error(err))
		}
	}
	if err := s.disp.ShowSummary(r.TemperatureC, r.HumidityPct, r.BestCO2()); err != nil {
		s.log.Warn("display update failed", zap.Error(err))
	}

	s.log.Info("cycle logged", zap.String("summary", summaryLine(r)))
	return r
}

// summaryLine renders the one-line console summary, tolerating any missing
// value with a placeholder.
func summaryLine(r models.Reading) string {
	line := fmt.Sprintf("T=%s P=%s Alt=%s RH=%s Dew=%s CO2=%s",
		display.FormatNum(r.TemperatureC, "C"),
		display.FormatNum(r.PressureHPa, "hPa"),
		display.FormatNum(r.AltitudeM, "m"),
		display.FormatNum(r.HumidityPct, "%"),
		display.FormatNum(r.DewPointC, "C"),
		display.FormatPpm(r.CO2Ppm),
	)
	if r.CO2Source != "" {
		line += fmt.Sprintf(" [%s]", r.CO2Source)
	}
	if r.Errors != "" {
		line += " ERRORS=" + r.Errors
	}
	return line
}
