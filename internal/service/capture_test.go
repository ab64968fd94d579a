package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"airstation/internal/display"
	"airstation/internal/models"
	"airstation/internal/sensors"
)

type fakeSource struct {
	name string
	fill func(*models.Reading)
	err  error
}

func (f *fakeSource) Name() string  { return f.name }
func (f *fakeSource) Present() bool { return true }
func (f *fakeSource) Read(ctx context.Context, r *models.Reading) error {
	if f.fill != nil {
		f.fill(r)
	}
	return f.err
}

type fakeStore struct {
	rows []models.Reading
	err  error
}

func (s *fakeStore) Append(r models.Reading) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, r)
	return nil
}

type fakeRemote struct {
	pushed []models.Reading
	err    error
}

func (f *fakeRemote) Push(ctx context.Context, r models.Reading) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, r)
	return nil
}

func newTestService(sources []sensors.Source, store Appender, remote RemotePusher) *CaptureService {
	return NewCaptureService(sources, store, remote, nil, display.Noop{}, CaptureOptions{
		SensorID:      "test",
		AssumedRH:     50,
		CO2MockOnFail: true,
	}, zap.NewNop())
}

func TestCycleOneFailingSensorDoesNotSuppressOthers(t *testing.T) {
	store := &fakeStore{}
	sources := []sensors.Source{
		&fakeSource{name: "aht21", fill: func(r *models.Reading) {
			r.AHT21Present = true
			r.TemperatureC = models.Float(21.0)
			r.HumidityPct = models.Float(50.0)
		}},
		&fakeSource{name: "ens160", fill: func(r *models.Reading) {
			r.ENS160Present = true
		}, err: errors.New("no new data")},
		&fakeSource{name: "bmp180", fill: func(r *models.Reading) {
			r.BMP180Present = true
			r.PressureHPa = models.Float(1010.0)
		}},
	}

	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), time.Now())

	require.Len(t, store.rows, 1)
	assert.Equal(t, 21.0, *r.TemperatureC)
	assert.Equal(t, 1010.0, *r.PressureHPa)
	assert.True(t, r.ENS160Present)
	assert.Nil(t, r.AQI)
	assert.Equal(t, "ens160: no new data", r.Errors)
}

func TestCycleMultipleErrorsAreJoined(t *testing.T) {
	store := &fakeStore{}
	sources := []sensors.Source{
		&fakeSource{name: "aht21", err: errors.New("i/o timeout")},
		&fakeSource{name: "bmp180", err: errors.New("nak")},
	}
	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), time.Now())
	assert.Equal(t, "aht21: i/o timeout; bmp180: nak", r.Errors)
}

func TestCycleMockCO2Fallback(t *testing.T) {
	store := &fakeStore{}
	now := time.Date(2025, 11, 3, 12, 7, 0, 0, time.Local)
	sources := []sensors.Source{
		&fakeSource{name: "mh_z19", fill: func(r *models.Reading) {
			r.MHZ19Present = true
		}, err: errors.New("open /dev/serial0: no such file")},
	}
	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), now)

	require.NotNil(t, r.CO2Ppm)
	assert.Equal(t, sensors.MockCO2(now), *r.CO2Ppm)
	assert.Equal(t, models.CO2SourceMock, r.CO2Source)
	assert.Contains(t, r.Errors, "mh_z19")
}

func TestCycleRealCO2NotOverridden(t *testing.T) {
	store := &fakeStore{}
	sources := []sensors.Source{
		&fakeSource{name: "mh_z19", fill: func(r *models.Reading) {
			r.MHZ19Present = true
			r.CO2Ppm = models.Float(587)
			r.CO2Source = models.CO2SourceSensor
		}},
	}
	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), time.Now())
	assert.Equal(t, 587.0, *r.CO2Ppm)
	assert.Equal(t, models.CO2SourceSensor, r.CO2Source)
}

func TestCycleDewPointFromMeasuredHumidity(t *testing.T) {
	store := &fakeStore{}
	sources := []sensors.Source{
		&fakeSource{name: "aht21", fill: func(r *models.Reading) {
			r.AHT21Present = true
			r.TemperatureC = models.Float(20.0)
			r.HumidityPct = models.Float(50.0)
		}},
	}
	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), time.Now())
	require.NotNil(t, r.DewPointC)
	assert.InDelta(t, 9.27, *r.DewPointC, 0.1)
}

func TestCycleDewPointFallsBackToAssumedRH(t *testing.T) {
	store := &fakeStore{}
	sources := []sensors.Source{
		&fakeSource{name: "bmp180", fill: func(r *models.Reading) {
			r.BMP180Present = true
			r.TemperatureC = models.Float(20.0)
		}},
	}
	svc := newTestService(sources, store, nil)
	r := svc.Cycle(context.Background(), time.Now())
	require.NotNil(t, r.DewPointC, "assumed RH should still yield a dew point")
	assert.InDelta(t, 9.27, *r.DewPointC, 0.1) // AssumedRH is 50
}

func TestCycleRemotePushFailureIsDropped(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{err: errors.New("connection refused")}
	sources := []sensors.Source{
		&fakeSource{name: "aht21", fill: func(r *models.Reading) {
			r.AHT21Present = true
			r.TemperatureC = models.Float(21.0)
		}},
	}
	svc := newTestService(sources, store, remote)
	r := svc.Cycle(context.Background(), time.Now())

	// The CSV row is still written and the cycle reports no sensor errors.
	require.Len(t, store.rows, 1)
	assert.Empty(t, r.Errors)
	assert.Empty(t, remote.pushed)
}

func TestCycleRemotePushPayload(t *testing.T) {
	store := &fakeStore{}
	remote := &fakeRemote{}
	sources := []sensors.Source{
		&fakeSource{name: "aht21", fill: func(r *models.Reading) {
			r.AHT21Present = true
			r.TemperatureC = models.Float(21.0)
		}},
	}
	svc := newTestService(sources, store, remote)
	svc.Cycle(context.Background(), time.Now())

	require.Len(t, remote.pushed, 1)
	assert.Equal(t, store.rows[0], remote.pushed[0], "remote receives exactly what was logged")
}

func TestCycleStoreFailureDoesNotPanic(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	svc := newTestService([]sensors.Source{}, store, nil)
	assert.NotPanics(t, func() {
		svc.Cycle(context.Background(), time.Now())
	})
}
