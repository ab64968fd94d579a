package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"airstation/internal/config"
	"airstation/internal/display"
	"airstation/internal/firebase"
	"airstation/internal/logger"
	"airstation/internal/repository"
	"airstation/internal/sensors"
	"airstation/internal/service"
	"airstation/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "capture")
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer zlog.Sync()

	store, err := storage.NewStore(cfg.LogDir)
	if err != nil {
		zlog.Fatal("opening CSV store", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// I2C sensors are disabled as a group when the bus itself is missing;
	// the loop still runs and logs presence flags and the MH-Z19.
	bus, err := sensors.OpenBus(cfg.I2CBus)
	if err != nil {
		zlog.Warn("I2C bus unavailable, I2C sensors disabled", zap.Error(err))
		bus = nil
	} else {
		defer bus.Close()
	}

	aht, err := sensors.NewAHT21(bus)
	if err != nil {
		zlog.Warn("AHT21 not detected", zap.Error(err))
	}
	ens, err := sensors.NewENS160(bus)
	if err != nil {
		zlog.Warn("ENS160 not detected", zap.Error(err))
	}
	bmp, err := sensors.NewBMP180(bus, cfg.SeaLevelHPa)
	if err != nil {
		zlog.Warn("BMP180 not detected", zap.Error(err))
	}
	mhz := sensors.NewMHZ19(cfg.MHZ19Device)
	// Merge order matters: later sources win on shared fields (BMP180's
	// temperature overrides the AHT21's).
	sources := []sensors.Source{aht, ens, bmp, mhz}

	var remote service.RemotePusher
	if cfg.FirebasePushEnabled() {
		client := firebase.New(cfg.FirebaseURL, cfg.SensorID)
		remote = client
		zlog.Info("realtime push enabled", zap.String("url", client.URL()))
	}

	var mirror service.MirrorWriter
	if cfg.InfluxEnabled() {
		repo, err := repository.NewInfluxRepository(ctx, cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		if err != nil {
			zlog.Warn("InfluxDB mirror disabled", zap.Error(err))
		} else {
			defer repo.Close()
			mirror = repo
			zlog.Info("InfluxDB mirror enabled", zap.String("bucket", cfg.InfluxDBBucket))
		}
	}

	var disp display.Display = display.Noop{}
	if cfg.DisplayEnabled && bus != nil {
		oled, err := display.NewOLED(bus)
		if err != nil {
			zlog.Warn("OLED not detected, display disabled", zap.Error(err))
		} else {
			defer oled.Close()
			disp = oled
		}
	}

	svc := service.NewCaptureService(sources, store, remote, mirror, disp, service.CaptureOptions{
		SensorID:      cfg.SensorID,
		AssumedRH:     cfg.AssumedRH,
		CO2MockOnFail: cfg.CO2MockOnFail,
	}, zlog)

	zlog.Info("capture loop starting",
		zap.Duration("interval", cfg.Interval),
		zap.String("log_dir", cfg.LogDir),
		zap.Bool("firebase", remote != nil),
		zap.Bool("influx", mirror != nil),
	)
	svc.Run(ctx, cfg.Interval)
	zlog.Info("capture loop stopped")
}
