package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mikhaerys/Weather-Drone/internal/auth"
	"github.com/Mikhaerys/Weather-Drone/internal/config"
	"github.com/Mikhaerys/Weather-Drone/internal/gps"
	"github.com/Mikhaerys/Weather-Drone/internal/mqtt"
	"github.com/Mikhaerys/Weather-Drone/internal/result"
	"github.com/Mikhaerys/Weather-Drone/internal/rtdb"
	"github.com/Mikhaerys/Weather-Drone/internal/sensor"
)

// Run walks the startup states and then hands control to the polling loop.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("state", "state", StateInitializing)

	sensors, err := sensor.NewBME280(cfg.BME280Address)
	if err != nil {
		// Reference behaviour halts permanently on sensor init failure.
		return fmt.Errorf("sensor init: %w", err)
	}
	defer func() {
		if closeErr := sensors.Close(); closeErr != nil {
			slog.Error("sensor close", "error", closeErr)
		}
	}()
	slog.Info("bme280 initialized", "address", fmt.Sprintf("0x%02X", cfg.BME280Address))

	parser := gps.NewParser()
	var gpsBytes <-chan byte
	serial, err := gps.OpenSerial(cfg.GPSDevice, cfg.GPSBaud)
	if err != nil {
		slog.Warn("gps unavailable; agent continues without GPS", "device", cfg.GPSDevice, "error", err)
	} else {
		defer func() {
			if closeErr := serial.Close(); closeErr != nil {
				slog.Error("gps close", "error", closeErr)
			}
		}()
		slog.Info("gps serial started", "device", cfg.GPSDevice, "baud", cfg.GPSBaud)
		gpsBytes = gps.StreamBytes(ctx, serial)
	}

	slog.Info("state", "state", StateConnecting)
	if err := WaitForNetwork(ctx, cfg.DatabaseURL, NetPolicy{
		MaxRetries: cfg.NetRetryMax,
		Initial:    cfg.NetRetryInitial,
		MaxWait:    cfg.NetRetryMaxWait,
	}, slog.Default()); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	slog.Info("state", "state", StateAuthenticating)
	results := make(chan result.Result, 64)
	session := auth.NewSession(auth.Options{
		APIKey:   cfg.APIKey,
		Email:    cfg.UserEmail,
		Password: cfg.UserPassword,
	}, results)
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	uploader := rtdb.NewClient(cfg.DatabaseURL, session, results)
	defer uploader.Close()

	var publisher Publisher
	if cfg.MQTTBroker != "" {
		client := mqtt.NewClient(mqtt.Options{
			Broker:   cfg.MQTTBroker,
			Port:     cfg.MQTTPort,
			ClientID: cfg.MQTTClientID,
		}, slog.Default())
		go func() {
			if err := client.Connect(ctx); err != nil {
				slog.Warn("mqtt connect failed; republish disabled", "error", err)
			}
		}()
		defer client.Disconnect()
		publisher = client
	}

	slog.Info("state", "state", StateReady, "interval", cfg.UploadInterval)
	a := New(Options{
		Sensors:   sensors,
		Parser:    parser,
		GPSBytes:  gpsBytes,
		Session:   session,
		Uploader:  uploader,
		Results:   results,
		Publisher: publisher,
		StationID: cfg.StationID,
		Interval:  cfg.UploadInterval,
	})
	return a.Run(ctx)
}
