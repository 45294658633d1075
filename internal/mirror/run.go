package mirror

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mikhaerys/Weather-Drone/internal/auth"
	"github.com/Mikhaerys/Weather-Drone/internal/config"
	"github.com/Mikhaerys/Weather-Drone/internal/db"
)

// Run wires the mirror daemon: authenticate, open the local database, then
// mirror on the configured interval until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	session := auth.NewSession(auth.Options{
		APIKey:   cfg.APIKey,
		Email:    cfg.UserEmail,
		Password: cfg.UserPassword,
	}, nil)
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	slog.Info("authenticated", "uid", session.UID())

	conn, err := db.Open(cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()
	slog.Info("sqlite ready", "path", cfg.SQLitePath)

	fetcher := NewFetcher(cfg.DatabaseURL, session.UID(), session)
	repo := NewRepository(conn)

	var enricher ConditionsSource
	if cfg.WeatherAPIKey != "" {
		enricher = NewEnricher(cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.WeatherUnits)
		slog.Info("weather enrichment enabled", "units", cfg.WeatherUnits)
	} else {
		slog.Info("weather enrichment disabled (no WEATHER_API_KEY)")
	}

	svc := NewService(fetcher, repo, enricher, cfg.MirrorInterval, slog.Default())

	// Mirror immediately, then on the interval.
	if err := svc.RunOnce(ctx); err != nil {
		slog.Error("mirror: initial cycle failed", "error", err)
	}
	if err := svc.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer svc.Stop()

	<-ctx.Done()
	return ctx.Err()
}
