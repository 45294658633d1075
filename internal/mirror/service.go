package mirror

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Source yields the current remote telemetry.
type Source interface {
	Fetch(ctx context.Context) (*Record, error)
}

// ConditionsSource enriches a position with external weather data.
type ConditionsSource interface {
	Current(ctx context.Context, lat, lon float64) (*Conditions, error)
}

// Service runs the periodic mirror cycle: fetch, enrich, compare, append.
type Service struct {
	source   Source
	repo     Repository
	enricher ConditionsSource // nil disables enrichment
	interval time.Duration
	logger   *slog.Logger

	scheduler *gocron.Scheduler
}

func NewService(source Source, repo Repository, enricher ConditionsSource, interval time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		repo:      repo,
		enricher:  enricher,
		interval:  interval,
		logger:    logger,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// RunOnce performs one mirror cycle. Failures are returned but never
// persisted: every cycle starts from a clean slate.
func (s *Service) RunOnce(ctx context.Context) error {
	rec, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		s.logger.Info("mirror: no telemetry in database yet")
		return nil
	}

	if s.enricher != nil && rec.Latitude != nil && rec.Longitude != nil {
		cond, err := s.enricher.Current(ctx, *rec.Latitude, *rec.Longitude)
		if err != nil {
			s.logger.Warn("mirror: enrichment failed, saving raw reading", "error", err)
		} else {
			rec.Conditions = cond
		}
	}

	last, err := s.repo.Last()
	if err != nil {
		return err
	}
	if !IsNew(*rec, last) {
		s.logger.Debug("mirror: reading unchanged, skipping")
		return nil
	}

	if err := s.repo.Save(*rec); err != nil {
		return err
	}

	total, err := s.repo.Count()
	if err != nil {
		s.logger.Warn("mirror: count failed", "error", err)
		total = -1
	}
	s.logger.Info("mirror: reading saved",
		"temperature_c", deref64(rec.Temperature),
		"humidity_pct", deref64(rec.Humidity),
		"pressure_hpa", deref64(rec.Pressure),
		"total", total,
	)
	return nil
}

// Start schedules the periodic mirror job.
func (s *Service) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.interval)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("mirror: cycle failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop cancels future jobs.
func (s *Service) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func deref64(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
