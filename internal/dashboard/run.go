package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mikhaerys/Weather-Drone/internal/config"
	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/views"
	"github.com/Mikhaerys/Weather-Drone/internal/db"
	"github.com/Mikhaerys/Weather-Drone/internal/httpapi"
)

// Run serves the dataset browser over the mirror's SQLite database until ctx
// is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
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

	if err := views.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(conn)
	RegisterFeature(mux, conn)

	srv := httpapi.NewServer(cfg.HTTPAddr, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
