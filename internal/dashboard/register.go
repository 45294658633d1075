// Package dashboard wires the dataset browser feature onto the HTTP mux.
package dashboard

import (
	"database/sql"
	"net/http"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/controller"
	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/repository"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB) {
	readingsRepository := repository.NewRepository(db)
	dashboardController := controller.NewDashboardController(readingsRepository)
	dashboardController.RegisterRoutes(mux)
}
