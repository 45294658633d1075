// Package controller serves the dataset browser: paginated readings, manual
// rain labeling and CSV export.
package controller

import (
	"net/http"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/repository"
)

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	repository repository.ReadingsRepository
}

func NewDashboardController(repository repository.ReadingsRepository) DashboardController {
	return &dashboardControllerImpl{repository: repository}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleIndex)
	mux.HandleFunc("POST /update", c.handleUpdate)
	mux.HandleFunc("GET /export.csv", c.handleExportCSV)
}
