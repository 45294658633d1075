package controller

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/views"
	"github.com/Mikhaerys/Weather-Drone/internal/utils"
)

func (c *dashboardControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, pageSize, onlyUnlabeled := parseIndexQuery(r)

	total, err := c.repository.CountReadings(onlyUnlabeled)
	if err != nil {
		slog.Error("dashboard: count readings failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	readings, err := c.repository.GetReadings(pageSize, (page-1)*pageSize, onlyUnlabeled)
	if err != nil {
		slog.Error("dashboard: get readings failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}

	var flash string
	if updated := r.URL.Query().Get("updated"); updated != "" {
		flash = "Updated " + updated + " labels"
	}

	data := views.IndexData{
		Readings:      readings,
		Page:          page,
		PageSize:      pageSize,
		Total:         total,
		TotalPages:    totalPages,
		HasPrev:       page > 1,
		HasNext:       page < totalPages,
		PrevPage:      page - 1,
		NextPage:      page + 1,
		OnlyUnlabeled: onlyUnlabeled,
		Flash:         flash,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderIndex(w, data); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
	}
}

// handleUpdate applies the submitted rain labels and redirects back to the
// page the form came from.
func (c *dashboardControllerImpl) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}

	labels := parseRainForm(r.PostForm)
	updated := 0
	for id, rained := range labels {
		if err := c.repository.SetRainLabel(id, rained); err != nil {
			slog.Error("dashboard: set rain label failed", "id", id, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to save labels")
			return
		}
		updated++
	}

	back := "/?" + r.URL.RawQuery
	if r.URL.RawQuery == "" {
		back = "/?page=1"
	}
	back += fmt.Sprintf("&updated=%d", updated)
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (c *dashboardControllerImpl) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	readings, err := c.repository.GetAllReadings()
	if err != nil {
		slog.Error("dashboard: export readings failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to export readings")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=weather_dataset.csv`)

	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		slog.Error("dashboard: write csv header failed", "error", err)
		return
	}
	for _, rd := range readings {
		if err := cw.Write(csvRow(rd)); err != nil {
			slog.Error("dashboard: write csv row failed", "id", rd.ID, "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("dashboard: flush csv failed", "error", err)
	}
}
