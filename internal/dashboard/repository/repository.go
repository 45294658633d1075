// Package repository reads and labels the mirrored dataset for the dashboard.
package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
)

//go:embed sql/list-readings.sql
var listReadingsSQL string

//go:embed sql/list-unlabeled-readings.sql
var listUnlabeledReadingsSQL string

//go:embed sql/count-readings.sql
var countReadingsSQL string

//go:embed sql/count-unlabeled-readings.sql
var countUnlabeledReadingsSQL string

//go:embed sql/export-readings.sql
var exportReadingsSQL string

//go:embed sql/update-rain-label.sql
var updateRainLabelSQL string

//go:embed sql/clear-rain-label.sql
var clearRainLabelSQL string

type ReadingsRepository interface {
	GetReadings(limit, offset int, onlyUnlabeled bool) ([]types.Reading, error)
	CountReadings(onlyUnlabeled bool) (int, error)
	GetAllReadings() ([]types.Reading, error)
	SetRainLabel(id int64, rained *bool) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ReadingsRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetReadings(limit, offset int, onlyUnlabeled bool) ([]types.Reading, error) {
	query := listReadingsSQL
	if onlyUnlabeled {
		query = listUnlabeledReadingsSQL
	}
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return scanReadings(rows)
}

func (r *repositoryImpl) CountReadings(onlyUnlabeled bool) (int, error) {
	query := countReadingsSQL
	if onlyUnlabeled {
		query = countUnlabeledReadingsSQL
	}
	var n int
	err := r.db.QueryRow(query).Scan(&n)
	return n, err
}

func (r *repositoryImpl) GetAllReadings() ([]types.Reading, error) {
	rows, err := r.db.Query(exportReadingsSQL)
	if err != nil {
		return nil, fmt.Errorf("export readings: %w", err)
	}
	return scanReadings(rows)
}

// SetRainLabel stores the manual rain label for one reading and stamps
// rain_checked_at; a nil label clears both columns back to unreviewed.
func (r *repositoryImpl) SetRainLabel(id int64, rained *bool) error {
	if rained == nil {
		_, err := r.db.Exec(clearRainLabelSQL, id)
		return err
	}
	checkedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(updateRainLabelSQL, *rained, checkedAt, id)
	return err
}

func scanReadings(rows *sql.Rows) ([]types.Reading, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()
	var out []types.Reading
	for rows.Next() {
		var rd types.Reading
		err := rows.Scan(
			&rd.ID, &rd.Timestamp,
			&rd.Temperature, &rd.Humidity, &rd.Pressure,
			&rd.Latitude, &rd.Longitude, &rd.Altitude, &rd.Speed, &rd.HDOP, &rd.Satellites, &rd.TimeUTC,
			&rd.Rained, &rd.RainCheckedAt,
			&rd.IsDaytime, &rd.DewPoint, &rd.HeatIndex, &rd.WindChill, &rd.UVIndex,
			&rd.PrecipProbPercent, &rd.PrecipProbType,
			&rd.PrecipQPF, &rd.ThunderstormProbability, &rd.AirPressureMSL,
			&rd.WindDirectionDegrees, &rd.WindDirectionCardinal, &rd.WindSpeed, &rd.WindGust,
			&rd.VisibilityDistance, &rd.CloudCover, &rd.FeelsLikeTemperature,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}
