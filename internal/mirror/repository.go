package mirror

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/update-last-reading.sql
var updateLastReadingSQL string

//go:embed sql/get-last-reading.sql
var getLastReadingSQL string

//go:embed sql/count-readings.sql
var countReadingsSQL string

type Repository interface {
	Last() (*LastReading, error)
	Save(rec Record) error
	Count() (int, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repositoryImpl{db: db}
}

// Last returns the compare-relevant fields of the previously saved record,
// or nil when nothing has been saved yet.
func (r *repositoryImpl) Last() (*LastReading, error) {
	var last LastReading
	err := r.db.QueryRow(getLastReadingSQL).Scan(
		&last.Temperature,
		&last.Humidity,
		&last.Pressure,
		&last.Latitude,
		&last.Longitude,
		&last.TimeUTC,
		&last.PrecipProbPercent,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last reading: %w", err)
	}
	// The sentinel row starts with all columns NULL.
	if last.Temperature == nil && last.TimeUTC == nil {
		return nil, nil
	}
	return &last, nil
}

// Save appends rec to weather_readings and updates the sentinel row in one
// transaction.
func (r *repositoryImpl) Save(rec Record) error {
	cond := rec.Conditions
	if cond == nil {
		cond = &Conditions{}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(insertReadingSQL,
		rec.Temperature, rec.Humidity, rec.Pressure,
		rec.Latitude, rec.Longitude, rec.Altitude,
		rec.Speed, rec.HDOP, rec.Satellites, rec.TimeUTC,
		cond.IsDaytime, cond.DewPoint, cond.HeatIndex, cond.WindChill, cond.UVIndex,
		cond.PrecipProbPercent, cond.PrecipProbType,
		cond.PrecipQPF, cond.ThunderstormProbability, cond.AirPressureMSL,
		cond.WindDirectionDegrees, cond.WindDirectionCardinal, cond.WindSpeed,
		cond.WindGust, cond.VisibilityDistance, cond.CloudCover, cond.FeelsLikeTemperature,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}

	_, err = tx.Exec(updateLastReadingSQL,
		rec.Temperature, rec.Humidity, rec.Pressure,
		rec.Latitude, rec.Longitude, rec.Altitude,
		rec.Speed, rec.HDOP, rec.Satellites, rec.TimeUTC,
		cond.PrecipProbPercent,
	)
	if err != nil {
		return fmt.Errorf("update last reading: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *repositoryImpl) Count() (int, error) {
	var n int
	err := r.db.QueryRow(countReadingsSQL).Scan(&n)
	return n, err
}
