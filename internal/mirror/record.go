// Package mirror periodically reads the station's telemetry back from the
// realtime database and appends changed readings to a local SQLite dataset,
// optionally enriched with external current-conditions data.
package mirror

// Record is one mirrored reading: the raw telemetry fields as the agent
// wrote them, plus optional enrichment. Nil means the field was absent
// upstream (e.g. GPS fields before the first valid fix).
type Record struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Altitude    *float64 `json:"altitude"`
	Speed       *float64 `json:"speed"`
	HDOP        *float64 `json:"hdop"`
	Satellites  *int     `json:"satellites"`
	TimeUTC     *string  `json:"timeUTC"`

	Conditions *Conditions `json:"-"`
}

// Conditions is the enrichment payload from the external weather API.
type Conditions struct {
	IsDaytime               *bool
	DewPoint                *float64
	HeatIndex               *float64
	WindChill               *float64
	UVIndex                 *int
	PrecipProbPercent       *int
	PrecipProbType          *string
	PrecipQPF               *float64
	ThunderstormProbability *int
	AirPressureMSL          *float64
	WindDirectionDegrees    *int
	WindDirectionCardinal   *string
	WindSpeed               *float64
	WindGust                *float64
	VisibilityDistance      *float64
	CloudCover              *float64
	FeelsLikeTemperature    *float64
}

// LastReading is the compare-relevant slice of the previously stored
// record, used for change detection.
type LastReading struct {
	Temperature       *float64
	Humidity          *float64
	Pressure          *float64
	Latitude          *float64
	Longitude         *float64
	TimeUTC           *string
	PrecipProbPercent *int
}

const tolerance = 0.001

// IsNew reports whether rec differs from the previously stored reading:
// a sensor or position change beyond the float tolerance, a new GPS
// timestamp, or a changed precipitation probability.
func IsNew(rec Record, last *LastReading) bool {
	if last == nil {
		return true
	}

	if floatChanged(rec.Temperature, last.Temperature) ||
		floatChanged(rec.Humidity, last.Humidity) ||
		floatChanged(rec.Pressure, last.Pressure) ||
		floatChanged(rec.Latitude, last.Latitude) ||
		floatChanged(rec.Longitude, last.Longitude) {
		return true
	}

	if deref(rec.TimeUTC) != deref(last.TimeUTC) {
		return true
	}

	if rec.Conditions != nil && rec.Conditions.PrecipProbPercent != nil && last.PrecipProbPercent != nil {
		if *rec.Conditions.PrecipProbPercent != *last.PrecipProbPercent {
			return true
		}
	}

	return false
}

func floatChanged(a, b *float64) bool {
	av, bv := 0.0, 0.0
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	diff := av - bv
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
