// Package types holds the dashboard's row model for the mirrored dataset.
package types

// Reading is one row of weather_readings as browsed, labeled and exported by
// the dashboard. Pointer fields are NULL-able in the schema.
type Reading struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`

	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Altitude    *float64 `json:"altitude"`
	Speed       *float64 `json:"speed"`
	HDOP        *float64 `json:"hdop"`
	Satellites  *int     `json:"satellites"`
	TimeUTC     *string  `json:"time_utc"`

	// Manual rain label: nil means not yet reviewed.
	Rained        *bool   `json:"rained"`
	RainCheckedAt *string `json:"rain_checked_at"`

	IsDaytime               *bool    `json:"is_daytime"`
	DewPoint                *float64 `json:"dew_point"`
	HeatIndex               *float64 `json:"heat_index"`
	WindChill               *float64 `json:"wind_chill"`
	UVIndex                 *int     `json:"uv_index"`
	PrecipProbPercent       *int     `json:"precipitation_probability_percent"`
	PrecipProbType          *string  `json:"precipitation_probability_type"`
	PrecipQPF               *float64 `json:"precip_qpf"`
	ThunderstormProbability *int     `json:"thunderstorm_probability"`
	AirPressureMSL          *float64 `json:"air_pressure_msl"`
	WindDirectionDegrees    *int     `json:"wind_direction_degrees"`
	WindDirectionCardinal   *string  `json:"wind_direction_cardinal"`
	WindSpeed               *float64 `json:"wind_speed"`
	WindGust                *float64 `json:"wind_gust"`
	VisibilityDistance      *float64 `json:"visibility_distance"`
	CloudCover              *float64 `json:"cloud_cover"`
	FeelsLikeTemperature    *float64 `json:"feels_like_temperature"`
}

// Columns lists every exported column in schema order; the CSV export header
// uses it verbatim.
var Columns = []string{
	"id", "timestamp",
	"temperature", "humidity", "pressure",
	"latitude", "longitude", "altitude", "speed", "hdop", "satellites", "time_utc",
	"rained", "rain_checked_at",
	"is_daytime", "dew_point", "heat_index", "wind_chill", "uv_index",
	"precipitation_probability_percent", "precipitation_probability_type",
	"precip_qpf", "thunderstorm_probability", "air_pressure_msl",
	"wind_direction_degrees", "wind_direction_cardinal", "wind_speed", "wind_gust",
	"visibility_distance", "cloud_cover", "feels_like_temperature",
}
