package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Mikhaerys/Weather-Drone/internal/httpx"
)

// Enricher queries an external current-conditions weather API for the
// station's position. Enrichment is best effort: any failure simply yields
// an un-enriched record.
type Enricher struct {
	baseURL string
	apiKey  string
	units   string
	httpc   *http.Client
	breaker *gobreaker.CircuitBreaker
	backoff httpx.Backoff
}

func NewEnricher(baseURL, apiKey, units string) *Enricher {
	return &Enricher{
		baseURL: baseURL,
		apiKey:  apiKey,
		units:   units,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weather-api",
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		backoff: httpx.Backoff{
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
	}
}

// conditionsPayload mirrors the API's nested response shape.
type conditionsPayload struct {
	IsDaytime *bool `json:"isDaytime"`
	DewPoint  *struct {
		Degrees *float64 `json:"degrees"`
	} `json:"dewPoint"`
	HeatIndex *struct {
		Degrees *float64 `json:"degrees"`
	} `json:"heatIndex"`
	WindChill *struct {
		Degrees *float64 `json:"degrees"`
	} `json:"windChill"`
	UVIndex       *int `json:"uvIndex"`
	Precipitation *struct {
		Probability *struct {
			Percent *int    `json:"percent"`
			Type    *string `json:"type"`
		} `json:"probability"`
		QPF *struct {
			Quantity *float64 `json:"quantity"`
		} `json:"qpf"`
	} `json:"precipitation"`
	ThunderstormProbability *int `json:"thunderstormProbability"`
	AirPressure             *struct {
		MeanSeaLevelMillibars *float64 `json:"meanSeaLevelMillibars"`
	} `json:"airPressure"`
	Wind *struct {
		Direction *struct {
			Degrees  *int    `json:"degrees"`
			Cardinal *string `json:"cardinal"`
		} `json:"direction"`
		Speed *struct {
			Value *float64 `json:"value"`
		} `json:"speed"`
		Gust *struct {
			Value *float64 `json:"value"`
		} `json:"gust"`
	} `json:"wind"`
	Visibility *struct {
		Distance *float64 `json:"distance"`
	} `json:"visibility"`
	CloudCover           *float64 `json:"cloudCover"`
	FeelsLikeTemperature *struct {
		Degrees *float64 `json:"degrees"`
	} `json:"feelsLikeTemperature"`
}

// Current looks up conditions at the given position.
func (e *Enricher) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	build := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", e.apiKey)
		values.Set("location.latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("location.longitude", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("unitsSystem", e.units)
		return http.NewRequest(http.MethodGet, e.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := httpx.Do(ctx, e.httpc, e.breaker, e.backoff, build)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api: status %d", resp.StatusCode)
	}

	var p conditionsPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode weather api response: %w", err)
	}

	out := &Conditions{
		IsDaytime:               p.IsDaytime,
		UVIndex:                 p.UVIndex,
		ThunderstormProbability: p.ThunderstormProbability,
		CloudCover:              p.CloudCover,
	}
	if p.DewPoint != nil {
		out.DewPoint = p.DewPoint.Degrees
	}
	if p.HeatIndex != nil {
		out.HeatIndex = p.HeatIndex.Degrees
	}
	if p.WindChill != nil {
		out.WindChill = p.WindChill.Degrees
	}
	if p.Precipitation != nil {
		if p.Precipitation.Probability != nil {
			out.PrecipProbPercent = p.Precipitation.Probability.Percent
			out.PrecipProbType = p.Precipitation.Probability.Type
		}
		if p.Precipitation.QPF != nil {
			out.PrecipQPF = p.Precipitation.QPF.Quantity
		}
	}
	if p.AirPressure != nil {
		out.AirPressureMSL = p.AirPressure.MeanSeaLevelMillibars
	}
	if p.Wind != nil {
		if p.Wind.Direction != nil {
			out.WindDirectionDegrees = p.Wind.Direction.Degrees
			out.WindDirectionCardinal = p.Wind.Direction.Cardinal
		}
		if p.Wind.Speed != nil {
			out.WindSpeed = p.Wind.Speed.Value
		}
		if p.Wind.Gust != nil {
			out.WindGust = p.Wind.Gust.Value
		}
	}
	if p.Visibility != nil {
		out.VisibilityDistance = p.Visibility.Distance
	}
	if p.FeelsLikeTemperature != nil {
		out.FeelsLikeTemperature = p.FeelsLikeTemperature.Degrees
	}
	return out, nil
}
