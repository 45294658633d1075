package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Mikhaerys/Weather-Drone/internal/dashboard/types"
)

const (
	defaultPageSize = 25
	maxPageSize     = 500
)

func parseIndexQuery(r *http.Request) (page, pageSize int, onlyUnlabeled bool) {
	q := r.URL.Query()

	page = 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		page = n
	}

	pageSize = defaultPageSize
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n >= 1 {
		pageSize = n
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize, q.Get("filter") == "unlabeled"
}

// parseRainForm extracts rained_<id> fields. "1" and "0" label the reading,
// the empty value clears the label; anything else is skipped.
func parseRainForm(form url.Values) map[int64]*bool {
	out := make(map[int64]*bool)
	for key, vals := range form {
		rest, found := strings.CutPrefix(key, "rained_")
		if !found || len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			continue
		}
		switch vals[0] {
		case "":
			out[id] = nil
		case "0":
			v := false
			out[id] = &v
		case "1":
			v := true
			out[id] = &v
		}
	}
	return out
}

func csvRow(rd types.Reading) []string {
	return []string{
		strconv.FormatInt(rd.ID, 10),
		rd.Timestamp,
		csvFloat(rd.Temperature), csvFloat(rd.Humidity), csvFloat(rd.Pressure),
		csvFloat(rd.Latitude), csvFloat(rd.Longitude), csvFloat(rd.Altitude),
		csvFloat(rd.Speed), csvFloat(rd.HDOP), csvInt(rd.Satellites), csvString(rd.TimeUTC),
		csvBool(rd.Rained), csvString(rd.RainCheckedAt),
		csvBool(rd.IsDaytime), csvFloat(rd.DewPoint), csvFloat(rd.HeatIndex),
		csvFloat(rd.WindChill), csvInt(rd.UVIndex),
		csvInt(rd.PrecipProbPercent), csvString(rd.PrecipProbType),
		csvFloat(rd.PrecipQPF), csvInt(rd.ThunderstormProbability), csvFloat(rd.AirPressureMSL),
		csvInt(rd.WindDirectionDegrees), csvString(rd.WindDirectionCardinal),
		csvFloat(rd.WindSpeed), csvFloat(rd.WindGust),
		csvFloat(rd.VisibilityDistance), csvFloat(rd.CloudCover), csvFloat(rd.FeelsLikeTemperature),
	}
}

func csvFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func csvInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func csvString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func csvBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "1"
	}
	return "0"
}
