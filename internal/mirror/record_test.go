package mirror

import "testing"

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func str(v string) *string { return &v }

func baseRecord() Record {
	return Record{
		Temperature: f(21.5),
		Humidity:    f(40.0),
		Pressure:    f(1013.2),
		Latitude:    f(4.5),
		Longitude:   f(-74.1),
		TimeUTC:     str("2024/3/15,18:12:34"),
	}
}

func matchingLast() *LastReading {
	return &LastReading{
		Temperature:       f(21.5),
		Humidity:          f(40.0),
		Pressure:          f(1013.2),
		Latitude:          f(4.5),
		Longitude:         f(-74.1),
		TimeUTC:           str("2024/3/15,18:12:34"),
		PrecipProbPercent: i(10),
	}
}

func TestIsNewFirstReading(t *testing.T) {
	if !IsNew(baseRecord(), nil) {
		t.Fatal("IsNew = false with no prior reading")
	}
}

func TestIsNewUnchanged(t *testing.T) {
	if IsNew(baseRecord(), matchingLast()) {
		t.Fatal("IsNew = true for identical reading")
	}
}

func TestIsNewWithinTolerance(t *testing.T) {
	rec := baseRecord()
	rec.Temperature = f(21.5005)
	if IsNew(rec, matchingLast()) {
		t.Fatal("IsNew = true for sub-tolerance temperature drift")
	}
}

func TestIsNewSensorChange(t *testing.T) {
	cases := map[string]func(*Record){
		"temperature": func(r *Record) { r.Temperature = f(22.0) },
		"humidity":    func(r *Record) { r.Humidity = f(41.0) },
		"pressure":    func(r *Record) { r.Pressure = f(1014.0) },
		"latitude":    func(r *Record) { r.Latitude = f(4.6) },
		"longitude":   func(r *Record) { r.Longitude = f(-74.2) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := baseRecord()
			mutate(&rec)
			if !IsNew(rec, matchingLast()) {
				t.Errorf("IsNew = false after %s change", name)
			}
		})
	}
}

func TestIsNewTimestampChange(t *testing.T) {
	rec := baseRecord()
	rec.TimeUTC = str("2024/3/15,18:12:44")
	if !IsNew(rec, matchingLast()) {
		t.Fatal("IsNew = false after timeUTC change")
	}
}

func TestIsNewPrecipProbabilityChange(t *testing.T) {
	rec := baseRecord()
	rec.Conditions = &Conditions{PrecipProbPercent: i(60)}
	if !IsNew(rec, matchingLast()) {
		t.Fatal("IsNew = false after precipitation probability change")
	}

	rec.Conditions.PrecipProbPercent = i(10)
	if IsNew(rec, matchingLast()) {
		t.Fatal("IsNew = true with equal precipitation probability")
	}
}

func TestIsNewMissingGPSFields(t *testing.T) {
	// Before the first fix the GPS fields are absent on both sides.
	rec := Record{Temperature: f(21.5), Humidity: f(40.0), Pressure: f(1013.2)}
	last := &LastReading{Temperature: f(21.5), Humidity: f(40.0), Pressure: f(1013.2)}
	if IsNew(rec, last) {
		t.Fatal("IsNew = true for identical GPS-less readings")
	}
}
