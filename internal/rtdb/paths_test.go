package rtdb

import (
	"reflect"
	"testing"
)

func TestNewPathSetLayout(t *testing.T) {
	uid := "abc123"
	ps := NewPathSet(uid)

	want := map[string]string{
		FieldTemperature: ps.Temperature,
		FieldHumidity:    ps.Humidity,
		FieldPressure:    ps.Pressure,
		FieldLatitude:    ps.Latitude,
		FieldLongitude:   ps.Longitude,
		FieldAltitude:    ps.Altitude,
		FieldSpeed:       ps.Speed,
		FieldHDOP:        ps.HDOP,
		FieldSatellites:  ps.Satellites,
		FieldTimeUTC:     ps.TimeUTC,
	}
	for field, got := range want {
		expected := "UsersData/" + uid + "/" + field
		if got != expected {
			t.Errorf("path for %s = %q; want %q", field, got, expected)
		}
	}
}

func TestFieldNamesComplete(t *testing.T) {
	if len(FieldNames) != 10 {
		t.Fatalf("len(FieldNames) = %d; want 10", len(FieldNames))
	}
	// PathSet must carry exactly one path per field name.
	if n := reflect.TypeOf(PathSet{}).NumField(); n != len(FieldNames) {
		t.Fatalf("PathSet has %d fields; want %d", n, len(FieldNames))
	}
	seen := map[string]bool{}
	for _, f := range FieldNames {
		if seen[f] {
			t.Errorf("duplicate field name %q", f)
		}
		seen[f] = true
	}
}
