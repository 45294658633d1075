package rtdb

// Root is the fixed namespace all per-user telemetry lives under.
const Root = "UsersData"

// Field names in upload order: the environment triple first, then the GPS
// fields that are only written on a valid fix.
const (
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldPressure    = "pressure"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldAltitude    = "altitude"
	FieldSpeed       = "speed"
	FieldHDOP        = "hdop"
	FieldSatellites  = "satellites"
	FieldTimeUTC     = "timeUTC"
)

// FieldNames lists every telemetry field in upload order.
var FieldNames = []string{
	FieldTemperature, FieldHumidity, FieldPressure,
	FieldLatitude, FieldLongitude, FieldAltitude,
	FieldSpeed, FieldHDOP, FieldSatellites, FieldTimeUTC,
}

// PathSet holds the remote key path for every telemetry field of one user.
// It is derived once per session since the uid never changes after login.
type PathSet struct {
	Temperature string
	Humidity    string
	Pressure    string
	Latitude    string
	Longitude   string
	Altitude    string
	Speed       string
	HDOP        string
	Satellites  string
	TimeUTC     string
}

// NewPathSet derives the per-user paths "UsersData/<uid>/<field>".
func NewPathSet(uid string) PathSet {
	base := Root + "/" + uid + "/"
	return PathSet{
		Temperature: base + FieldTemperature,
		Humidity:    base + FieldHumidity,
		Pressure:    base + FieldPressure,
		Latitude:    base + FieldLatitude,
		Longitude:   base + FieldLongitude,
		Altitude:    base + FieldAltitude,
		Speed:       base + FieldSpeed,
		HDOP:        base + FieldHDOP,
		Satellites:  base + FieldSatellites,
		TimeUTC:     base + FieldTimeUTC,
	}
}
