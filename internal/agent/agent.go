// Package agent drives the telemetry loop: drain the GPS stream, watch the
// session, and on every gate tick read the sensors and issue one
// fire-and-forget write per telemetry field.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mikhaerys/Weather-Drone/internal/clock"
	"github.com/Mikhaerys/Weather-Drone/internal/gps"
	"github.com/Mikhaerys/Weather-Drone/internal/result"
	"github.com/Mikhaerys/Weather-Drone/internal/rtdb"
	"github.com/Mikhaerys/Weather-Drone/internal/sensor"
)

// loopInterval paces the polling loop between ticks. GPS bytes and async
// results are also drained on every pass.
const loopInterval = 100 * time.Millisecond

// State of the agent's startup sequence. There are no backward transitions:
// transient upload failures are observed on the result stream and do not
// leave Ready.
type State int

const (
	StateInitializing State = iota
	StateConnecting
	StateAuthenticating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Session is the slice of the auth session the loop needs.
type Session interface {
	Ready() bool
	UID() string
}

// Uploader issues one asynchronous write per telemetry field.
type Uploader interface {
	Set(path string, value any, tag string)
}

// Publisher mirrors snapshots to a local broker; optional.
type Publisher interface {
	PublishSnapshot(stationID string, snap sensor.Snapshot) error
	IsConnected() bool
}

// Agent runs the Ready-state polling loop.
type Agent struct {
	sensors   sensor.Reader
	parser    *gps.Parser
	gpsBytes  <-chan byte
	session   Session
	uploader  Uploader
	results   <-chan result.Result
	publisher Publisher
	stationID string

	gate   *clock.Gate
	millis func() uint64
	logger *slog.Logger

	paths    rtdb.PathSet
	hasPaths bool
}

// Options wires an Agent. Publisher may be nil; Millis defaults to the
// process-monotonic counter.
type Options struct {
	Sensors   sensor.Reader
	Parser    *gps.Parser
	GPSBytes  <-chan byte
	Session   Session
	Uploader  Uploader
	Results   <-chan result.Result
	Publisher Publisher
	StationID string
	Interval  time.Duration
	Millis    func() uint64
	Logger    *slog.Logger
}

func New(o Options) *Agent {
	millis := o.Millis
	if millis == nil {
		millis = clock.Millis
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		sensors:   o.Sensors,
		parser:    o.Parser,
		gpsBytes:  o.GPSBytes,
		session:   o.Session,
		uploader:  o.Uploader,
		results:   o.Results,
		publisher: o.Publisher,
		stationID: o.StationID,
		gate:      clock.NewGate(o.Interval),
		millis:    millis,
		logger:    logger,
	}
}

// Run executes the Ready-state loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r, ok := <-a.results:
			if !ok {
				return nil
			}
			a.handleResult(r)
		case b, ok := <-a.gpsBytes:
			if !ok {
				a.gpsBytes = nil // device gone; keep uploading without GPS
				continue
			}
			a.parser.Feed(b)
			a.drainGPS()
		case <-ticker.C:
			a.Step()
		}
	}
}

// Step performs one loop iteration: drain the GPS stream and pending
// results, then fire a tick when the session is ready and the gate permits.
func (a *Agent) Step() {
	a.drainGPS()
	a.drainResults()

	if !a.session.Ready() {
		return
	}
	if !a.gate.ShouldTick(a.millis()) {
		return
	}
	a.tick()
}

func (a *Agent) drainGPS() {
	if a.gpsBytes == nil {
		return
	}
	for {
		select {
		case b, ok := <-a.gpsBytes:
			if !ok {
				a.gpsBytes = nil
				return
			}
			a.parser.Feed(b)
		default:
			return
		}
	}
}

func (a *Agent) drainResults() {
	for {
		select {
		case r, ok := <-a.results:
			if !ok {
				return
			}
			a.handleResult(r)
		default:
			return
		}
	}
}

// tick snapshots every source and issues the per-field writes: the
// environment triple always, the seven GPS fields only on a valid fix.
func (a *Agent) tick() {
	if !a.hasPaths {
		uid := a.session.UID()
		a.paths = rtdb.NewPathSet(uid)
		a.hasPaths = true
		a.logger.Info("user uid", "uid", uid)
	}

	snap, err := a.sensors.Read()
	if err != nil {
		a.logger.Warn("sensor read failed, skipping tick", "error", err)
		return
	}

	fix := a.parser.Fix()
	if fix.Valid {
		a.logger.Info("gps fix",
			"lat", fix.Latitude,
			"lon", fix.Longitude,
			"speed_kmh", fix.SpeedKmh,
			"alt_m", fix.Altitude,
			"hdop", fix.HDOP,
			"satellites", fix.Satellites,
			"time_utc", fix.TimeUTC,
		)
	} else {
		a.logger.Info("gps location not valid yet")
	}

	a.logger.Info("writing telemetry",
		"temperature_c", snap.Temperature,
		"humidity_pct", snap.Humidity,
		"pressure_hpa", snap.Pressure,
	)

	a.uploader.Set(a.paths.Temperature, snap.Temperature, "RTDB_Send_Temperature")
	a.uploader.Set(a.paths.Humidity, snap.Humidity, "RTDB_Send_Humidity")
	a.uploader.Set(a.paths.Pressure, snap.Pressure, "RTDB_Send_Pressure")

	if fix.Valid {
		a.uploader.Set(a.paths.Latitude, fix.Latitude, "RTDB_Send_Latitude")
		a.uploader.Set(a.paths.Longitude, fix.Longitude, "RTDB_Send_Longitude")
		a.uploader.Set(a.paths.Altitude, fix.Altitude, "RTDB_Send_Altitude")
		a.uploader.Set(a.paths.Speed, fix.SpeedKmh, "RTDB_Send_Speed")
		a.uploader.Set(a.paths.HDOP, fix.HDOP, "RTDB_Send_HDOP")
		a.uploader.Set(a.paths.Satellites, fix.Satellites, "RTDB_Send_Satellites")
		a.uploader.Set(a.paths.TimeUTC, fix.TimeUTC, "RTDB_Send_TimeUTC")
	}

	if a.publisher != nil && a.publisher.IsConnected() {
		if err := a.publisher.PublishSnapshot(a.stationID, snap); err != nil {
			a.logger.Warn("local republish failed", "error", err)
		}
	}
}

// handleResult is the sole observation point for async outcomes. It only
// logs; failed writes are never re-issued.
func (a *Agent) handleResult(r result.Result) {
	switch r.Kind {
	case result.Event:
		a.logger.Info("event task", "task", r.TaskID, "msg", r.Message, "code", r.Code)
	case result.Debug:
		a.logger.Debug("debug task", "task", r.TaskID, "msg", r.Message)
	case result.Error:
		a.logger.Error("error task", "task", r.TaskID, "msg", r.Message, "code", r.Code)
	case result.Payload:
		a.logger.Info("task payload", "task", r.TaskID, "payload", r.Payload)
	}
}
