// Package sensor reads the onboard environment sensor.
package sensor

import "time"

// Snapshot is one environment reading. It is produced fresh for every upload
// tick and never retained.
type Snapshot struct {
	Temperature float64   `json:"temperature_c"`
	Humidity    float64   `json:"humidity_pct"`
	Pressure    float64   `json:"pressure_hpa"`
	Time        time.Time `json:"timestamp"`
}

// Reader produces environment snapshots. Read is expected to succeed once
// the device initialized; a failed read only skips the current tick.
type Reader interface {
	Read() (Snapshot, error)
	Close() error
}
