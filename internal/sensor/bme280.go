package sensor

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// BME280 reads temperature, humidity and pressure over I2C.
type BME280 struct {
	bus i2c.BusCloser
	dev *bmxx80.Dev
}

// NewBME280 opens the default I2C bus and probes the device at addr
// (typically 0x76 or 0x77). Initialization failure is returned to the
// caller, which decides whether it is fatal.
func NewBME280(addr uint16) (*BME280, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open("") // default bus, usually /dev/i2c-1
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		if closeErr := bus.Close(); closeErr != nil {
			return nil, fmt.Errorf("probe bme280 at 0x%02X: %w (bus close: %v)", addr, err, closeErr)
		}
		return nil, fmt.Errorf("probe bme280 at 0x%02X: %w", addr, err)
	}

	return &BME280{bus: bus, dev: dev}, nil
}

// Read senses the current environment once.
func (s *BME280) Read() (Snapshot, error) {
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return Snapshot{}, fmt.Errorf("bme280 sense: %w", err)
	}
	return snapshotFrom(env, time.Now().UTC()), nil
}

// snapshotFrom converts physic's fixed-point readings (nano Pascal,
// tenth-micro %rH) into the uploaded units: °C, %rH, hPa.
func snapshotFrom(env physic.Env, at time.Time) Snapshot {
	return Snapshot{
		Temperature: env.Temperature.Celsius(),
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
		Pressure:    float64(env.Pressure) / float64(100*physic.Pascal),
		Time:        at,
	}
}

// Close halts the device and releases the bus.
func (s *BME280) Close() error {
	haltErr := s.dev.Halt()
	busErr := s.bus.Close()
	if haltErr != nil {
		return haltErr
	}
	return busErr
}
