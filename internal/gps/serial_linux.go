package gps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Serial is a read-only NMEA byte source on a Linux tty device.
type Serial struct {
	f *os.File
}

var baudFlags = map[int]uint32{
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// OpenSerial opens the GPS tty in raw 8N1 mode at the given baud rate.
func OpenSerial(device string, baud int) (*Serial, error) {
	flag, ok := baudFlags[baud]
	if !ok {
		return nil, fmt.Errorf("unsupported GPS baud rate %d", baud)
	}

	f, err := os.OpenFile(device, os.O_RDONLY|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open gps device: %w", err)
	}

	t := unix.Termios{
		Iflag: unix.IGNPAR,
		Cflag: flag | unix.CS8 | unix.CREAD | unix.CLOCAL,
	}
	// Block until at least one byte is available.
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(int(f.Fd()), unix.TCSETS, &t); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, fmt.Errorf("configure gps tty: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("configure gps tty: %w", err)
	}

	return &Serial{f: f}, nil
}

func (s *Serial) Read(p []byte) (int, error) { return s.f.Read(p) }

func (s *Serial) Close() error { return s.f.Close() }
