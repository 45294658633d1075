package gps

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// StreamBytes pumps bytes from r into the returned channel until r fails or
// ctx is cancelled. The channel is buffered generously relative to NMEA data
// rates; if the consumer ever falls behind, excess bytes are dropped rather
// than blocking the reader, and the parser resynchronizes on the next "$".
func StreamBytes(ctx context.Context, r io.Reader) <-chan byte {
	out := make(chan byte, 4096)
	go func() {
		defer close(out)
		buf := make([]byte, 512)
		for {
			n, err := r.Read(buf)
			for i := 0; i < n; i++ {
				select {
				case out <- buf[i]:
				case <-ctx.Done():
					return
				default:
					// consumer stalled; drop and keep draining the device
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) && ctx.Err() == nil {
					slog.Warn("gps: stream read failed", "error", err)
				}
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return out
}
