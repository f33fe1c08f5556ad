package device

import "context"

// FillFunc is invoked by a device once per buffer-ready event. The
// implementation must synchronously fill buf with interleaved signed 8-bit
// I/Q samples; len(buf) is always an even number of bytes.
type FillFunc func(buf []byte) error

// Device is a transmit sample sink. Start configures the hardware for
// centerFreq and sampleRate and begins pulling samples through fill until
// the context is cancelled or Stop is called.
type Device interface {
	Start(ctx context.Context, centerFreq int, sampleRate int, fill FillFunc) error
	Stop() error
	MaxSampleRate() int
}
