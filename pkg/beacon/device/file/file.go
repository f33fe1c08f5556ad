package file

import (
	"context"
	"os"
	"time"

	"github.com/wbhill/beacon/pkg/beacon/device"
)

// FileDevice is a paced sample sink for running without hardware: on each
// tick it pulls one buffer of samples and appends the raw CS8 bytes to a
// file.
type FileDevice struct {
	writeFile   *os.File
	writeSize   int
	timeBetween time.Duration
}

func NewFileDevice(path string, writeSize int, timeBetween time.Duration) (*FileDevice, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &FileDevice{
		writeFile:   f,
		writeSize:   writeSize,
		timeBetween: timeBetween,
	}, nil
}

func (f *FileDevice) Start(ctx context.Context, centerFreq int, sampleRate int, fill device.FillFunc) error {
	tick := time.NewTicker(f.timeBetween)
	defer tick.Stop()

	buf := make([]byte, f.writeSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			if err := fill(buf); err != nil {
				return err
			}
			if _, err := f.writeFile.Write(buf); err != nil {
				return err
			}
		}
	}
}

func (f *FileDevice) Stop() error {
	return f.writeFile.Close()
}

func (f *FileDevice) MaxSampleRate() int {
	return 20e6
}
