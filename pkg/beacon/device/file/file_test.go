package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileDevicePullsAndWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cs8")

	dev, err := NewFileDevice(path, 64, time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}

	fills := 0
	fill := func(buf []byte) error {
		fills++
		for i := range buf {
			buf[i] = byte(i)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := dev.Start(ctx, 144000000, 8000000, fill); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Start returned %v, want deadline exceeded", err)
	}
	if err := dev.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if fills == 0 {
		t.Fatal("fill was never invoked")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != fills*64 {
		t.Fatalf("wrote %d bytes, want %d", len(data), fills*64)
	}
	for i, b := range data {
		if b != byte(i%64) {
			t.Fatalf("byte %d = %d, want %d", i, b, byte(i%64))
		}
	}
}

func TestFileDevicePropagatesFillError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.cs8")

	dev, err := NewFileDevice(path, 64, time.Millisecond)
	if err != nil {
		t.Fatalf("NewFileDevice: %v", err)
	}
	defer dev.Stop()

	wantErr := errors.New("synth broke")
	fill := func(buf []byte) error { return wantErr }

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := dev.Start(ctx, 0, 0, fill); !errors.Is(err, wantErr) {
		t.Fatalf("Start returned %v, want fill error", err)
	}
}
