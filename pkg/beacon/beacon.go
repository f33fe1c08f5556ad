package beacon

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wbhill/beacon/pkg/beacon/device"
	"github.com/wbhill/beacon/pkg/dsp/afsk"
	"github.com/wbhill/beacon/pkg/dsp/viz"
	"github.com/wbhill/beacon/pkg/util"
)

const plotterWindow = 2048

// Options configures the transmitted signal. CarrierOffset is the frequency
// of the synthesized carrier relative to the tuned CenterFreq; the beep
// appears at CenterFreq + CarrierOffset on the air.
type Options struct {
	CenterFreq      int
	SampleRate      int
	CarrierOffset   int
	MarkFreq        int
	SpaceFreq       int
	ModulationDepth float64
	Amplitude       float64
	SwitchInterval  time.Duration
}

// Beacon drives an alternating two-tone AFSK transmission: it owns the
// precomputed waveform tables, the synthesis state, and the device that
// pulls sample buffers from it.
type Beacon struct {
	device    device.Device
	opts      Options
	tables    *afsk.Tables
	state     *afsk.State
	writeAPI  api.WriteAPI
	vizServer *viz.Server
	plotter   *viz.CS8Plotter
	logger    zerolog.Logger

	samplesEmitted int64

	cancel context.CancelFunc
	ctx    context.Context
}

type BeaconOption func(b *Beacon) error

func WithInfluxDB(influxClient api.WriteAPI) BeaconOption {
	return func(b *Beacon) error {
		b.writeAPI = influxClient
		return nil
	}
}

func WithImageServer(vizServer *viz.Server) BeaconOption {
	return func(b *Beacon) error {
		b.vizServer = vizServer
		return nil
	}
}

func WithLogger(logger zerolog.Logger) BeaconOption {
	return func(b *Beacon) error {
		b.logger = logger
		return nil
	}
}

func NewBeacon(device device.Device, options Options, opts ...BeaconOption) (*Beacon, error) {
	b := &Beacon{
		device:   device,
		opts:     options,
		writeAPI: &util.MockWriteAPI{}, // overwritten with option
		logger:   log.Logger,
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.opts.CenterFreq == 0 || b.opts.SampleRate == 0 || b.opts.CarrierOffset == 0 {
		return nil, fmt.Errorf("must specify center freq, sample rate, and carrier offset")
	}
	if b.opts.MarkFreq == 0 || b.opts.SpaceFreq == 0 {
		return nil, fmt.Errorf("must specify mark and space frequencies")
	}
	if b.opts.ModulationDepth == 0 {
		b.opts.ModulationDepth = afsk.DefaultModulationDepth
	}
	if b.opts.Amplitude == 0 {
		b.opts.Amplitude = afsk.DefaultAmplitude
	}
	if b.opts.SwitchInterval == 0 {
		b.opts.SwitchInterval = time.Second
	}

	return b, nil
}

func (b *Beacon) Stop() error {
	b.cancel()
	if b.vizServer != nil {
		b.vizServer.Stop(context.TODO())
	}
	return b.device.Stop()
}

func (b *Beacon) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	b.ctx, b.cancel = context.WithCancel(ctx)

	if b.opts.SampleRate > b.device.MaxSampleRate() {
		return fmt.Errorf("error: sample rate %d > device max sample rate %d", b.opts.SampleRate, b.device.MaxSampleRate())
	}

	carrierLen := afsk.CycleLength(b.opts.SampleRate, b.opts.CarrierOffset)
	markLen := afsk.CycleLength(b.opts.SampleRate, b.opts.MarkFreq)
	spaceLen := afsk.CycleLength(b.opts.SampleRate, b.opts.SpaceFreq)

	b.logger.Info().
		Str("center_freq", util.MHzToString(b.opts.CenterFreq)).
		Str("carrier_offset", util.KHzToString(b.opts.CarrierOffset)).
		Int("mark_freq", b.opts.MarkFreq).
		Int("space_freq", b.opts.SpaceFreq).
		Int("carrier_cycle_samples", carrierLen).
		Int("mark_cycle_samples", markLen).
		Int("space_cycle_samples", spaceLen).
		Msg("precalculating waveform tables...")

	tables, err := afsk.NewTables(carrierLen, markLen, spaceLen, b.opts.ModulationDepth, b.opts.Amplitude)
	if err != nil {
		return err
	}
	b.tables = tables

	switchAfter := int(float64(b.opts.SampleRate) * b.opts.SwitchInterval.Seconds())
	b.state = afsk.NewState(switchAfter)

	if b.vizServer != nil {
		b.plotter = viz.NewCS8Plotter("transmit spectrum", plotterWindow, b.opts.SampleRate)
		b.vizServer.Register("beacon", b.plotter)
		eg.Go(func() error {
			return b.vizServer.Run(b.ctx)
		})
	}

	b.logger.Info().Msg("transmitting")

	eg.Go(func() error {
		return b.device.Start(b.ctx, b.opts.CenterFreq, b.opts.SampleRate, b.fillBuffer)
	})

	return eg.Wait()
}

// fillBuffer is the device's buffer-ready callback. It runs on the
// transport's streaming thread and must stay cheap: one table walk plus a
// bounded copy into the plotter window.
func (b *Beacon) fillBuffer(buf []byte) error {
	n := len(buf) / 2

	start := time.Now()
	dur := util.TimeOperationMicroseconds(func() {
		b.tables.Fill(b.state, buf, n)
	})
	b.samplesEmitted += int64(n)

	if b.plotter != nil {
		b.plotter.AppendCS8(buf)
	}

	go b.writeAPI.WritePoint(influxdb2.NewPoint("beacon.fill",
		map[string]string{
			"frequency": util.MHzToString(b.opts.CenterFreq),
			"tone":      b.state.Active().String(),
		},
		map[string]interface{}{
			"duration":     dur,
			"sample_pairs": n,
			"bytes":        len(buf),
		},
		start))

	return nil
}

// SamplesEmitted returns the total sample pairs streamed so far.
func (b *Beacon) SamplesEmitted() int64 {
	return b.samplesEmitted
}
