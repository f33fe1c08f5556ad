package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/samuel/go-hackrf/hackrf"
	"golang.org/x/sync/errgroup"

	"github.com/wbhill/beacon/pkg/beacon"
	"github.com/wbhill/beacon/pkg/beacon/config"
	"github.com/wbhill/beacon/pkg/beacon/device"
	"github.com/wbhill/beacon/pkg/beacon/device/file"
	hackrfDevice "github.com/wbhill/beacon/pkg/beacon/device/hackrf"
	"github.com/wbhill/beacon/pkg/dsp/viz"
)

const (
	fileByteWriteSize = 262144
	fileWriteDelay    = time.Microsecond * 16384
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	configFile := flag.String("config", "beacon.yaml", "YAML config file")

	flag.Parse()
	if configFile == nil {
		flag.Usage()
		os.Exit(1)
	}

	configContents, err := os.ReadFile(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("error reading config file")
	}
	var opts config.Config
	if err := yaml.Unmarshal(configContents, &opts); err != nil {
		log.Fatal().Err(err).Msg("error unmarshaling yaml file")
	}

	var dev device.Device

	if opts.OutputLocation != "" {
		opts.Device = "file"
	}

	switch opts.Device {
	case "file":
		log.Info().Str("device", "file").Msg("initializing device...")
		dev, err = file.NewFileDevice(opts.OutputLocation, fileByteWriteSize, fileWriteDelay)
		if err != nil {
			log.Fatal().Str("device", "file").Err(err).Msg("failed to init file writer")
		}
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	default:
		log.Info().Str("device", "hackrf").Msg("initializing device...")
		if err := hackrf.Init(); err != nil {
			log.Fatal().Str("device", "hackrf").Err(err).Msg("failed to initialize hackRF")
		}
		defer hackrf.Exit()

		dev, err = hackrfDevice.NewHackRFDevice(opts.TXVGAGain, opts.AmpEnable)
		if err != nil {
			log.Fatal().Str("device", "hackrf").Err(err).Msg("failed to create hackRF device")
		}
	}

	vizServer := viz.NewServer(opts.VizServer.Port, opts.VizServer.UpdateInterval)

	influxWriteAPI := influxdb2.NewClient(opts.InfluxDB.Host, "").WriteAPI(opts.InfluxDB.Organization, opts.InfluxDB.Bucket)

	b, err := beacon.NewBeacon(dev,
		beacon.Options{
			CenterFreq:      opts.CenterFreq,
			SampleRate:      opts.SampleRate,
			CarrierOffset:   opts.CarrierOffset,
			MarkFreq:        opts.MarkFreq,
			SpaceFreq:       opts.SpaceFreq,
			ModulationDepth: opts.ModulationDepth,
			Amplitude:       opts.Amplitude,
			SwitchInterval:  opts.SwitchInterval,
		},
		beacon.WithInfluxDB(influxWriteAPI),
		beacon.WithImageServer(vizServer),
		beacon.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create beacon")
	}

	eg, ctx := errgroup.WithContext(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	eg.Go(func() error {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}

		return b.Stop()
	})

	eg.Go(func() error {
		return b.Start(ctx)
	})

	if err := eg.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("exited program")
	}
}
