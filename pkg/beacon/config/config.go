package config

import "time"

type Config struct {
	CenterFreq      int           `yaml:"center_freq"`
	SampleRate      int           `yaml:"sample_rate"`
	CarrierOffset   int           `yaml:"carrier_offset"`
	MarkFreq        int           `yaml:"mark_freq"`
	SpaceFreq       int           `yaml:"space_freq"`
	ModulationDepth float64       `yaml:"modulation_depth"`
	Amplitude       float64       `yaml:"amplitude"`
	TXVGAGain       int           `yaml:"txvga_gain"`
	AmpEnable       bool          `yaml:"amp_enable"`
	SwitchInterval  time.Duration `yaml:"switch_interval"`
	Device          string        `yaml:"device"`
	OutputLocation  string        `yaml:"output_location"`
	VizServer       struct {
		Port           int           `yaml:"port"`
		UpdateInterval time.Duration `yaml:"update_interval_ms"`
	} `yaml:"viz_server"`
	InfluxDB struct {
		Host         string `yaml:"host"`
		Organization string `yaml:"organization"`
		Bucket       string `yaml:"bucket"`
	}
}
