// Package config loads a tracking run's tuning knobs from a YAML file: the
// typed, struct-tagged replacement for the teacher's hand-rolled
// line-oriented src/config.go text format.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kgstrand/gnsstrack/track"
)

// FilterParams mirrors track.FilterParams with yaml tags; zero fields are
// left at Go's zero value, matching the original's "everything has a
// documented default" convention.
type FilterParams struct {
	CodeBW          float64 `yaml:"code_bw"`
	CodeZeta        float64 `yaml:"code_zeta"`
	CodeK           float64 `yaml:"code_k"`
	CarrBW          float64 `yaml:"carr_bw"`
	CarrZeta        float64 `yaml:"carr_zeta"`
	CarrK           float64 `yaml:"carr_k"`
	LoopFreq        float64 `yaml:"loop_freq"`
	CarrAidingIGain float64 `yaml:"carr_aiding_igain"`
	CarrToCodeRatio float64 `yaml:"carr_to_code_ratio"`
}

func (p FilterParams) toTrack() track.FilterParams {
	return track.FilterParams{
		CodeBW: p.CodeBW, CodeZeta: p.CodeZeta, CodeK: p.CodeK,
		CarrBW: p.CarrBW, CarrZeta: p.CarrZeta, CarrK: p.CarrK,
		LoopFreq:        p.LoopFreq,
		CarrAidingIGain: p.CarrAidingIGain,
		CarrToCodeRatio: p.CarrToCodeRatio,
	}
}

// ChannelSeed mirrors track.ChannelSeed.
type ChannelSeed struct {
	PRN       int     `yaml:"prn"`
	CodePhase float64 `yaml:"code_phase"`
	CarrFreq  float64 `yaml:"carr_freq"`
	SNR       float64 `yaml:"snr"`
}

func (s ChannelSeed) toTrack() track.ChannelSeed {
	return track.ChannelSeed{PRN: s.PRN, CodePhase: s.CodePhase, CarrFreq: s.CarrFreq, SNR: s.SNR}
}

// Config is the on-disk shape of a tracking run's tuning file.
type Config struct {
	SamplingFreq float64 `yaml:"sampling_freq"`
	ChippingRate float64 `yaml:"chipping_rate"`
	IF           float64 `yaml:"if"`

	LoopFilterClass string `yaml:"loop_filter_class"` // "simple" (default) or "aided"

	Stage1LoopFilterParams FilterParams  `yaml:"stage1_loop_filter_params"`
	Stage2CoherentMs       int           `yaml:"stage2_coherent_ms"`
	Stage2LoopFilterParams *FilterParams `yaml:"stage2_loop_filter_params"`

	MsToTrack       int  `yaml:"ms_to_track"`
	Multi           bool `yaml:"multi"`
	Workers         int  `yaml:"workers"`
	ProgressEveryMs int  `yaml:"progress_every_ms"`

	Channels []ChannelSeed `yaml:"channels"`
}

// Load reads and parses path into a Config, rejecting malformed YAML with a
// line-addressable error (yaml.v3 already attaches a line number to its
// TypeError; Load just surfaces it).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Options converts a parsed Config into track.Options, ready to pass to
// track.Track alongside a SampleStream.
func (c *Config) Options() track.Options {
	opts := track.Options{
		SamplingFreq:           c.SamplingFreq,
		ChippingRate:           c.ChippingRate,
		IF:                     c.IF,
		Stage1LoopFilterParams: c.Stage1LoopFilterParams.toTrack(),
		Stage2CoherentMs:       c.Stage2CoherentMs,
		MsToTrack:              c.MsToTrack,
		Multi:                  c.Multi,
		Workers:                c.Workers,
		ProgressEveryMs:        c.ProgressEveryMs,
	}
	if c.LoopFilterClass == "aided" {
		opts.LoopFilterClass = track.AidedLoopFilterClass
	}
	if c.Stage2LoopFilterParams != nil {
		p := c.Stage2LoopFilterParams.toTrack()
		opts.Stage2LoopFilterParams = &p
	}
	return opts
}

// ChannelSeeds converts the parsed channel list into track.ChannelSeed.
func (c *Config) ChannelSeeds() []track.ChannelSeed {
	seeds := make([]track.ChannelSeed, len(c.Channels))
	for i, s := range c.Channels {
		seeds[i] = s.toTrack()
	}
	return seeds
}
