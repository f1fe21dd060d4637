package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "NRFRX_"

type InputConf struct {
	Path       string  `koanf:"path"`
	SampleRate float64 `koanf:"sample_rate"`
}

// Interpolator window sources for the timing loop.
const (
	InterpolateOutput = "output"
	InterpolateInput  = "input"
)

type DemodConf struct {
	SPS          float64 `koanf:"sps"`
	PhaseGain    float64 `koanf:"phase_gain"`
	SPSTolerance float64 `koanf:"sps_tolerance"`
	FilterSpan   float64 `koanf:"filter_span"`
	Interpolate  string  `koanf:"interpolate"`
	TraceLen     int     `koanf:"trace_len"`
}

type OutputConf struct {
	Database string `koanf:"database"`
	Report   string `koanf:"report"`
}

type TuiConf struct {
	EnableLogOutput bool `koanf:"enable_log_output"`
}

type Config struct {
	Input  InputConf  `koanf:"input"`
	Demod  DemodConf  `koanf:"demod"`
	Output OutputConf `koanf:"output"`
	Tui    TuiConf    `koanf:"tui"`
}

// Defaults suit a 4 Msps capture at 2 samples per symbol.
var Defaults = map[string]any{
	"input.sample_rate":     4e6,
	"demod.sps":             2.0,
	"demod.phase_gain":      0.175,
	"demod.sps_tolerance":   0.005,
	"demod.filter_span":     0.25,
	"demod.interpolate":     InterpolateOutput,
	"demod.trace_len":       2048,
	"tui.enable_log_output": true,
}

func SearchPaths() []string {
	paths := []string{"/etc/nrfrx/config.hcl"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "nrfrx", "config.hcl"))
	}
	return append(paths, "./config.hcl")
}

func FindConfigPath() string {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Debug("Config file not found, using defaults")
	return ""
}

// Load layers defaults, the HCL config file at path (if any) and NRFRX_
// environment variables into k. Env vars win over the file.
func Load(k *koanf.Koanf, path string) error {
	for key, val := range Defaults {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), hcl.Parser(true)); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
			k = strings.Replace(key, "_", ".", 1)
			log.Debugf("Found config env var: %s=%v", k, v)
			return k, v
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	return nil
}

func FromKoanf(k *koanf.Koanf) Config {
	return Config{
		Input: InputConf{
			Path:       k.String("input.path"),
			SampleRate: k.Float64("input.sample_rate"),
		},
		Demod: DemodConf{
			SPS:          k.Float64("demod.sps"),
			PhaseGain:    k.Float64("demod.phase_gain"),
			SPSTolerance: k.Float64("demod.sps_tolerance"),
			FilterSpan:   k.Float64("demod.filter_span"),
			Interpolate:  k.String("demod.interpolate"),
			TraceLen:     k.Int("demod.trace_len"),
		},
		Output: OutputConf{
			Database: k.String("output.database"),
			Report:   k.String("output.report"),
		},
		Tui: TuiConf{
			EnableLogOutput: k.Bool("tui.enable_log_output"),
		},
	}
}

func (c DemodConf) Validate() error {
	if c.SPS < 1 {
		return fmt.Errorf("demod.sps must be at least 1, got %v", c.SPS)
	}
	if c.SPSTolerance < 0 || c.SPSTolerance >= c.SPS {
		return fmt.Errorf("demod.sps_tolerance must be in [0, sps), got %v", c.SPSTolerance)
	}
	if c.FilterSpan <= 0 || c.FilterSpan > 1 {
		return fmt.Errorf("demod.filter_span must be in (0, 1], got %v", c.FilterSpan)
	}
	switch c.Interpolate {
	case "", InterpolateOutput, InterpolateInput:
	default:
		return fmt.Errorf("demod.interpolate must be %q or %q, got %q", InterpolateOutput, InterpolateInput, c.Interpolate)
	}
	if c.PhaseGain <= 0 {
		return fmt.Errorf("demod.phase_gain must be positive, got %v", c.PhaseGain)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Demod.Validate(); err != nil {
		return err
	}
	if c.Input.SampleRate <= 0 {
		return fmt.Errorf("input.sample_rate must be positive, got %v", c.Input.SampleRate)
	}
	return nil
}
