package config

import (
	"fmt"
	"os"
	"time"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/overlay"
	"github.com/sgostarter/libchart/selection"
	"gopkg.in/yaml.v3"
)

type Padding struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Config is the chart configuration shared by the controller, the overlay and the cli.
type Config struct {
	Size    curve.Size `yaml:"size"`
	Padding Padding    `yaml:"padding"`

	FitCacheExpiration time.Duration `yaml:"fit_cache_expiration"`

	SeriesFile string `yaml:"series_file"`

	Selection selection.Config `yaml:"selection"`
	Overlay   overlay.Config   `yaml:"overlay"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.fix()

	return cfg
}

func Load(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(d)
}

func Parse(d []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(d, &cfg); err != nil {
		return nil, err
	}

	cfg.fix()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) fix() {
	if cfg.Size.Width == 0 && cfg.Size.Height == 0 {
		cfg.Size = curve.Size{Width: 300, Height: 100}
	}

	if cfg.FitCacheExpiration <= 0 {
		cfg.FitCacheExpiration = 5 * time.Minute
	}

	if cfg.SeriesFile == "" {
		cfg.SeriesFile = "series.json"
	}

	cfg.Selection.Fix()

	if cfg.Selection.Bridge.WatchDog.Name == "" {
		cfg.Selection.Bridge.WatchDog.Name = "selection"
	}

	cfg.Selection.Bridge.WatchDog.Fix()
	cfg.Overlay.Fix()
}

func (cfg *Config) Validate() error {
	if cfg.Size.Width < 0 || cfg.Size.Height < 0 {
		return fmt.Errorf("%w: negative size", commerr.ErrInvalidArgument)
	}

	if cfg.Padding.X < 0 || cfg.Padding.Y < 0 {
		return fmt.Errorf("%w: negative padding", commerr.ErrInvalidArgument)
	}

	if cfg.Size.Width > 0 && 2*cfg.Padding.X >= cfg.Size.Width {
		return fmt.Errorf("%w: x padding leaves no room", commerr.ErrInvalidArgument)
	}

	if cfg.Size.Height > 0 && 2*cfg.Padding.Y >= cfg.Size.Height {
		return fmt.Errorf("%w: y padding leaves no room", commerr.ErrInvalidArgument)
	}

	switch cfg.Selection.SnapMode {
	case selection.SnapModeTiming, selection.SnapModeSpring:
	default:
		return fmt.Errorf("%w: unknown snap mode %q", commerr.ErrInvalidArgument, cfg.Selection.SnapMode)
	}

	return nil
}

// Chart combines samples with the configured layout.
func (cfg *Config) Chart(samples []curve.Sample) selection.Chart {
	return selection.Chart{
		Samples:  samples,
		Size:     cfg.Size,
		XPadding: cfg.Padding.X,
		YPadding: cfg.Padding.Y,
	}
}
