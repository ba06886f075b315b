package selection

import (
	"strings"
	"time"

	"github.com/sgostarter/libchart/anim"
	"github.com/sgostarter/libchart/bridge"
)

const (
	SnapModeTiming = "timing"
	SnapModeSpring = "spring"
)

type SpringConfig struct {
	AngularFrequency float64 `yaml:"angular_frequency"`
	DampingRatio     float64 `yaml:"damping_ratio"`
}

type Config struct {
	HorizontalInset float64       `yaml:"horizontal_inset"`
	SnapMode        string        `yaml:"snap_mode"`
	SnapDuration    time.Duration `yaml:"snap_duration"`
	Spring          SpringConfig  `yaml:"spring"`
	FPS             int           `yaml:"fps"`

	Bridge bridge.Config `yaml:"bridge"`
}

// Fix fills defaults for zero fields and normalises the snap mode.
func (cfg *Config) Fix() {
	if cfg.SnapDuration <= 0 {
		cfg.SnapDuration = 300 * time.Millisecond
	}

	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}

	cfg.SnapMode = strings.ToLower(strings.TrimSpace(cfg.SnapMode))
	if cfg.SnapMode == "" {
		cfg.SnapMode = SnapModeTiming
	}
}

func (cfg *Config) Animator() anim.Animator {
	if cfg.SnapMode == SnapModeSpring {
		return anim.SpringAnimator{
			FPS:              cfg.FPS,
			AngularFrequency: cfg.Spring.AngularFrequency,
			DampingRatio:     cfg.Spring.DampingRatio,
		}
	}

	return anim.TimingAnimator{
		Duration: cfg.SnapDuration,
		Easing:   anim.EaseInOut,
	}
}
