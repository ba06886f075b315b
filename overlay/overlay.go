package overlay

import (
	"math"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/anim"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/scale"
	"github.com/sgostarter/libchart/selection"
	"github.com/spf13/cast"
)

type Config struct {
	FadeDuration   time.Duration `yaml:"fade_duration"`
	LabelInset     float64       `yaml:"label_inset"`
	LabelMarginMin float64       `yaml:"label_margin_min"`
}

func (cfg *Config) Fix() {
	if cfg.FadeDuration <= 0 {
		cfg.FadeDuration = 300 * time.Millisecond
	}
}

// Input is everything one overlay frame depends on.
type Input struct {
	State selection.State
	Chart selection.Chart

	SelectionY      float64
	SelectionYValid bool

	TitleSize    curve.Size
	SubtitleSize curve.Size
}

type Indicator struct {
	X, Y    float64
	YValid  bool
	Opacity float64
}

type Label struct {
	OffsetX  float64
	Opacity  float64
	Title    string
	Subtitle string
}

type Scene struct {
	Indicator  Indicator
	Highlights []float64
	Label      Label
}

// IndicatorPoint converts a selection x (relative to the first column) into chart pixels.
func IndicatorPoint(x, selectionY, xPadding float64) curve.Point {
	return curve.Point{
		X: x + xPadding,
		Y: selectionY,
	}
}

// HighlightedIndex is the sample under an active drag, if any.
func HighlightedIndex(st selection.State, sampleCount int) (int, bool) {
	if !st.Dragging() {
		return 0, false
	}

	return nearestSample(st, sampleCount)
}

// nearestSample rounds the selected index and keeps it within [0, sampleCount-1].
func nearestSample(st selection.State, sampleCount int) (int, bool) {
	if !st.SelectedIndexValid || sampleCount == 0 {
		return 0, false
	}

	index := int(math.Round(st.SelectedIndex))
	if index > sampleCount-1 {
		index = sampleCount - 1
	}

	if index < 0 {
		index = 0
	}

	return index, true
}

// LabelOffset keeps a label of labelWidth centred on x without leaving the chart.
func LabelOffset(x, inset, labelWidth, marginMin, chartWidth float64) float64 {
	return scale.Clamp(x+inset-labelWidth/2, marginMin, chartWidth-labelWidth+inset+marginMin)
}

// Renderer keeps the faded opacities between frames. It belongs to the animation context
// and is not safe for concurrent use.
type Renderer struct {
	logger   l.Wrapper
	cfg      Config
	animator anim.Animator

	indicatorOpacity anim.Value
	labelOpacity     anim.Value
	highlights       []anim.Value

	title    string
	subtitle string
}

func NewRenderer(cfg Config, logger l.Wrapper) *Renderer {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	cfg.Fix()

	r := &Renderer{
		logger: logger.WithFields(l.StringField(l.ClsKey, "Renderer")),
		cfg:    cfg,
		animator: anim.TimingAnimator{
			Duration: cfg.FadeDuration,
			Easing:   anim.EaseInOut,
		},
	}

	r.indicatorOpacity.Set(0)
	r.labelOpacity.Set(0)

	return r
}

func (r *Renderer) Frame(now time.Time, in Input) (scene Scene) {
	st := in.State

	visible := 0.0
	if st.Valid {
		visible = 1
	}

	scene.Indicator = r.indicator(now, in, visible)
	scene.Highlights = r.highlight(now, in)
	scene.Label = r.label(now, in, visible)

	return
}

func (r *Renderer) indicator(now time.Time, in Input, visible float64) Indicator {
	pt := IndicatorPoint(in.State.X, in.SelectionY, in.Chart.XPadding)

	return Indicator{
		X:       pt.X,
		Y:       pt.Y,
		YValid:  in.SelectionYValid,
		Opacity: r.fade(&r.indicatorOpacity, visible, now),
	}
}

func (r *Renderer) highlight(now time.Time, in Input) []float64 {
	n := len(in.Chart.Samples)

	if len(r.highlights) != n {
		highlights := make([]anim.Value, n)
		copy(highlights, r.highlights)

		for idx := len(r.highlights); idx < n; idx++ {
			highlights[idx].Set(0)
		}

		r.highlights = highlights
	}

	active, ok := HighlightedIndex(in.State, n)

	opacities := make([]float64, n)

	for idx := range r.highlights {
		target := 0.0
		if ok && idx == active {
			target = 1
		}

		opacities[idx] = r.fade(&r.highlights[idx], target, now)
	}

	return opacities
}

func (r *Renderer) label(now time.Time, in Input, visible float64) Label {
	st := in.State

	labelWidth := in.TitleSize.Width
	if in.SubtitleSize.Width > labelWidth {
		labelWidth = in.SubtitleSize.Width
	}

	if index, ok := nearestSample(st, len(in.Chart.Samples)); ok {
		sample := in.Chart.Samples[index]

		r.title = sample.Label
		r.subtitle = cast.ToString(sample.Value)
	}

	return Label{
		OffsetX:  LabelOffset(st.X, r.cfg.LabelInset, labelWidth, r.cfg.LabelMarginMin, in.Chart.Size.Width),
		Opacity:  r.fade(&r.labelOpacity, visible, now),
		Title:    r.title,
		Subtitle: r.subtitle,
	}
}

// fade steers av toward target, restarting the transition only when the target changes.
func (r *Renderer) fade(av *anim.Value, target float64, now time.Time) float64 {
	if cur, _ := av.Target(); cur != target {
		from, _ := av.Get()

		av.Animate(r.animator.To(from, target, now), now, nil)
	}

	av.Tick(now)

	v, _ := av.Get()

	return v
}
