package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/config"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/overlay"
	"github.com/spf13/cast"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	formatSVG = "svg"
	formatPNG = "png"

	flattenSteps = 16
)

var gridlineColor = drawing.ColorFromHex("d9d9d9")

func formatFromFile(file string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
}

func formatFloat(v float64) string {
	return cast.ToString(v)
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: width,
	}
}

func dotStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    5,
		DotColor:    col,
	}
}

// renderChart draws the fitted curve in pixel space, with y flipped so the chart reads upright.
func renderChart(w io.Writer, format string, cfg *config.Config, samples []curve.Sample, index *int,
	logger l.Wrapper) error {
	var provider chart.RendererProvider

	switch format {
	case formatSVG:
		provider = chart.SVG
	case formatPNG:
		provider = chart.PNG
	default:
		return fmt.Errorf("%w: unknown format %q", commerr.ErrInvalidArgument, format)
	}

	ch, err := buildChart(cfg, samples, index, logger)
	if err != nil {
		return err
	}

	return ch.Render(provider, w)
}

// buildChart lays out one gridline per sample, the curve, and the indicator of the selected index.
// The selected gridline is drawn heavier.
func buildChart(cfg *config.Config, samples []curve.Sample, index *int, logger l.Wrapper) (ch chart.Chart, err error) {
	size := cfg.Size

	cp := curve.NewFitter(cfg.FitCacheExpiration, logger).Fit(samples, size, cfg.Padding.X, cfg.Padding.Y)
	if cp.Empty() {
		err = fmt.Errorf("%w: nothing to render", curve.ErrNoSamples)

		return
	}

	selected := -1
	if index != nil {
		selected = clampIndex(*index, len(samples))
	}

	series := gridlineSeries(cfg, samples, selected)

	pts := cp.Path.Flatten(flattenSteps)

	xs := make([]float64, 0, len(pts))
	ys := make([]float64, 0, len(pts))

	for _, pt := range pts {
		xs = append(xs, pt.X)
		ys = append(ys, size.Height-pt.Y)
	}

	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}

	series = append(series,
		chart.ContinuousSeries{Name: "curve", XValues: xs, YValues: ys, Style: lineStyle(chart.ColorBlue, 2)})

	if selected >= 0 {
		series = append(series, indicatorSeries(cfg, samples, selected))
	}

	ch = chart.Chart{
		Width:      int(size.Width),
		Height:     int(size.Height),
		Background: chart.Style{Padding: chart.Box{Top: 4, Left: 4, Right: 4, Bottom: 4}},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: size.Width}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: size.Height}},
		Series:     series,
	}

	return
}

func clampIndex(index, n int) int {
	if index > n-1 {
		index = n - 1
	}

	if index < 0 {
		index = 0
	}

	return index
}

func gridlineSeries(cfg *config.Config, samples []curve.Sample, selected int) []chart.Series {
	series := make([]chart.Series, 0, len(samples))

	for idx := range samples {
		pt, ok := curve.SamplePoint(samples, idx, cfg.Size, cfg.Padding.X, cfg.Padding.Y)
		if !ok {
			continue
		}

		style := lineStyle(gridlineColor, 1)
		if idx == selected {
			style = lineStyle(chart.ColorAlternateGray, 2)
		}

		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("gridline-%d", idx),
			XValues: []float64{pt.X, pt.X},
			YValues: []float64{cfg.Padding.Y, cfg.Size.Height - cfg.Padding.Y},
			Style:   style,
		})
	}

	return series
}

func indicatorSeries(cfg *config.Config, samples []curve.Sample, index int) chart.Series {
	size := cfg.Size
	x := curve.GridWidth(size.Width, cfg.Padding.X, len(samples)) * float64(index)
	y := curve.YForX(x+cfg.Padding.X, samples, size, cfg.Padding.X, cfg.Padding.Y)
	pt := overlay.IndicatorPoint(x, y, cfg.Padding.X)

	return chart.ContinuousSeries{
		Name:    "indicator",
		XValues: []float64{pt.X, pt.X},
		YValues: []float64{size.Height - pt.Y, size.Height - pt.Y},
		Style:   dotStyle(chart.ColorRed),
	}
}
