package overlay

import (
	"testing"
	"time"

	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/selection"
	"github.com/stretchr/testify/assert"
)

var utEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func utChart(n int) selection.Chart {
	samples := make([]curve.Sample, n)
	for idx := range samples {
		samples[idx] = curve.Sample{Index: idx, Value: float64(10 * (idx + 1)), Label: string(rune('a' + idx))}
	}

	return selection.Chart{
		Samples:  samples,
		Size:     curve.Size{Width: 300, Height: 100},
		XPadding: 3,
		YPadding: 3,
	}
}

func utDragState(x, gridWidth float64) selection.State {
	return selection.State{
		X:                  x,
		Valid:              true,
		Phase:              selection.PhaseDragging,
		GridWidth:          gridWidth,
		SelectedIndex:      x / gridWidth,
		SelectedIndexValid: true,
	}
}

func TestLabelOffset(t *testing.T) {
	assert.EqualValues(t, 0, LabelOffset(0, 16, 60, 0, 300))
	assert.EqualValues(t, 136, LabelOffset(150, 16, 60, 0, 300))
	assert.EqualValues(t, 256, LabelOffset(300, 16, 60, 0, 300))
	assert.EqualValues(t, 8, LabelOffset(0, 16, 60, 8, 300))
	assert.EqualValues(t, 264, LabelOffset(300, 16, 60, 8, 300))
}

func TestHighlightedIndex(t *testing.T) {
	st := utDragState(97, 40)

	index, ok := HighlightedIndex(st, 5)
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	st.Phase = selection.PhaseSettled
	_, ok = HighlightedIndex(st, 5)
	assert.False(t, ok)

	index, ok = HighlightedIndex(utDragState(97, 40), 2)
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	_, ok = HighlightedIndex(selection.State{Phase: selection.PhaseDragging}, 5)
	assert.False(t, ok)
}

func TestIndicatorFades(t *testing.T) {
	r := NewRenderer(Config{}, nil)
	chart := utChart(4)

	in := Input{
		State:           utDragState(98, 98),
		Chart:           chart,
		SelectionY:      40,
		SelectionYValid: true,
	}

	scene := r.Frame(utEpoch, in)
	assert.EqualValues(t, 0, scene.Indicator.Opacity)
	assert.EqualValues(t, 101, scene.Indicator.X)
	assert.EqualValues(t, 40, scene.Indicator.Y)

	scene = r.Frame(utEpoch.Add(150*time.Millisecond), in)
	assert.InDelta(t, 0.5, scene.Indicator.Opacity, 1e-9)

	scene = r.Frame(utEpoch.Add(300*time.Millisecond), in)
	assert.EqualValues(t, 1, scene.Indicator.Opacity)
	assert.EqualValues(t, 1, scene.Label.Opacity)

	in.State = selection.State{}
	in.SelectionYValid = false

	scene = r.Frame(utEpoch.Add(400*time.Millisecond), in)
	assert.EqualValues(t, 1, scene.Indicator.Opacity)

	scene = r.Frame(utEpoch.Add(700*time.Millisecond), in)
	assert.EqualValues(t, 0, scene.Indicator.Opacity)
	assert.EqualValues(t, 0, scene.Label.Opacity)
}

func TestSingleHighlight(t *testing.T) {
	r := NewRenderer(Config{}, nil)
	chart := utChart(4)

	now := utEpoch

	for _, x := range []float64{98, 98, 196, 196, 196} {
		scene := r.Frame(now, Input{State: utDragState(x, 98), Chart: chart})

		full := 0

		for _, o := range scene.Highlights {
			if o == 1 {
				full++
			}
		}

		assert.True(t, full <= 1)

		now = now.Add(150 * time.Millisecond)
	}

	scene := r.Frame(now.Add(time.Second), Input{State: utDragState(196, 98), Chart: chart})
	assert.Equal(t, []float64{0, 0, 1, 0}, scene.Highlights)

	st := utDragState(196, 98)
	st.Phase = selection.PhaseSettled

	r.Frame(now.Add(2*time.Second), Input{State: st, Chart: chart})
	scene = r.Frame(now.Add(3*time.Second), Input{State: st, Chart: chart})
	assert.Equal(t, []float64{0, 0, 0, 0}, scene.Highlights)
}

func TestHighlightsFollowSampleCount(t *testing.T) {
	r := NewRenderer(Config{}, nil)

	scene := r.Frame(utEpoch, Input{State: utDragState(98, 98), Chart: utChart(4)})
	assert.Len(t, scene.Highlights, 4)

	scene = r.Frame(utEpoch, Input{State: utDragState(98, 58.8), Chart: utChart(6)})
	assert.Len(t, scene.Highlights, 6)

	scene = r.Frame(utEpoch, Input{Chart: utChart(2)})
	assert.Len(t, scene.Highlights, 2)
}

func TestLabelText(t *testing.T) {
	r := NewRenderer(Config{LabelInset: 16}, nil)
	chart := utChart(4)

	scene := r.Frame(utEpoch, Input{
		State:     utDragState(98, 98),
		Chart:     chart,
		TitleSize: curve.Size{Width: 40, Height: 12},
		SubtitleSize: curve.Size{
			Width:  60,
			Height: 10,
		},
	})

	assert.Equal(t, "b", scene.Label.Title)
	assert.Equal(t, "20", scene.Label.Subtitle)
	assert.EqualValues(t, 84, scene.Label.OffsetX)

	scene = r.Frame(utEpoch.Add(time.Millisecond), Input{Chart: chart})
	assert.Equal(t, "b", scene.Label.Title)

	scene = r.Frame(utEpoch.Add(2*time.Millisecond), Input{State: utDragState(300, 84), Chart: chart})
	assert.Equal(t, "d", scene.Label.Title)
	assert.Equal(t, "40", scene.Label.Subtitle)
}
