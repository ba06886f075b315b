package selection

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sgostarter/libchart/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utClock struct {
	lock sync.Mutex
	now  time.Time
}

func newUTClock() *utClock {
	return &utClock{
		now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (clk *utClock) Now() time.Time {
	clk.lock.Lock()
	defer clk.lock.Unlock()

	return clk.now
}

func (clk *utClock) Advance(d time.Duration) time.Time {
	clk.lock.Lock()
	defer clk.lock.Unlock()

	clk.now = clk.now.Add(d)

	return clk.now
}

func utSamples(vs ...float64) []curve.Sample {
	samples := make([]curve.Sample, len(vs))
	for idx, v := range vs {
		samples[idx] = curve.Sample{Index: idx, Value: v}
	}

	return samples
}

func utController(t *testing.T, chart Chart, options ...Option) (*Controller, *utClock) {
	clk := newUTClock()

	c := NewController(Config{}, nil, append([]Option{ClockOption(clk.Now)}, options...)...)
	c.SetChart(chart)

	t.Cleanup(c.Close)

	return c, clk
}

func utFlush(t *testing.T, c *Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.Nil(t, c.Flush(ctx))
}

func TestSnapToNearestColumn(t *testing.T) {
	var snapped []int

	c, clk := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	}, SnapCompleteOption(func(index int) {
		snapped = append(snapped, index)
	}))

	assert.EqualValues(t, 40, c.GridWidth())

	c.OnGestureStart(97)
	c.OnGestureEnd(97)

	st := c.State()
	assert.Equal(t, PhaseSnapping, st.Phase)
	assert.EqualValues(t, 97, st.X)

	c.Frame(clk.Advance(150 * time.Millisecond))

	st = c.State()
	assert.True(t, st.X < 97 && st.X > 80)
	assert.Empty(t, snapped)

	c.Frame(clk.Advance(150 * time.Millisecond))

	st = c.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.EqualValues(t, 80, st.X)

	si, ok := c.SelectedIndex()
	assert.True(t, ok)
	assert.EqualValues(t, 2, si)
	assert.Equal(t, []int{2}, snapped)

	c.Frame(clk.Advance(time.Second))
	assert.Equal(t, []int{2}, snapped)
}

func TestGestureClamps(t *testing.T) {
	c, _ := utController(t, Chart{
		Samples: utSamples(1, 2, 3),
		Size:    curve.Size{Width: 300, Height: 100},
	})

	c.OnGestureStart(120)
	assert.EqualValues(t, 120, c.State().X)

	c.OnGestureUpdate(-50)
	assert.EqualValues(t, 0, c.State().X)

	c.OnGestureUpdate(400)
	assert.EqualValues(t, 300, c.State().X)
	assert.True(t, c.State().Dragging())
}

func TestGestureHorizontalInset(t *testing.T) {
	clk := newUTClock()

	c := NewController(Config{HorizontalInset: 16}, nil, ClockOption(clk.Now))
	defer c.Close()

	c.SetChart(Chart{
		Samples: utSamples(1, 2, 3),
		Size:    curve.Size{Width: 300, Height: 100},
	})

	c.OnGestureStart(116)
	assert.EqualValues(t, 100, c.State().X)

	c.OnGestureUpdate(10)
	assert.EqualValues(t, 0, c.State().X)
}

func TestEndToEnd(t *testing.T) {
	samples := []curve.Sample{{Index: 0, Value: 10}, {Index: 1, Value: 20}, {Index: 2, Value: 15}, {Index: 3, Value: 30}}
	size := curve.Size{Width: 300, Height: 100}

	c, clk := utController(t, Chart{
		Samples:  samples,
		Size:     size,
		XPadding: 3,
		YPadding: 3,
	})

	assert.EqualValues(t, 98, c.GridWidth())

	c.OnGestureStart(40)
	c.OnGestureUpdate(150)
	c.OnGestureEnd(150)

	c.Frame(clk.Advance(300 * time.Millisecond))

	st := c.State()
	assert.EqualValues(t, 196, st.X)

	si, ok := c.SelectedIndex()
	assert.True(t, ok)
	assert.EqualValues(t, 2, si)

	index, ok := c.NearestIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	utFlush(t, c)

	y, ok := c.SelectionY()
	assert.True(t, ok)
	assert.InDelta(t, curve.YForX(199, samples, size, 3, 3), y, 1e-9)
}

func TestResetClearsSelection(t *testing.T) {
	var events []int

	c, clk := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4),
		Size:    curve.Size{Width: 300, Height: 100},
	}, IndexListenerOption(func(index int, ok bool) {
		if !ok {
			index = -1
		}

		events = append(events, index)
	}))

	c.Select(3)
	c.Frame(clk.Advance(300 * time.Millisecond))

	si, ok := c.SelectedIndex()
	assert.True(t, ok)
	assert.EqualValues(t, 3, si)

	utFlush(t, c)

	_, ok = c.SelectionY()
	assert.True(t, ok)

	c.SelectIndex(nil)

	_, ok = c.SelectedIndex()
	assert.False(t, ok)
	assert.False(t, c.State().Valid)
	assert.Equal(t, PhaseIdle, c.State().Phase)

	utFlush(t, c)

	_, ok = c.SelectionY()
	assert.False(t, ok)

	assert.Equal(t, []int{3, -1}, events)
}

func TestResetPreemptsSnap(t *testing.T) {
	c, clk := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	})

	c.OnGestureEnd(97)
	c.Reset()
	c.Frame(clk.Advance(time.Second))

	assert.False(t, c.State().Valid)

	_, ok := c.SelectedIndex()
	assert.False(t, ok)
}

func TestGestureStartPreemptsSnap(t *testing.T) {
	c, clk := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	})

	c.OnGestureEnd(97)
	c.Frame(clk.Advance(100 * time.Millisecond))

	c.OnGestureStart(10)
	c.Frame(clk.Advance(time.Second))

	st := c.State()
	assert.EqualValues(t, 10, st.X)
	assert.Equal(t, PhaseDragging, st.Phase)
}

func TestSelectAnimates(t *testing.T) {
	c, clk := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	})

	c.Select(1)
	assert.EqualValues(t, 40, c.State().X)

	c.Select(4)
	c.Frame(clk.Advance(100 * time.Millisecond))

	x := c.State().X
	assert.True(t, x > 40 && x < 160)

	c.Frame(clk.Advance(200 * time.Millisecond))
	assert.EqualValues(t, 160, c.State().X)

	c.Select(99)
	c.Frame(clk.Advance(300 * time.Millisecond))
	assert.EqualValues(t, 160, c.State().X)

	c.Select(-3)
	c.Frame(clk.Advance(300 * time.Millisecond))
	assert.EqualValues(t, 0, c.State().X)
}

func TestResizeKeepsX(t *testing.T) {
	c, clk := utController(t, Chart{
		Samples:  utSamples(10, 20, 15, 30),
		Size:     curve.Size{Width: 300, Height: 100},
		XPadding: 3,
	})

	c.Select(2)
	c.Frame(clk.Advance(300 * time.Millisecond))
	assert.EqualValues(t, 196, c.State().X)

	c.SetSize(curve.Size{Width: 200, Height: 100})

	st := c.State()
	assert.EqualValues(t, 196, st.X)
	assert.InDelta(t, 194.0/3, st.GridWidth, 1e-9)

	si, ok := c.SelectedIndex()
	assert.True(t, ok)
	assert.InDelta(t, 196/(194.0/3), si, 1e-9)

	index, _ := c.NearestIndex()
	assert.Equal(t, 3, index)
}

func TestSingleSampleHasNoIndex(t *testing.T) {
	c, clk := utController(t, Chart{
		Samples: utSamples(5),
		Size:    curve.Size{Width: 300, Height: 100},
	})

	assert.EqualValues(t, 0, c.GridWidth())

	c.OnGestureStart(120)

	_, ok := c.SelectedIndex()
	assert.False(t, ok)

	c.OnGestureEnd(120)
	c.Frame(clk.Advance(300 * time.Millisecond))

	st := c.State()
	assert.True(t, st.Valid)
	assert.EqualValues(t, 0, st.X)
	assert.False(t, st.SelectedIndexValid)
}

func TestUnmeasuredChart(t *testing.T) {
	c, _ := utController(t, Chart{
		Samples: utSamples(1, 2, 3),
	})

	c.OnGestureStart(50)
	assert.EqualValues(t, 0, c.State().X)

	_, ok := c.SelectedIndex()
	assert.False(t, ok)

	utFlush(t, c)

	_, ok = c.SelectionY()
	assert.False(t, ok)

	c.SetSize(curve.Size{Width: 300, Height: 100})
	c.OnGestureStart(50)
	utFlush(t, c)

	_, ok = c.SelectionY()
	assert.True(t, ok)
}

func TestNearestIndexStaysOnSamples(t *testing.T) {
	var events []int

	c, _ := utController(t, Chart{
		Samples:  utSamples(10, 20, 15, 30),
		Size:     curve.Size{Width: 300, Height: 100},
		XPadding: 24,
	}, IndexListenerOption(func(index int, ok bool) {
		if ok {
			events = append(events, index)
		}
	}))

	assert.EqualValues(t, 84, c.GridWidth())

	c.OnGestureStart(300)

	si, ok := c.SelectedIndex()
	assert.True(t, ok)
	assert.InDelta(t, 300.0/84, si, 1e-9)

	index, ok := c.NearestIndex()
	assert.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, []int{3}, events)

	c.OnGestureUpdate(0)

	index, ok = c.NearestIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, index)
	assert.Equal(t, []int{3, 0}, events)

	c.Reset()

	_, ok = c.NearestIndex()
	assert.False(t, ok)
}

func TestIndexListenerOnDrag(t *testing.T) {
	var events []int

	c, _ := utController(t, Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	}, IndexListenerOption(func(index int, ok bool) {
		if ok {
			events = append(events, index)
		}
	}))

	for x := 0.0; x <= 160; x += 5 {
		c.OnGestureUpdate(x)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, events)
}

func TestSelectionYFollowsDrag(t *testing.T) {
	samples := utSamples(1, 2, 4, 8, 9)
	size := curve.Size{Width: 300, Height: 100}

	c, _ := utController(t, Chart{
		Samples:  samples,
		Size:     size,
		XPadding: 3,
		YPadding: 3,
	})

	for x := 0.0; x <= 300; x += 3 {
		c.OnGestureUpdate(x)
	}

	c.OnGestureUpdate(100)
	utFlush(t, c)

	y, ok := c.SelectionY()
	assert.True(t, ok)
	assert.InDelta(t, curve.YForX(103, samples, size, 3, 3), y, 1e-9)
}

func TestSpringSnap(t *testing.T) {
	clk := newUTClock()

	c := NewController(Config{SnapMode: "Spring", Spring: SpringConfig{AngularFrequency: 12, DampingRatio: 1}},
		nil, ClockOption(clk.Now))
	defer c.Close()

	c.SetChart(Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	})

	c.OnGestureEnd(97)

	for i := 0; i < 600 && c.State().Phase == PhaseSnapping; i++ {
		c.Frame(clk.Advance(16 * time.Millisecond))
	}

	st := c.State()
	assert.Equal(t, PhaseSettled, st.Phase)
	assert.EqualValues(t, 80, st.X)
}

func TestFrameLoop(t *testing.T) {
	c := NewController(Config{FPS: 120}, nil)
	defer c.Close()

	c.SetChart(Chart{
		Samples: utSamples(1, 2, 3, 4, 5),
		Size:    curve.Size{Width: 160, Height: 100},
	})

	c.Start()
	c.Start()

	c.OnGestureEnd(97)

	assert.Eventually(t, func() bool {
		return c.State().Phase == PhaseSettled
	}, time.Second*3, time.Millisecond*10)

	assert.EqualValues(t, 80, c.State().X)

	c.Stop()
	c.Stop()
}
