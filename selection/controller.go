package selection

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/anim"
	"github.com/sgostarter/libchart/bridge"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/scale"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/spf13/cast"
	"go.uber.org/atomic"
)

type indexCell struct {
	index   float64
	nearest int
	valid   bool
}

// Controller turns pointer input into a selection x and snaps it onto sample columns.
//
// Gesture methods and Frame form the animation context: they only clamp, assign and step
// eased transitions. Every change of x is handed to a control routine through a bridge,
// which computes the selection y with curve.YForX and publishes it for readers.
type Controller struct {
	logger l.Wrapper
	cfg    Config
	opts   *Options

	lock      sync.Mutex
	x         anim.Value
	phase     Phase
	chart     Chart
	gridWidth float64
	lastIndex int

	chartDirty      bool
	dispatchedX     float64
	dispatchedValid bool

	chartSnapshot atomic.Pointer[Chart]
	published     atomic.Pointer[indexCell]
	bridge        *bridge.Bridge

	loopLock   sync.Mutex
	routineMan routineman.RoutineMan
}

func NewController(cfg Config, logger l.Wrapper, options ...Option) *Controller {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "Controller"))

	cfg.Fix()

	opts := optionNew(options...)
	if opts.clock == nil {
		opts.clock = time.Now
	}

	if opts.animator == nil {
		opts.animator = cfg.Animator()
	}

	c := &Controller{
		logger:    logger,
		cfg:       cfg,
		opts:      opts,
		lastIndex: -1,
	}

	c.chartSnapshot.Store(&Chart{})
	c.published.Store(&indexCell{})

	c.bridge = bridge.NewBridge(c.selectionY, cfg.Bridge, logger)

	return c
}

// selectionY runs on the control routine. An unmeasured or empty chart has no y.
func (c *Controller) selectionY(x float64) (float64, bool) {
	chart := c.chartSnapshot.Load()
	if !chart.Size.Measured() || len(chart.Samples) == 0 {
		return 0, false
	}

	return curve.YForX(x+chart.XPadding, chart.Samples, chart.Size, chart.XPadding, chart.YPadding), true
}

// SetChart replaces samples and layout. A running selection keeps its x; the derived
// index is recomputed from it and may move to another sample.
func (c *Controller) SetChart(chart Chart) {
	samples := make([]curve.Sample, len(chart.Samples))
	copy(samples, chart.Samples)
	chart.Samples = samples

	c.lock.Lock()
	c.chart = chart
	c.gridWidth = chart.GridWidth()
	c.chartSnapshot.Store(&chart)
	c.chartDirty = true
	notify := c.changedOnLock()
	c.lock.Unlock()

	c.logger.WithFields(l.IntField("samples", len(chart.Samples)),
		l.StringField("gridWidth", cast.ToString(c.GridWidth()))).Debug("chart changed")

	c.fire(notify, nil)
}

// SetSize is SetChart for layout passes that keep the samples.
func (c *Controller) SetSize(size curve.Size) {
	c.lock.Lock()
	chart := c.chart
	c.lock.Unlock()

	chart.Size = size

	c.SetChart(chart)
}

func (c *Controller) GridWidth() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.gridWidth
}

func (c *Controller) OnGestureStart(pointerX float64) {
	c.lock.Lock()
	c.x.Set(c.clampPointerOnLock(pointerX))
	c.phase = PhaseDragging
	notify := c.changedOnLock()
	c.lock.Unlock()

	c.fire(notify, nil)
}

func (c *Controller) OnGestureUpdate(pointerX float64) {
	c.OnGestureStart(pointerX)
}

// OnGestureEnd snaps the selection onto the nearest sample column.
func (c *Controller) OnGestureEnd(pointerX float64) {
	now := c.opts.clock()

	c.lock.Lock()
	c.x.Set(c.clampPointerOnLock(pointerX))

	x, _ := c.x.Get()
	index := c.nearestIndexOnLock(x)

	c.snapOnLock(index, now)
	notify := c.changedOnLock()
	c.lock.Unlock()

	c.logger.WithFields(l.IntField("index", index), l.StringField("x", cast.ToString(x))).Debug("gesture end")

	c.fire(notify, nil)
}

// Select animates the selection onto the column of index.
func (c *Controller) Select(index int) {
	now := c.opts.clock()

	c.lock.Lock()
	index = c.clampIndexOnLock(index)
	c.snapOnLock(index, now)
	notify := c.changedOnLock()
	c.lock.Unlock()

	c.fire(notify, nil)
}

// SelectIndex selects index, or clears the selection when index is nil.
func (c *Controller) SelectIndex(index *int) {
	if index == nil {
		c.Reset()

		return
	}

	c.Select(*index)
}

// Reset clears the selection and preempts any running snap.
func (c *Controller) Reset() {
	c.lock.Lock()
	c.x.Clear()
	c.phase = PhaseIdle
	notify := c.changedOnLock()
	c.lock.Unlock()

	c.fire(notify, nil)
}

// Frame advances running animations to now. It is driven by the frame loop or by the host.
func (c *Controller) Frame(now time.Time) {
	var snapped *int

	c.lock.Lock()

	c.x.Tick(now)

	if c.phase == PhaseSnapping && !c.x.Animating() {
		c.phase = PhaseSettled

		x, _ := c.x.Get()
		index := c.nearestIndexOnLock(x)
		snapped = &index
	}

	notify := c.changedOnLock()
	c.lock.Unlock()

	c.fire(notify, snapped)
}

func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	x, valid := c.x.Get()
	si, siOK := c.selectedIndexOnLock()

	return State{
		X:                  x,
		Valid:              valid,
		Phase:              c.phase,
		GridWidth:          c.gridWidth,
		SelectedIndex:      si,
		SelectedIndexValid: siOK,
	}
}

// SelectedIndex is the fractional x / gridWidth, readable from any goroutine.
func (c *Controller) SelectedIndex() (float64, bool) {
	cell := c.published.Load()

	return cell.index, cell.valid
}

// NearestIndex is the sample closest to the selection, always within [0, N-1].
func (c *Controller) NearestIndex() (int, bool) {
	cell := c.published.Load()
	if !cell.valid {
		return 0, false
	}

	return cell.nearest, true
}

// SelectionY is the last pixel y computed by the control routine. It may lag x by one tick.
func (c *Controller) SelectionY() (float64, bool) {
	r, ok := c.bridge.Latest()

	return r.Out, ok
}

// Flush waits for the control routine to catch up with the latest x.
func (c *Controller) Flush(ctx context.Context) error {
	return c.bridge.Flush(ctx)
}

// Start runs the frame loop at the configured FPS until Stop.
func (c *Controller) Start() {
	c.loopLock.Lock()
	defer c.loopLock.Unlock()

	if c.routineMan != nil {
		return
	}

	c.routineMan = routineman.NewRoutineMan(context.Background(), c.logger)
	c.routineMan.StartRoutine(c.frameRoutine, "frameRoutine")
}

func (c *Controller) Stop() {
	c.loopLock.Lock()
	rm := c.routineMan
	c.routineMan = nil
	c.loopLock.Unlock()

	if rm == nil {
		return
	}

	rm.TriggerStop()
	rm.Wait()
}

// Close stops the frame loop and the control routine.
func (c *Controller) Close() {
	c.Stop()
	c.bridge.Stop()
}

func (c *Controller) frameRoutine(ctx context.Context, _ func() bool) {
	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Frame(c.opts.clock())
		}
	}
}

func (c *Controller) clampPointerOnLock(pointerX float64) float64 {
	return scale.Clamp(pointerX-c.cfg.HorizontalInset, 0, c.chart.Size.Width)
}

func (c *Controller) clampIndexOnLock(index int) int {
	if index > len(c.chart.Samples)-1 {
		index = len(c.chart.Samples) - 1
	}

	if index < 0 {
		index = 0
	}

	return index
}

func (c *Controller) nearestIndexOnLock(x float64) int {
	if c.gridWidth <= 0 {
		return 0
	}

	return c.clampIndexOnLock(int(math.Round(x / c.gridWidth)))
}

func (c *Controller) snapOnLock(index int, now time.Time) {
	target := c.gridWidth * float64(index)

	from := target
	if x, ok := c.x.Get(); ok {
		from = x
	}

	c.x.Animate(c.opts.animator.To(from, target, now), now, nil)
	c.phase = PhaseSnapping
}

func (c *Controller) selectedIndexOnLock() (float64, bool) {
	x, ok := c.x.Get()
	if !ok || c.gridWidth <= 0 {
		return 0, false
	}

	return x / c.gridWidth, true
}

type indexNotify struct {
	index int
	ok    bool
}

// changedOnLock publishes the derived index and hands x to the control routine.
// It returns the rounded-index change that listeners should hear about, if any.
func (c *Controller) changedOnLock() *indexNotify {
	si, ok := c.selectedIndexOnLock()

	rounded := -1
	if ok {
		rounded = c.clampIndexOnLock(int(math.Round(si)))
	}

	cur := c.published.Load()
	if cur.valid != ok || cur.index != si || cur.nearest != rounded {
		c.published.Store(&indexCell{index: si, nearest: rounded, valid: ok})
	}

	x, valid := c.x.Get()

	switch {
	case valid && (c.chartDirty || !c.dispatchedValid || c.dispatchedX != x):
		c.bridge.Dispatch(x)

		c.dispatchedX, c.dispatchedValid = x, true
	case !valid && (c.chartDirty || c.dispatchedValid):
		c.bridge.Clear()

		c.dispatchedValid = false
	}

	c.chartDirty = false

	if rounded == c.lastIndex {
		return nil
	}

	c.lastIndex = rounded

	return &indexNotify{index: rounded, ok: ok}
}

func (c *Controller) fire(notify *indexNotify, snapped *int) {
	if notify != nil {
		for _, listener := range c.opts.indexListener {
			if notify.ok {
				listener(notify.index, true)
			} else {
				listener(0, false)
			}
		}
	}

	if snapped != nil {
		for _, handler := range c.opts.onSnapped {
			handler(*snapped)
		}
	}
}
