package main

import (
	"context"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/config"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libchart/selection"
)

const maxSimulateFrames = 100000

type simulateResult struct {
	Index      int
	IndexValid bool
	X          float64
	Y          float64
	YValid     bool
	Frames     int
}

// simulate replays a drag from one pointer x to another on a stepped clock and waits for the snap.
func simulate(ctx context.Context, cfg *config.Config, samples []curve.Sample, from, drag float64,
	logger l.Wrapper) (r simulateResult, err error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	now := time.Unix(0, 0)

	c := selection.NewController(cfg.Selection, logger,
		selection.ClockOption(func() time.Time {
			return now
		}),
		selection.SnapCompleteOption(func(index int) {
			logger.WithFields(l.IntField("index", index)).Info("snapped")
		}),
	)
	defer c.Close()

	c.SetChart(cfg.Chart(samples))

	c.OnGestureStart(from)
	c.OnGestureUpdate(drag)
	c.OnGestureEnd(drag)

	step := time.Second / time.Duration(cfg.Selection.FPS)

	for r.Frames < maxSimulateFrames && c.State().Phase == selection.PhaseSnapping {
		now = now.Add(step)
		c.Frame(now)

		r.Frames++
	}

	if err = c.Flush(ctx); err != nil {
		return
	}

	r.X = c.State().X
	r.Index, r.IndexValid = c.NearestIndex()
	r.Y, r.YValid = c.SelectionY()

	return
}
