package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libchart/watchdog"
	"github.com/sgostarter/libeasygo/routineman"
	"go.uber.org/atomic"
)

// Compute maps an input to an output; ok is false when no output exists for in.
type Compute func(in float64) (out float64, ok bool)

type Result struct {
	Seq   uint64
	In    float64
	Out   float64
	Valid bool
}

type Config struct {
	WatchDog        watchdog.Config `yaml:"watch_dog"`
	WatchDogEnabled bool            `yaml:"watch_dog_enabled"`
}

type request struct {
	seq   uint64
	in    float64
	clear bool
}

// Bridge hands values from a real-time producer to a control routine that runs Compute.
//
// Dispatch never blocks: the mailbox holds one request and a newer request replaces an
// unserved one. The result cell is eventually consistent with the latest dispatch.
type Bridge struct {
	logger  l.Wrapper
	compute Compute

	opts *Options

	routineMan routineman.RoutineMan
	watchDog   watchdog.WatchDog
	armLock    sync.Mutex

	slot   chan request
	seq    atomic.Uint64
	result atomic.Pointer[Result]

	dropped atomic.Uint64
}

func NewBridge(compute Compute, cfg Config, logger l.Wrapper, options ...Option) *Bridge {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "Bridge"))

	if compute == nil {
		logger.Fatal("no compute")
	}

	b := &Bridge{
		logger:     logger,
		compute:    compute,
		opts:       optionNew(options...),
		routineMan: routineman.NewRoutineMan(context.Background(), logger),
		slot:       make(chan request, 1),
	}

	if cfg.WatchDogEnabled {
		if cfg.WatchDog.Name == "" {
			cfg.WatchDog.Name = "control"
		}

		b.watchDog = watchdog.NewWatchDog(cfg.WatchDog, watchdog.NotifyFunc(b.onStall), logger)
	} else {
		b.watchDog = watchdog.NewFakeWatchDog()
	}

	b.result.Store(&Result{})

	b.routineMan.StartRoutine(b.controlRoutine, "controlRoutine")

	return b
}

// Dispatch queues in for the control routine and returns immediately.
func (b *Bridge) Dispatch(in float64) {
	b.offer(request{
		seq: b.seq.Inc(),
		in:  in,
	})
}

// Clear queues an invalidation of the result cell, ordered with earlier dispatches.
func (b *Bridge) Clear() {
	b.offer(request{
		seq:   b.seq.Inc(),
		clear: true,
	})
}

func (b *Bridge) Latest() (Result, bool) {
	r := b.result.Load()

	return *r, r.Valid
}

// Pending reports whether the result cell lags the latest dispatch.
func (b *Bridge) Pending() bool {
	return b.result.Load().Seq < b.seq.Load()
}

func (b *Bridge) Dropped() uint64 {
	return b.dropped.Load()
}

// Flush waits until the result cell reflects every dispatch issued before the call.
func (b *Bridge) Flush(ctx context.Context) error {
	want := b.seq.Load()

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for b.result.Load().Seq < want {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

func (b *Bridge) TriggerStop() {
	b.routineMan.TriggerStop()
}

func (b *Bridge) Wait() {
	b.routineMan.Wait()
	b.watchDog.Close()
}

func (b *Bridge) Stop() {
	b.TriggerStop()
	b.Wait()
}

func (b *Bridge) offer(req request) {
	b.armLock.Lock()
	b.watchDog.Start()
	b.armLock.Unlock()

	for {
		select {
		case b.slot <- req:
			return
		default:
		}

		select {
		case <-b.slot:
			b.dropped.Inc()
		default:
		}
	}
}

func (b *Bridge) controlRoutine(ctx context.Context, _ func() bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-b.slot:
			b.serve(req)

			b.watchDog.Touch()
			b.disarmIfIdle()
		}
	}
}

// disarmIfIdle stops the watchdog once the result cell has caught up with every dispatch.
// seq is bumped before offer arms, so a dispatch racing with this check keeps it armed.
func (b *Bridge) disarmIfIdle() {
	b.armLock.Lock()
	defer b.armLock.Unlock()

	if b.result.Load().Seq == b.seq.Load() {
		b.watchDog.Stop()
	}
}

func (b *Bridge) serve(req request) {
	if req.clear {
		b.result.Store(&Result{Seq: req.seq})

		return
	}

	out, ok := b.compute(req.in)

	b.result.Store(&Result{
		Seq:   req.seq,
		In:    req.in,
		Out:   out,
		Valid: ok,
	})
}

func (b *Bridge) onStall(name string) {
	b.logger.WithFields(l.StringField("context", name), l.UInt64Field("dropped", b.dropped.Load())).
		Warn("control context is not keeping up, selection y lags")

	for _, fn := range b.opts.onStall {
		fn(name)
	}
}
