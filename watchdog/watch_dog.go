package watchdog

import (
	"context"
	"sync"
	"time"

	"github.com/sgostarter/i/l"
)

type INotify interface {
	NotifyTimeout(name string)
}

type NotifyFunc func(name string)

func (fn NotifyFunc) NotifyTimeout(name string) {
	fn(name)
}

// WatchDog fires when it is armed (Start) and not touched for longer than CheckMaxDuration.
type WatchDog interface {
	Touch()

	Start()
	Stop()
	Started() bool

	Close()
}

type Config struct {
	Name string `yaml:"name"`

	CheckInterval time.Duration `yaml:"check_interval"`

	CheckMaxDuration time.Duration `yaml:"check_max_duration"`
	CheckFailCount   int           `yaml:"check_fail_count"`
}

func (cfg *Config) Fix() {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Second
	}

	if cfg.CheckMaxDuration <= 0 {
		cfg.CheckMaxDuration = time.Second * 2
	}

	if cfg.CheckFailCount <= 0 {
		cfg.CheckFailCount = 1
	}
}

func NewWatchDog(cfg Config, notify INotify, logger l.Wrapper) WatchDog {
	if notify == nil {
		return NewFakeWatchDog()
	}

	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	ctx, cancel := context.WithCancel(context.Background())

	impl := &watchDogImpl{
		cfg:         cfg,
		notify:      notify,
		logger:      logger.WithFields(l.StringField(l.ClsKey, "watchDogImpl"), l.StringField("name", cfg.Name)),
		ctx:         ctx,
		ctxCancel:   cancel,
		lastTouchAt: time.Now(),
	}

	impl.init()

	return impl
}

type watchDogImpl struct {
	cfg    Config
	notify INotify
	logger l.Wrapper

	ctx       context.Context
	ctxCancel context.CancelFunc
	wg        sync.WaitGroup

	lock        sync.Mutex
	started     bool
	failCount   int
	lastTouchAt time.Time
}

func (impl *watchDogImpl) Touch() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.lastTouchAt = time.Now()
}

func (impl *watchDogImpl) Start() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if impl.started {
		return
	}

	impl.started = true
	impl.lastTouchAt = time.Now()
	impl.failCount = 0
}

func (impl *watchDogImpl) Stop() {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	impl.started = false
}

func (impl *watchDogImpl) Started() bool {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	return impl.started
}

func (impl *watchDogImpl) Close() {
	impl.ctxCancel()
	impl.wg.Wait()
}

func (impl *watchDogImpl) init() {
	impl.cfg.Fix()

	impl.wg.Add(1)

	go impl.mainRoutine()
}

// check reports whether a notification is due.
func (impl *watchDogImpl) check() bool {
	impl.lock.Lock()
	defer impl.lock.Unlock()

	if !impl.started {
		impl.failCount = 0

		return false
	}

	if time.Since(impl.lastTouchAt) < impl.cfg.CheckMaxDuration {
		impl.failCount = 0

		return false
	}

	impl.failCount++

	if impl.failCount < impl.cfg.CheckFailCount {
		return false
	}

	impl.failCount = 0
	impl.lastTouchAt = time.Now()

	return true
}

func (impl *watchDogImpl) mainRoutine() {
	defer impl.wg.Done()

	ticker := time.NewTicker(impl.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-impl.ctx.Done():
			return
		case <-ticker.C:
			if impl.check() {
				impl.logger.Warn("watch dog timeout")
				impl.notify.NotifyTimeout(impl.cfg.Name)
			}
		}
	}
}
