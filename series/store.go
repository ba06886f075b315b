package series

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/i/stg"
	"github.com/sgostarter/libchart/curve"
	"github.com/sgostarter/libeasygo/stg/fs/rawfs"
	"github.com/sgostarter/libeasygo/stg/mwf"
)

// Store keeps named sample series in one json file.
type Store interface {
	curve.Storage

	Keys() []string
	Append(key string, value float64, label string) (index int, err error)
	Delete(key string) error
}

func NewStore(file string, storage stg.FileStorage, logger l.Wrapper) Store {
	if storage == nil {
		storage = rawfs.NewFSStorage("")
	}

	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &storeImpl{
		logger: logger.WithFields(l.StringField(l.ClsKey, "storeImpl"), l.StringField("file", file)),
		d: mwf.NewMemWithFile[map[string][]curve.Sample, mwf.Serial, mwf.Lock](
			make(map[string][]curve.Sample), &mwf.JSONSerial{}, &sync.RWMutex{}, file, storage),
	}
}

type storeImpl struct {
	logger l.Wrapper
	d      *mwf.MemWithFile[map[string][]curve.Sample, mwf.Serial, mwf.Lock]
}

func (impl *storeImpl) Load(key string) (samples []curve.Sample, err error) {
	impl.d.Read(func(m map[string][]curve.Sample) {
		ss, ok := m[key]
		if !ok {
			err = fmt.Errorf("%w: series %s", commerr.ErrNotFound, key)

			return
		}

		samples = make([]curve.Sample, len(ss))
		copy(samples, ss)
	})

	return
}

func (impl *storeImpl) Save(key string, samples []curve.Sample) error {
	if key == "" {
		return commerr.ErrInvalidArgument
	}

	if len(samples) == 0 {
		return curve.ErrNoSamples
	}

	samples = curve.NormalizeSamples(samples)

	err := impl.d.Change(func(oldM map[string][]curve.Sample) (newM map[string][]curve.Sample, err error) {
		newM = oldM
		if newM == nil {
			newM = make(map[string][]curve.Sample)
		}

		newM[key] = samples

		return
	})
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("key", key)).Error("save failed")

		return err
	}

	impl.logger.WithFields(l.StringField("key", key), l.IntField("samples", len(samples))).Debug("saved")

	return nil
}

func (impl *storeImpl) Keys() (keys []string) {
	impl.d.Read(func(m map[string][]curve.Sample) {
		keys = make([]string, 0, len(m))

		for key := range m {
			keys = append(keys, key)
		}
	})

	sort.Strings(keys)

	return
}

func (impl *storeImpl) Append(key string, value float64, label string) (index int, err error) {
	if key == "" {
		err = commerr.ErrInvalidArgument

		return
	}

	err = impl.d.Change(func(oldM map[string][]curve.Sample) (newM map[string][]curve.Sample, err error) {
		newM = oldM
		if newM == nil {
			newM = make(map[string][]curve.Sample)
		}

		ss := newM[key]
		index = len(ss)

		newM[key] = append(ss, curve.Sample{
			Index: index,
			Value: value,
			Label: label,
		})

		return
	})

	return
}

func (impl *storeImpl) Delete(key string) error {
	return impl.d.Change(func(oldM map[string][]curve.Sample) (newM map[string][]curve.Sample, err error) {
		newM = oldM

		if _, ok := newM[key]; !ok {
			err = fmt.Errorf("%w: series %s", commerr.ErrNotFound, key)

			return
		}

		delete(newM, key)

		return
	})
}
