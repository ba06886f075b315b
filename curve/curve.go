package curve

import (
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
)

// Fitter memoizes Fit per (samples, size, paddings), so layout passes that do
// not change the inputs reuse the same immutable path.
type Fitter struct {
	logger l.Wrapper

	expiration  time.Duration
	cachedPaths *cache.Cache
}

func NewFitter(expiration time.Duration, logger l.Wrapper) *Fitter {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if expiration <= 0 {
		expiration = time.Minute
	}

	return &Fitter{
		logger:      logger.WithFields(l.StringField(l.ClsKey, "Fitter")),
		expiration:  expiration,
		cachedPaths: cache.New(expiration, expiration*2),
	}
}

func (impl *Fitter) Fit(samples []Sample, size Size, xPadding, yPadding float64) CurvePath {
	if !size.Measured() || len(samples) == 0 {
		return CurvePath{}
	}

	key := impl.genCachedKey(samples, size, xPadding, yPadding)

	if i, ok := impl.cachedPaths.Get(key); ok {
		if cp, ok := i.(CurvePath); ok {
			return cp
		}
	}

	cp := Fit(samples, size, xPadding, yPadding)

	impl.cachedPaths.Set(key, cp, impl.expiration)

	impl.logger.WithFields(l.IntField("samples", len(samples))).Debug("curve fitted")

	return cp
}

func (impl *Fitter) Flush() {
	impl.cachedPaths.Flush()
}

func (impl *Fitter) CachedCount() int {
	return impl.cachedPaths.ItemCount()
}

func (impl *Fitter) genCachedKey(samples []Sample, size Size, xPadding, yPadding float64) string {
	var ss strings.Builder

	fnFloat := func(v float64) {
		ss.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		ss.WriteByte(';')
	}

	fnFloat(size.Width)
	fnFloat(size.Height)
	fnFloat(xPadding)
	fnFloat(yPadding)

	for _, sample := range samples {
		ss.WriteString(strconv.Itoa(sample.Index))
		ss.WriteByte(':')
		fnFloat(sample.Value)
	}

	return ss.String()
}
