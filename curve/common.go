package curve

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// fileSample is the on-disk form; index is optional and value may be quoted.
type fileSample struct {
	Index *int        `yaml:"index,omitempty"`
	Value interface{} `yaml:"value"`
	Label string      `yaml:"label,omitempty"`
}

func NewCommonStorage(root string) *CommStorage {
	return &CommStorage{
		root: root,
	}
}

// CommStorage keeps one yaml file of samples per key under root.
type CommStorage struct {
	root string
}

func (stg *CommStorage) fileNameByKey(key string) string {
	return path.Join(stg.root, key)
}

func (stg *CommStorage) Load(key string) (samples []Sample, err error) {
	d, err := os.ReadFile(stg.fileNameByKey(key))
	if err != nil {
		return
	}

	samples, err = DecodeSamples(d)

	return
}

func (stg *CommStorage) Save(key string, samples []Sample) (err error) {
	_ = os.MkdirAll(stg.root, 0700)

	d, err := yaml.Marshal(samples)
	if err != nil {
		return
	}

	err = os.WriteFile(stg.fileNameByKey(key), d, 0600)

	return
}

func DecodeSamples(d []byte) (samples []Sample, err error) {
	var fss []fileSample

	err = yaml.Unmarshal(d, &fss)
	if err != nil {
		return
	}

	if len(fss) == 0 {
		err = ErrNoSamples

		return
	}

	samples = make([]Sample, 0, len(fss))

	for idx, fs := range fss {
		v, e := cast.ToFloat64E(fs.Value)
		if e != nil {
			err = fmt.Errorf("%w: #%d: %v", ErrBadSample, idx, e)

			return
		}

		index := idx
		if fs.Index != nil {
			index = *fs.Index
		}

		samples = append(samples, Sample{
			Index: index,
			Value: v,
			Label: fs.Label,
		})
	}

	samples = NormalizeSamples(samples)

	return
}

// NormalizeSamples orders samples by index and renumbers them 0..N-1.
func NormalizeSamples(samples []Sample) []Sample {
	ns := make([]Sample, len(samples))
	copy(ns, samples)

	sort.SliceStable(ns, func(i, j int) bool {
		return ns[i].Index < ns[j].Index
	})

	for idx := range ns {
		ns[idx].Index = idx
	}

	return ns
}
