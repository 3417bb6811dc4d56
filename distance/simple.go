package distance

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/hupe1980/abcsmc/sumstat"
)

// NoDistance is a null distance for pipelines where the simulator decides
// acceptance itself. Evaluating it is an error.
type NoDistance struct {
	Base
}

// Distance always fails with ErrNotCallable.
func (NoDistance) Distance(int, sumstat.Stats, sumstat.Stats) (float64, error) {
	return 0, fmt.Errorf("%s: %w", KindNone, ErrNotCallable)
}

// Config implements Distance.
func (NoDistance) Config() Config {
	return Config{Name: KindNone.String()}
}

// Func is a plain binary distance between two statistics vectors.
type Func func(x, y sumstat.Stats) float64

// FuncDistance adapts a Func to the Distance interface. The generation
// index is ignored.
type FuncDistance struct {
	Base
	name string
	fn   Func
}

// NewFunc wraps fn under the given name. An empty name is derived from
// the function symbol.
func NewFunc(name string, fn Func) *FuncDistance {
	if name == "" {
		name = funcName(fn)
	}
	return &FuncDistance{name: name, fn: fn}
}

// Distance delegates to the wrapped function.
func (d *FuncDistance) Distance(_ int, x, y sumstat.Stats) (float64, error) {
	return d.fn(x, y), nil
}

// Config implements Distance.
func (d *FuncDistance) Config() Config {
	return Config{Name: d.name}
}

// ToDistance converts v into a Distance: nil becomes NoDistance, a Distance
// is returned as is, and a Func (or an untyped func with the same
// signature) is wrapped in a FuncDistance.
func ToDistance(v any) (Distance, error) {
	switch d := v.(type) {
	case nil:
		return NoDistance{}, nil
	case Distance:
		return d, nil
	case Func:
		return NewFunc("", d), nil
	case func(x, y sumstat.Stats) float64:
		return NewFunc("", d), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to a distance", v)
	}
}

func funcName(fn Func) string {
	if fn == nil {
		return KindFunc.String()
	}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return KindFunc.String()
	}
	name := f.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// AcceptAllValue is the distance reported by AcceptAll.
const AcceptAllValue = -1.0

// AcceptAll reports AcceptAllValue for every input, which is within any
// non-negative threshold.
type AcceptAll struct {
	Base
}

// Distance returns AcceptAllValue.
func (AcceptAll) Distance(int, sumstat.Stats, sumstat.Stats) (float64, error) {
	return AcceptAllValue, nil
}

// Config implements Distance.
func (AcceptAll) Config() Config {
	return Config{Name: KindAcceptAll.String()}
}

// IdentityLabel is the statistic Identity reports when present.
const IdentityLabel = "distance"

// Identity passes through a distance the simulator already computed: the
// statistic labelled IdentityLabel, or the only statistic of x.
type Identity struct {
	Base
}

// Distance returns the simulator-reported distance carried in x.
func (Identity) Distance(_ int, x, _ sumstat.Stats) (float64, error) {
	if v, ok := x[IdentityLabel]; ok {
		return v, nil
	}
	if len(x) == 1 {
		for _, v := range x {
			return v, nil
		}
	}
	return 0, &ErrMissingStatistic{Label: IdentityLabel}
}

// Config implements Distance.
func (Identity) Config() Config {
	return Config{Name: KindIdentity.String()}
}
