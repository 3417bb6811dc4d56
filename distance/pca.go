package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/abcsmc/sumstat"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// eigenTolerance is the relative eigenvalue size below which the sample
// covariance counts as singular.
const eigenTolerance = 1e-12

// PCA is the Euclidean distance in whitened coordinates
//
//	d(x, y) = ||W (x - y)||_2
//
// where W = V diag(1/sqrt(lambda)) V^T is derived from the eigendecomposition
// of the centered covariance of the calibration sample.
//
// A zero or near-zero eigenvalue (for example a statistic that is constant
// in the calibration sample) makes Initialize fail with
// ErrSingularCovariance instead of producing infinite whitening factors.
type PCA struct {
	measureList
	whitening *mat.Dense
}

// NewPCA returns a whitened distance over measures, or over all labels of
// the calibration sample when measures is empty.
func NewPCA(measures ...string) *PCA {
	return &PCA{measureList: newMeasureList(measures)}
}

// RequiresInitialize returns true.
func (d *PCA) RequiresInitialize() bool { return true }

// Initialize resolves the label subset and computes the whitening matrix.
func (d *PCA) Initialize(_ int, sample []sumstat.Stats, _ sumstat.Stats) error {
	if len(sample) == 0 {
		return ErrEmptySample
	}
	if err := d.resolve(sample); err != nil {
		return err
	}
	measures, _ := d.measures()

	n, k := len(sample), len(measures)
	if k == 0 {
		return fmt.Errorf("no measures: %w", ErrEmptySample)
	}
	data := mat.NewDense(n, k, nil)
	for i, s := range sample {
		row, missing := s.Vector(measures)
		if missing != "" {
			return &ErrMissingStatistic{Label: missing}
		}
		data.SetRow(i, row)
	}

	for j := 0; j < k; j++ {
		col := mat.Col(nil, j, data)
		mean := stat.Mean(col, nil)
		floats.AddConst(-mean, col)
		data.SetCol(j, col)
	}

	cov := mat.NewSymDense(k, nil)
	cov.SymOuterK(1, data.T())

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return ErrSingularCovariance
	}
	lambda := eig.Values(nil)
	maxLambda := floats.Max(lambda)
	inv := make([]float64, k)
	for i, l := range lambda {
		if l <= eigenTolerance*maxLambda || l <= 0 {
			return ErrSingularCovariance
		}
		inv[i] = 1 / math.Sqrt(l)
	}

	var v mat.Dense
	eig.VectorsTo(&v)

	var scaled mat.Dense
	scaled.Mul(&v, mat.NewDiagDense(k, inv))
	w := mat.NewDense(k, k, nil)
	w.Mul(&scaled, v.T())
	d.whitening = w
	return nil
}

// Update does nothing.
func (d *PCA) Update(int, []sumstat.Stats, sumstat.Stats) (bool, error) { return false, nil }

// ConfigureSampler does nothing.
func (d *PCA) ConfigureSampler(Sampler) {}

// Whitening returns a copy of the whitening matrix, or nil before
// Initialize.
func (d *PCA) Whitening() *mat.Dense {
	if d.whitening == nil {
		return nil
	}
	return mat.DenseCopyOf(d.whitening)
}

// Distance implements Distance.
func (d *PCA) Distance(_ int, x, y sumstat.Stats) (float64, error) {
	if d.whitening == nil {
		return 0, ErrNotInitialized
	}
	measures, err := d.measures()
	if err != nil {
		return 0, err
	}

	diff := make([]float64, len(measures))
	for i, label := range measures {
		xv, yv, err := values(label, x, y)
		if err != nil {
			return 0, err
		}
		diff[i] = xv - yv
	}

	var out mat.VecDense
	out.MulVec(d.whitening, mat.NewVecDense(len(diff), diff))
	return floats.Norm(out.RawVector().Data, 2), nil
}

// Config implements Distance.
func (d *PCA) Config() Config {
	return Config{Name: KindPCA.String(), Params: d.params()}
}
