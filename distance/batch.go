package distance

import (
	"context"
	"fmt"

	"github.com/hupe1980/abcsmc/sumstat"
	"golang.org/x/sync/errgroup"
)

// EvaluateBatch evaluates d for every x in xs at generation t with at most
// workers concurrent evaluations (workers <= 0 means unbounded).
//
// Distances are read-only during evaluation, so a calibrated distance can
// be shared across workers. Calibration (Initialize, Update) must not run
// concurrently with EvaluateBatch.
func EvaluateBatch(ctx context.Context, d Distance, t int, xs []sumstat.Stats, x0 sumstat.Stats, workers int) ([]float64, error) {
	out := make([]float64, len(xs))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, x := range xs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := d.Distance(t, x, x0)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
