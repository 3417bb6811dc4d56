package main

import (
	"fmt"

	"github.com/hupe1980/abcsmc"
	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/population"
	"github.com/hupe1980/abcsmc/snapshot"
	"github.com/hupe1980/abcsmc/sumstat"
	"github.com/spf13/cobra"
)

// calibrateInput is the document read by the calibrate command.
type calibrateInput struct {
	Observed    sumstat.Stats     `json:"observed"`
	Generations []generationInput `json:"generations"`
}

// generationInput holds everything simulated in one generation. Statistics
// feed the distance calibration; Particles, when present, are scored with
// the calibrated distance and normalized.
type generationInput struct {
	Statistics []sumstat.Stats        `json:"statistics"`
	Particles  []*population.Particle `json:"particles,omitempty"`
}

type generationOutput struct {
	T       int              `json:"t"`
	Changed bool             `json:"changed"`
	Weights distance.Weights `json:"weights,omitempty"`
	Record  *snapshot.Record `json:"record,omitempty"`
}

func newCalibrateCmd(flags *rootFlags) *cobra.Command {
	var (
		input       string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Calibrate the configured distance over a sequence of generations",
		Long: `Calibrate reads the observed statistics and the statistics simulated in
each generation. Generation 0 initializes the distance, later generations
update it. Particles given for a generation are scored with the calibrated
distance, normalized and recorded in the configured snapshot store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var in calibrateInput
			if err := readInput(cmd, input, &in); err != nil {
				return err
			}
			if len(in.Generations) == 0 {
				return fmt.Errorf("input contains no generations")
			}

			d, err := cfg.Distance.Build(logger.Logger)
			if err != nil {
				return err
			}
			store, err := cfg.Snapshot.Open(cmd.Context(), logger.Logger)
			if err != nil {
				return err
			}

			c, err := abcsmc.New(d, in.Observed,
				abcsmc.WithLogger(logger),
				abcsmc.WithSnapshotStore(store),
				abcsmc.WithParallelism(parallelism),
			)
			if err != nil {
				return err
			}

			out := make([]generationOutput, 0, len(in.Generations))
			for t, gen := range in.Generations {
				res, err := runGeneration(cmd, c, t, gen)
				if err != nil {
					return fmt.Errorf("generation %d: %w", t, err)
				}
				out = append(out, res)
			}
			return flags.writeOutput(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON input file, - for stdin")
	cmd.Flags().IntVarP(&parallelism, "parallelism", "j", 1, "number of concurrent distance evaluations")
	return cmd
}

func runGeneration(cmd *cobra.Command, c *abcsmc.Calibrator, t int, gen generationInput) (generationOutput, error) {
	ctx := cmd.Context()
	res := generationOutput{T: t}

	switch {
	case t == 0 && c.RequiresInitialize():
		if err := c.Initialize(ctx, t, gen.Statistics); err != nil {
			return res, err
		}
		res.Changed = true
	case t > 0:
		changed, err := c.Update(ctx, t, gen.Statistics)
		if err != nil {
			return res, err
		}
		res.Changed = changed
	}

	if w, ok := c.Distance().(interface{ Weights() *distance.WeightTable }); ok {
		res.Weights, _, _ = w.Weights().At(t)
	}

	if len(gen.Particles) == 0 {
		return res, nil
	}
	for _, p := range gen.Particles {
		if p != nil && len(p.Distances) == 0 {
			p.Distances = make([]float64, len(p.SumStats))
		}
	}
	pop := population.New(gen.Particles, population.WithLogger(c.Logger().Logger))
	if err := pop.UpdateDistances(c.DistanceFunc(t)); err != nil {
		return res, err
	}
	rec, err := c.Finalize(ctx, t, pop)
	if err != nil {
		return res, err
	}
	res.Record = rec
	return res, nil
}
