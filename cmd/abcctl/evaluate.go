package main

import (
	"github.com/hupe1980/abcsmc"
	"github.com/hupe1980/abcsmc/sumstat"
	"github.com/spf13/cobra"
)

// evaluateInput is the document read by the evaluate command.
type evaluateInput struct {
	Observed    sumstat.Stats   `json:"observed"`
	Calibration []sumstat.Stats `json:"calibration,omitempty"`
	Samples     []sumstat.Stats `json:"samples"`
}

func newEvaluateCmd(flags *rootFlags) *cobra.Command {
	var (
		input       string
		generation  int
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute distances of samples to the observed statistics",
		Long: `Evaluate initializes the configured distance from the calibration sample
(when it requires one) and prints the distance of every sample to the
observed statistics.`,
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

			var in evaluateInput
			if err := readInput(cmd, input, &in); err != nil {
				return err
			}

			d, err := cfg.Distance.Build(logger.Logger)
			if err != nil {
				return err
			}
			c, err := abcsmc.New(d, in.Observed,
				abcsmc.WithLogger(logger),
				abcsmc.WithParallelism(parallelism),
			)
			if err != nil {
				return err
			}

			if c.RequiresInitialize() {
				calibration := in.Calibration
				if len(calibration) == 0 {
					calibration = in.Samples
				}
				if err := c.Initialize(cmd.Context(), generation, calibration); err != nil {
					return err
				}
			}

			distances, err := c.Evaluate(cmd.Context(), generation, in.Samples)
			if err != nil {
				return err
			}
			return flags.writeOutput(cmd, distances)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON input file, - for stdin")
	cmd.Flags().IntVarP(&generation, "generation", "t", 0, "generation index")
	cmd.Flags().IntVarP(&parallelism, "parallelism", "j", 1, "number of concurrent distance evaluations")
	return cmd
}
