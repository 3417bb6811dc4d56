package main

import (
	"github.com/hupe1980/abcsmc/population"
	"github.com/spf13/cobra"
)

type normalizeOutput struct {
	Summary  population.Summary           `json:"summary"`
	Weighted population.WeightedDistances `json:"weighted_distances"`
}

func newNormalizeCmd(flags *rootFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize particle weights and compute model probabilities",
		Long: `Normalize reads a JSON array of particles, normalizes their weights per
model and prints the population summary with the weighted distances.`,
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

			var particles []*population.Particle
			if err := readInput(cmd, input, &particles); err != nil {
				return err
			}

			pop := population.New(particles, population.WithLogger(logger.Logger))
			if _, err := pop.NormalizeWeights(); err != nil {
				return err
			}
			wd, err := pop.WeightedDistances()
			if err != nil {
				return err
			}
			return flags.writeOutput(cmd, normalizeOutput{
				Summary:  pop.Summary(),
				Weighted: wd,
			})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON input file, - for stdin")
	return cmd
}
