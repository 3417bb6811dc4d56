package main

import (
	"fmt"
	"strconv"

	"github.com/hupe1980/abcsmc/snapshot"
	"github.com/spf13/cobra"
)

func newSnapshotsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect stored generation snapshots",
	}
	cmd.AddCommand(
		newSnapshotsListCmd(flags),
		newSnapshotsShowCmd(flags),
		newSnapshotsDeleteCmd(flags),
	)
	return cmd
}

func (f *rootFlags) openSnapshots(cmd *cobra.Command) (*snapshot.Store, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return cfg.Snapshot.Open(cmd.Context(), logger.Logger)
}

func newSnapshotsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := flags.openSnapshots(cmd)
			if err != nil {
				return err
			}
			gens, err := store.Generations(cmd.Context())
			if err != nil {
				return err
			}
			return flags.writeOutput(cmd, gens)
		},
	}
}

func newSnapshotsShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show [generation]",
		Short: "Print a stored generation record, the latest by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openSnapshots(cmd)
			if err != nil {
				return err
			}
			var rec *snapshot.Record
			if len(args) == 0 {
				rec, err = store.Latest(cmd.Context())
			} else {
				t, perr := parseGeneration(args[0])
				if perr != nil {
					return perr
				}
				rec, err = store.Load(cmd.Context(), t)
			}
			if err != nil {
				return err
			}
			return flags.writeOutput(cmd, rec)
		},
	}
}

func newSnapshotsDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <generation>",
		Short: "Delete a stored generation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseGeneration(args[0])
			if err != nil {
				return err
			}
			store, err := flags.openSnapshots(cmd)
			if err != nil {
				return err
			}
			return store.Delete(cmd.Context(), t)
		},
	}
}

func parseGeneration(s string) (int, error) {
	t, err := strconv.Atoi(s)
	if err != nil || t < 0 {
		return 0, fmt.Errorf("invalid generation: %q", s)
	}
	return t, nil
}
