package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/abcsmc"
	"github.com/hupe1980/abcsmc/codec"
	"github.com/hupe1980/abcsmc/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	pretty     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "abcctl",
		Short:         "ABC-SMC distance calibration tool",
		Long:          `abcctl calibrates distances on simulated summary statistics, normalizes particle populations and inspects stored generation snapshots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "indent JSON output")

	cmd.AddCommand(
		newCalibrateCmd(flags),
		newEvaluateCmd(flags),
		newNormalizeCmd(flags),
		newSnapshotsCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

// loadConfig returns the configuration named by --config, or the defaults.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	if f.configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadFile(f.configPath)
}

// newLogger builds the logger described by cfg, writing to w.
func newLogger(cfg config.LogConfig, w io.Writer) (*abcsmc.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		return abcsmc.NewLogger(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return abcsmc.NewLogger(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %q", cfg.Format)
	}
}

// readInput decodes the JSON document at path into v. "-" reads stdin.
func readInput(cmd *cobra.Command, path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if err := codec.Default.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode input %s: %w", path, err)
	}
	return nil
}

func (f *rootFlags) writeOutput(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if f.pretty {
		data, err = codec.GoJSON{}.MarshalIndent(v)
	} else {
		data, err = codec.Default.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
