package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/abcsmc/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abcctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestRootCmd_Definition(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "abcctl", cmd.Use)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"calibrate", "evaluate", "normalize", "snapshots", "config"})

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestConfigCmd_Defaults(t *testing.T) {
	out, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "adaptive_pnorm")
	assert.Contains(t, out, "zstd")
}

func TestConfigCmd_InvalidFile(t *testing.T) {
	path := writeConfig(t, "distance:\n  type: nope\n")
	_, err := run(t, "", "config", "--config", path)
	assert.Error(t, err)
}

func TestNormalizeCmd(t *testing.T) {
	input := `[
		{"m": 0, "parameter": {"theta": 1}, "weight": 2, "distance_list": [0.1], "sum_stat_list": [{"s": 1}]},
		{"m": 1, "parameter": {"theta": 2}, "weight": 3, "distance_list": [0.2], "sum_stat_list": [{"s": 2}]}
	]`
	out, err := run(t, input, "normalize")
	require.NoError(t, err)

	var got normalizeOutput
	require.NoError(t, codec.Default.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.Particles)
	assert.True(t, got.Summary.Normalized)
	assert.InDelta(t, 0.4, got.Summary.ModelProbabilities[0], 1e-12)
	assert.InDelta(t, 0.6, got.Summary.ModelProbabilities[1], 1e-12)
	assert.Equal(t, []float64{0.1, 0.2}, got.Weighted.Distance)
}

func TestNormalizeCmd_EmptyPopulation(t *testing.T) {
	_, err := run(t, "[]", "normalize")
	assert.Error(t, err)
}

func TestEvaluateCmd_PNorm(t *testing.T) {
	path := writeConfig(t, "distance:\n  type: pnorm\n  p: 1\n")
	input := `{
		"observed": {"a": 0, "b": 0},
		"samples": [{"a": 1, "b": 2}, {"a": -3, "b": 0}]
	}`
	out, err := run(t, input, "evaluate", "--config", path)
	require.NoError(t, err)

	var got []float64
	require.NoError(t, codec.Default.Unmarshal([]byte(out), &got))
	assert.Equal(t, []float64{3, 3}, got)
}

func TestCalibrateCmd_LocalSnapshots(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "distance:\n  type: adaptive_pnorm\n  p: 2\nsnapshot:\n  backend: local\n  path: "+dir+"\nlog:\n  level: error\n")
	input := `{
		"observed": {"a": 0, "b": 0},
		"generations": [
			{
				"statistics": [{"a": 1, "b": 10}, {"a": 2, "b": 20}, {"a": 3, "b": 30}, {"a": 4, "b": 40}],
				"particles": [
					{"m": 0, "parameter": {"theta": 1}, "weight": 1, "sum_stat_list": [{"a": 1, "b": 10}]},
					{"m": 0, "parameter": {"theta": 2}, "weight": 1, "sum_stat_list": [{"a": 2, "b": 20}]}
				]
			},
			{
				"statistics": [{"a": 1, "b": 1}, {"a": 2, "b": 2}, {"a": 3, "b": 3}, {"a": 4, "b": 4}],
				"particles": [
					{"m": 0, "parameter": {"theta": 1}, "weight": 1, "sum_stat_list": [{"a": 1, "b": 1}]}
				]
			}
		]
	}`
	out, err := run(t, input, "calibrate", "--config", path)
	require.NoError(t, err)

	var got []generationOutput
	require.NoError(t, codec.Default.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].Changed)
	assert.True(t, got[1].Changed)
	require.NotNil(t, got[0].Record)
	// MAD of a is 1 and of b is 10 in generation 0.
	assert.InDelta(t, 10*got[0].Weights["b"], got[0].Weights["a"], 1e-9)
	assert.InDelta(t, got[1].Weights["b"], got[1].Weights["a"], 1e-9)

	out, err = run(t, "", "snapshots", "list", "--config", path)
	require.NoError(t, err)
	var gens []int
	require.NoError(t, codec.Default.Unmarshal([]byte(out), &gens))
	assert.Equal(t, []int{0, 1}, gens)

	out, err = run(t, "", "snapshots", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"generation":1`)

	_, err = run(t, "", "snapshots", "delete", "0", "--config", path)
	require.NoError(t, err)
	out, err = run(t, "", "snapshots", "list", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "[1]\n", out)
}

func TestCalibrateCmd_NoGenerations(t *testing.T) {
	_, err := run(t, `{"observed": {"a": 0}, "generations": []}`, "calibrate")
	assert.Error(t, err)
}

func TestParseGeneration(t *testing.T) {
	got, err := parseGeneration("12")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	_, err = parseGeneration("-1")
	assert.Error(t, err)
	_, err = parseGeneration("x")
	assert.Error(t, err)
}
