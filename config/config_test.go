package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/abcsmc/blobstore"
	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/snapshot"
	"github.com/hupe1980/abcsmc/sumstat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	d, err := cfg.Distance.Build(nil)
	require.NoError(t, err)
	assert.IsType(t, &distance.AdaptivePNorm{}, d)
}

func TestLoad_Full(t *testing.T) {
	const doc = `
distance:
  type: adaptive_pnorm
  p: inf
  adaptive: false
  scale: standard_deviation
snapshot:
  backend: local
  path: /tmp/abc
  codec: json
  compression: lz4
log:
  level: debug
  format: json
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(cfg.Distance.P), 1))
	assert.False(t, cfg.Distance.Adaptive)
	assert.Equal(t, "local", cfg.Snapshot.Backend)
	assert.Equal(t, "json", cfg.Log.Format)

	d, err := cfg.Distance.Build(nil)
	require.NoError(t, err)
	cfgSnap := d.Config()
	assert.Equal(t, "inf", cfgSnap.Params["p"])
	assert.Equal(t, false, cfgSnap.Params["adaptive"])
	assert.Equal(t, "standard_deviation", cfgSnap.Params["scale_type"])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"UnknownKey", "distance:\n  kind: pnorm\n", nil},
		{"UnknownDistance", "distance:\n  type: cosine\n", ErrUnknownDistance},
		{"FuncDistance", "distance:\n  type: func\n", ErrUnknownDistance},
		{"UnknownScale", "distance:\n  scale: iqr\n", ErrUnknownScaleFunction},
		{"InvalidExponent", "distance:\n  type: pnorm\n  p: 0.5\n", nil},
		{"InvalidPercentile", "distance:\n  type: percentile\n  percentile: 60\n", nil},
		{"UnknownBackend", "snapshot:\n  backend: ftp\n", ErrUnknownBackend},
		{"LocalWithoutPath", "snapshot:\n  backend: local\n", nil},
		{"S3WithoutBucket", "snapshot:\n  backend: s3\n", nil},
		{"MinioWithoutEndpoint", "snapshot:\n  backend: minio\n  bucket: b\n", nil},
		{"UnknownCodec", "snapshot:\n  codec: msgpack\n", nil},
		{"UnknownCompression", "snapshot:\n  compression: snappy\n", nil},
		{"UnknownLevel", "log:\n  level: loud\n", nil},
		{"UnknownFormat", "log:\n  format: xml\n", nil},
		{"BadExponent", "distance:\n  p: [1]\n", nil},
		{"NegativeLimit", "snapshot:\n  max_concurrent: -1\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}

	_, err := Load(strings.NewReader("distance:\n  type: pnorm\n  p: 0.5\n"))
	var invalid *distance.ErrInvalidExponent
	assert.ErrorAs(t, err, &invalid)
}

func TestBuild_Variants(t *testing.T) {
	tests := []struct {
		cfg      DistanceConfig
		expected any
	}{
		{DistanceConfig{Type: "none"}, distance.NoDistance{}},
		{DistanceConfig{Type: "pnorm", P: 1}, &distance.PNorm{}},
		{DistanceConfig{Type: "zscore", Measures: []string{"a"}}, &distance.ZScore{}},
		{DistanceConfig{Type: "pca"}, &distance.PCA{}},
		{DistanceConfig{Type: "minmax"}, &distance.Range{}},
		{DistanceConfig{Type: "percentile", Percentile: 10}, &distance.Range{}},
		{DistanceConfig{Type: "accept_all"}, distance.AcceptAll{}},
		{DistanceConfig{Type: "identity"}, distance.Identity{}},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Type, func(t *testing.T) {
			d, err := tt.cfg.Build(nil)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, d)
		})
	}
}

func TestBuild_PNormWeights(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
distance:
  type: pnorm
  p: 1
  weights:
    0: {a: 1, b: 2}
    3: {a: 0.5}
`))
	require.NoError(t, err)

	d, err := cfg.Distance.Build(nil)
	require.NoError(t, err)
	assert.False(t, d.RequiresInitialize())

	v, err := d.Distance(1, sumstat.Stats{"a": 1, "b": 1}, sumstat.Stats{"a": 0, "b": 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)

	v, err = d.Distance(0, sumstat.Stats{"a": 1, "b": 1}, sumstat.Stats{"a": 0, "b": 0})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("distance:\n  type: minmax\n  measures: [a, b]\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.Distance.Measures)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Distance.P = Exponent(math.Inf(1))

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "inf")

	back, err := Load(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(back.Distance.P), 1))
}

func TestSnapshotConfig_Open(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := SnapshotConfig{Backend: "local", Path: dir, Codec: "go-json", Compression: "zstd"}
	store, err := cfg.Open(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, &snapshot.Record{Generation: 1}))
	_, err = os.Stat(filepath.Join(dir, snapshot.BlobName(1)))
	assert.NoError(t, err)

	blobs, err := SnapshotConfig{}.BlobStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, blobs)
}

func TestSnapshotConfig_OpenThrottled(t *testing.T) {
	ctx := context.Background()
	cfg := SnapshotConfig{Backend: "memory", MaxConcurrent: 2, BytesPerSecond: 1 << 20}

	store, err := cfg.Open(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &snapshot.Record{Generation: 0}))

	rec, err := store.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Generation)
}

func TestLogConfig_SlogLevel(t *testing.T) {
	level, err := LogConfig{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, "INFO", level.String())

	level, err = LogConfig{Level: "warn"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, "WARN", level.String())
}
