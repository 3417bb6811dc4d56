// Package config loads YAML run configurations and builds the distance and
// snapshot store they describe.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/hupe1980/abcsmc/blobstore"
	"github.com/hupe1980/abcsmc/blobstore/minio"
	"github.com/hupe1980/abcsmc/blobstore/s3"
	"github.com/hupe1980/abcsmc/codec"
	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/scale"
	"github.com/hupe1980/abcsmc/snapshot"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownDistance is returned for an unsupported distance type.
	ErrUnknownDistance = errors.New("config: unknown distance type")

	// ErrUnknownScaleFunction is returned for an unregistered scale name.
	ErrUnknownScaleFunction = errors.New("config: unknown scale function")

	// ErrUnknownBackend is returned for an unsupported snapshot backend.
	ErrUnknownBackend = errors.New("config: unknown snapshot backend")
)

type Config struct {
	Distance DistanceConfig `yaml:"distance"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

type DistanceConfig struct {
	Type       string                     `yaml:"type"`
	P          Exponent                   `yaml:"p"`
	Adaptive   bool                       `yaml:"adaptive"`
	Scale      string                     `yaml:"scale"`
	Measures   []string                   `yaml:"measures"`
	Percentile float64                    `yaml:"percentile"`
	Weights    map[int]map[string]float64 `yaml:"weights"`
}

type SnapshotConfig struct {
	Backend        string `yaml:"backend"`
	Path           string `yaml:"path"`
	Bucket         string `yaml:"bucket"`
	Prefix         string `yaml:"prefix"`
	Endpoint       string `yaml:"endpoint"`
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Secure         bool   `yaml:"secure"`
	Codec          string `yaml:"codec"`
	Compression    string `yaml:"compression"`
	MaxConcurrent  int64  `yaml:"max_concurrent"`
	BytesPerSecond int64  `yaml:"bytes_per_second"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Exponent is a p-norm exponent that also accepts "inf" in YAML.
type Exponent float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Exponent) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(strings.TrimSpace(value.Value)) {
	case "inf", "+inf", "infinity":
		*e = Exponent(math.Inf(1))
		return nil
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("config: p: %w", err)
	}
	*e = Exponent(f)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (e Exponent) MarshalYAML() (any, error) {
	if math.IsInf(float64(e), 1) {
		return "inf", nil
	}
	return float64(e), nil
}

func DefaultConfig() *Config {
	return &Config{
		Distance: DistanceConfig{
			Type:       distance.KindAdaptivePNorm.String(),
			P:          2,
			Adaptive:   true,
			Scale:      scale.MAD.Name,
			Percentile: distance.DefaultPercentile,
		},
		Snapshot: SnapshotConfig{
			Backend:     "memory",
			Codec:       codec.Default.Name(),
			Compression: codec.CompressionZSTD.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load decodes a YAML configuration on top of DefaultConfig and validates
// it. Unknown keys are rejected.
func Load(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and decodes the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Marshal encodes cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if err := c.Distance.Validate(); err != nil {
		return err
	}
	if err := c.Snapshot.Validate(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

func (d DistanceConfig) Validate() error {
	kind, err := distance.ParseKind(d.Type)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownDistance, d.Type)
	}
	switch kind {
	case distance.KindFunc:
		return fmt.Errorf("%w: %q cannot be configured from a file", ErrUnknownDistance, d.Type)
	case distance.KindPNorm, distance.KindAdaptivePNorm:
		p := float64(d.P)
		if math.IsNaN(p) || p < 1 {
			return &distance.ErrInvalidExponent{P: p}
		}
	case distance.KindPercentile:
		if _, err := distance.Percentile(d.Percentile); err != nil {
			return err
		}
	}
	if kind == distance.KindAdaptivePNorm {
		if _, ok := scale.ByName(d.Scale); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownScaleFunction, d.Scale)
		}
	}
	return nil
}

// Build constructs the configured distance.
func (d DistanceConfig) Build(logger *slog.Logger) (distance.Distance, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	kind, _ := distance.ParseKind(d.Type)
	p := float64(d.P)

	switch kind {
	case distance.KindNone:
		return distance.NoDistance{}, nil
	case distance.KindPNorm:
		var opts []distance.Option
		if len(d.Weights) > 0 {
			entries := make(map[int]distance.Weights, len(d.Weights))
			for t, w := range d.Weights {
				entries[t] = distance.Weights(w)
			}
			opts = append(opts, distance.WithWeights(distance.NewWeightTable(entries)))
		}
		return distance.NewPNorm(p, opts...)
	case distance.KindAdaptivePNorm:
		est, _ := scale.ByName(d.Scale)
		return distance.NewAdaptivePNorm(p,
			distance.WithAdaptive(d.Adaptive),
			distance.WithScale(est),
			distance.WithLogger(logger),
		)
	case distance.KindZScore:
		return distance.NewZScore(d.Measures...), nil
	case distance.KindPCA:
		return distance.NewPCA(d.Measures...), nil
	case distance.KindMinMax:
		return distance.NewMinMax(d.Measures...), nil
	case distance.KindPercentile:
		return distance.NewPercentile(d.Percentile, d.Measures...)
	case distance.KindAcceptAll:
		return distance.AcceptAll{}, nil
	case distance.KindIdentity:
		return distance.Identity{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDistance, d.Type)
	}
}

func (s SnapshotConfig) Validate() error {
	switch s.Backend {
	case "", "memory":
	case "local":
		if s.Path == "" {
			return errors.New("config: snapshot.path is required for the local backend")
		}
	case "s3", "minio":
		if s.Bucket == "" {
			return fmt.Errorf("config: snapshot.bucket is required for the %s backend", s.Backend)
		}
		if s.Backend == "minio" && s.Endpoint == "" {
			return errors.New("config: snapshot.endpoint is required for the minio backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	if _, ok := codec.ByName(s.Codec); s.Codec != "" && !ok {
		return fmt.Errorf("config: unknown codec %q", s.Codec)
	}
	if _, err := codec.ParseCompression(s.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if s.MaxConcurrent < 0 || s.BytesPerSecond < 0 {
		return errors.New("config: snapshot limits must not be negative")
	}
	return nil
}

// BlobStore opens the configured backend.
func (s SnapshotConfig) BlobStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch s.Backend {
	case "", "memory":
		return blobstore.NewMemoryStore(), nil
	case "local":
		return blobstore.NewLocalStore(s.Path), nil
	case "s3":
		opts := []s3.Option{s3.WithPrefix(s.Prefix)}
		if s.Region != "" {
			opts = append(opts, s3.WithRegion(s.Region))
		}
		if s.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(s.Endpoint))
		}
		return s3.New(ctx, s.Bucket, opts...)
	case "minio":
		return minio.New(s.Endpoint, s.Bucket,
			minio.WithPrefix(s.Prefix),
			minio.WithCredentials(s.AccessKey, s.SecretKey),
			minio.WithSecure(s.Secure),
			minio.WithRegion(s.Region),
		)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
}

// Open returns a snapshot store on the configured backend.
func (s SnapshotConfig) Open(ctx context.Context, logger *slog.Logger) (*snapshot.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	blobs, err := s.BlobStore(ctx)
	if err != nil {
		return nil, err
	}
	if s.MaxConcurrent > 0 || s.BytesPerSecond > 0 {
		blobs = blobstore.NewThrottled(blobs, blobstore.ThrottleConfig{
			MaxConcurrent:  s.MaxConcurrent,
			BytesPerSecond: s.BytesPerSecond,
		})
	}
	compression, _ := codec.ParseCompression(s.Compression)
	opts := []snapshot.Option{
		snapshot.WithCompression(compression),
		snapshot.WithLogger(logger),
	}
	if c, ok := codec.ByName(s.Codec); ok {
		opts = append(opts, snapshot.WithCodec(c))
	}
	return snapshot.NewStore(blobs, opts...), nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}
