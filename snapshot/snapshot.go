package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/abcsmc/blobstore"
	"github.com/hupe1980/abcsmc/codec"
	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/population"
)

// Record is the persisted state of one generation.
type Record struct {
	Generation         int                          `json:"generation"`
	Distance           distance.Config              `json:"distance"`
	Fingerprint        uint64                       `json:"fingerprint"`
	Weights            distance.Weights             `json:"weights,omitempty"`
	ModelProbabilities map[int]float64              `json:"model_probabilities"`
	Weighted           population.WeightedDistances `json:"weighted_distances"`
	Changed            bool                         `json:"changed"`
}

var (
	// ErrNotFound is returned by Load for a generation without a record.
	ErrNotFound = errors.New("snapshot: record not found")

	// ErrCorrupt is returned for blobs with an unreadable header.
	ErrCorrupt = errors.New("snapshot: corrupt record")
)

const (
	blobPrefix = "gen-"
	blobSuffix = ".snap"
)

// BlobName returns the blob name of generation t.
func BlobName(t int) string {
	return fmt.Sprintf("%s%06d%s", blobPrefix, t, blobSuffix)
}

func parseBlobName(name string) (int, bool) {
	if !strings.HasPrefix(name, blobPrefix) || !strings.HasSuffix(name, blobSuffix) {
		return 0, false
	}
	t, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, blobPrefix), blobSuffix))
	if err != nil || t < 0 {
		return 0, false
	}
	return t, true
}

type options struct {
	codec       codec.Codec
	compression codec.Compression
	logger      *slog.Logger
}

// Option configures a Store.
type Option func(*options)

// WithCodec sets the codec for new records. The default is codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the block compression for new records.
// The default is codec.CompressionZSTD.
func WithCompression(c codec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger configures structured logging. Pass nil to discard logs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Store reads and writes generation records.
type Store struct {
	blobs       blobstore.BlobStore
	codec       codec.Codec
	compression codec.Compression
	logger      *slog.Logger
}

// NewStore returns a Store on top of blobs.
func NewStore(blobs blobstore.BlobStore, optFns ...Option) *Store {
	o := options{
		codec:       codec.Default,
		compression: codec.CompressionZSTD,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		blobs:       blobs,
		codec:       o.codec,
		compression: o.compression,
		logger:      o.logger,
	}
}

// Save writes rec, replacing any record of the same generation.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	payload, err := s.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("snapshot: encode generation %d: %w", rec.Generation, err)
	}
	block, err := codec.Compress(payload, s.compression)
	if err != nil {
		return fmt.Errorf("snapshot: compress generation %d: %w", rec.Generation, err)
	}

	name := BlobName(rec.Generation)
	if err := s.blobs.Put(ctx, name, encodeHeader(s.compression, s.codec.Name(), block)); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", name, err)
	}

	s.logger.Debug("saved snapshot", "t", rec.Generation, "blob", name, "bytes", len(payload), "compression", s.compression.String())
	return nil
}

// Load reads the record of generation t.
func (s *Store) Load(ctx context.Context, t int) (*Record, error) {
	name := BlobName(t)
	data, err := s.blobs.Get(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("generation %d: %w", t, ErrNotFound)
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}

	compression, codecName, block, err := decodeHeader(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("snapshot: %s: unknown codec %q: %w", name, codecName, ErrCorrupt)
	}
	payload, err := codec.Decompress(block, compression)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}

	var rec Record
	if err := c.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", name, err)
	}
	return &rec, nil
}

// Latest returns the record with the highest generation.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	gens, err := s.Generations(ctx)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, ErrNotFound
	}
	return s.Load(ctx, gens[len(gens)-1])
}

// Generations returns the generations with a stored record in ascending
// order.
func (s *Store) Generations(ctx context.Context) ([]int, error) {
	names, err := s.blobs.List(ctx, blobPrefix)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}

	gens := make([]int, 0, len(names))
	for _, name := range names {
		if t, ok := parseBlobName(name); ok {
			gens = append(gens, t)
		}
	}
	slices.Sort(gens)
	return gens, nil
}

// Delete removes the record of generation t.
func (s *Store) Delete(ctx context.Context, t int) error {
	return s.blobs.Delete(ctx, BlobName(t))
}
