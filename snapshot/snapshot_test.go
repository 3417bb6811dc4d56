package snapshot

import (
	"context"
	"math"
	"testing"

	"github.com/hupe1980/abcsmc/blobstore"
	"github.com/hupe1980/abcsmc/codec"
	"github.com/hupe1980/abcsmc/distance"
	"github.com/hupe1980/abcsmc/population"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T, gen int) *Record {
	t.Helper()
	d, err := distance.NewPNorm(2, distance.WithWeights(distance.NewWeightTable(map[int]distance.Weights{
		0: {"a": 1, "b": 0.5},
	})))
	require.NoError(t, err)
	cfg := d.Config()
	fp, err := distance.Fingerprint(cfg)
	require.NoError(t, err)

	return &Record{
		Generation:         gen,
		Distance:           cfg,
		Fingerprint:        fp,
		Weights:            distance.Weights{"a": 1, "b": 0.5},
		ModelProbabilities: map[int]float64{0: 0.4, 1: 0.6},
		Weighted: population.WeightedDistances{
			Distance: []float64{0.1, 0.2},
			Weight:   []float64{0.4, 0.6},
		},
		Changed: gen > 0,
	}
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		for _, comp := range []codec.Compression{codec.CompressionNone, codec.CompressionLZ4, codec.CompressionZSTD} {
			t.Run(c.Name()+"/"+comp.String(), func(t *testing.T) {
				store := NewStore(blobstore.NewMemoryStore(), WithCodec(c), WithCompression(comp))
				rec := testRecord(t, 3)
				require.NoError(t, store.Save(ctx, rec))

				got, err := store.Load(ctx, 3)
				require.NoError(t, err)
				assert.Equal(t, rec.Generation, got.Generation)
				assert.Equal(t, rec.Fingerprint, got.Fingerprint)
				assert.Equal(t, rec.Weights, got.Weights)
				assert.Equal(t, rec.ModelProbabilities, got.ModelProbabilities)
				assert.Equal(t, rec.Weighted, got.Weighted)
				assert.Equal(t, rec.Changed, got.Changed)
				assert.Equal(t, "pnorm", got.Distance.Name)
				assert.Equal(t, 2.0, got.Distance.Params["p"])
			})
		}
	}
}

func TestStore_SaveLoadInfiniteDistance(t *testing.T) {
	ctx := context.Background()

	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			store := NewStore(blobstore.NewMemoryStore(), WithCodec(c))
			rec := testRecord(t, 0)
			rec.Weighted = population.WeightedDistances{
				Distance: []float64{0, math.Inf(1)},
				Weight:   []float64{0.5, 0.5},
			}
			require.NoError(t, store.Save(ctx, rec))

			got, err := store.Load(ctx, 0)
			require.NoError(t, err)
			require.Equal(t, 2, got.Weighted.Len())
			assert.Equal(t, 0.0, got.Weighted.Distance[0])
			assert.True(t, math.IsInf(got.Weighted.Distance[1], 1))
			assert.Equal(t, []float64{0.5, 0.5}, got.Weighted.Weight)
		})
	}
}

func TestStore_ReadsOtherCodec(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()

	writer := NewStore(blobs, WithCodec(codec.JSON{}), WithCompression(codec.CompressionLZ4))
	require.NoError(t, writer.Save(ctx, testRecord(t, 0)))

	reader := NewStore(blobs)
	rec, err := reader.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Generation)
}

func TestStore_Generations(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	store := NewStore(blobs)

	gens, err := store.Generations(ctx)
	require.NoError(t, err)
	assert.Empty(t, gens)

	_, err = store.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, g := range []int{2, 0, 11} {
		require.NoError(t, store.Save(ctx, testRecord(t, g)))
	}
	require.NoError(t, blobs.Put(ctx, "gen-notanumber.snap", []byte("x")))

	gens, err = store.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 11}, gens)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, latest.Generation)

	require.NoError(t, store.Delete(ctx, 2))
	gens, err = store.Generations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 11}, gens)
}

func TestStore_LocalBackend(t *testing.T) {
	ctx := context.Background()
	store := NewStore(blobstore.NewLocalStore(t.TempDir()))

	require.NoError(t, store.Save(ctx, testRecord(t, 1)))
	rec, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.Changed)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	store := NewStore(blobs)

	_, err := store.Load(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, blobs.Put(ctx, BlobName(6), []byte{9}))
	_, err = store.Load(ctx, 6)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, blobs.Put(ctx, BlobName(7), []byte{0, 7, 'm', 's', 'g', 'p', 'a', 'c', 'k'}))
	_, err = store.Load(ctx, 7)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, blobs.Put(ctx, BlobName(8), []byte{9, 0}))
	_, err = store.Load(ctx, 8)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBlobName(t *testing.T) {
	assert.Equal(t, "gen-000042.snap", BlobName(42))

	g, ok := parseBlobName("gen-000042.snap")
	assert.True(t, ok)
	assert.Equal(t, 42, g)

	for _, name := range []string{"gen-x.snap", "gen-000001.tmp", "other", "gen--1.snap"} {
		_, ok := parseBlobName(name)
		assert.False(t, ok, name)
	}
}
