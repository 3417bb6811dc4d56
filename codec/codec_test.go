package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Generation int                `json:"generation"`
	Weights    map[string]float64 `json:"weights"`
	Distances  []float64          `json:"distances"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_Interchangeable(t *testing.T) {
	in := record{
		Generation: 3,
		Weights:    map[string]float64{"b": 0.5, "a": 1.5},
		Distances:  []float64{0.1, 2, 3.25},
	}

	stdData, err := JSON{}.Marshal(in)
	require.NoError(t, err)
	goData, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, string(stdData), string(goData))

	var out record
	require.NoError(t, GoJSON{}.Unmarshal(stdData, &out))
	assert.Equal(t, in, out)
}

func TestCodecs_SortedMapKeys(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		data, err := c.Marshal(map[string]float64{"z": 1, "a": 2, "m": 3})
		require.NoError(t, err)
		assert.Equal(t, `{"a":2,"m":3,"z":1}`, string(data), c.Name())
	}
}

func TestGoJSON_Append(t *testing.T) {
	out, err := GoJSON{}.Append([]byte("x="), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "x=[1,2]", string(out))
}

func TestGoJSON_MarshalIndent(t *testing.T) {
	out, err := GoJSON{}.MarshalIndent(map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, "[1]", string(MustMarshal(nil, []int{1})))
	assert.Panics(t, func() { MustMarshal(JSON{}, math.NaN()) })
}

func TestCompression_RoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte(`{"distance":0.125,"weight":0.01},`), 200)
	incompressible := make([]byte, 256)
	for i := range incompressible {
		incompressible[i] = byte(i*131 + 7)
	}

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, incompressible, {}} {
				block, err := Compress(data, c)
				require.NoError(t, err)

				out, err := Decompress(block, c)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(out))
				assert.True(t, bytes.Equal(data, out))
			}

			if c != CompressionNone {
				block, err := Compress(compressible, c)
				require.NoError(t, err)
				assert.Less(t, len(block), len(compressible))
			}
		})
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, CompressionZSTD)
	assert.ErrorIs(t, err, ErrShortBlock)

	block, err := Compress(bytes.Repeat([]byte("abc"), 100), CompressionLZ4)
	require.NoError(t, err)
	_, err = Decompress(block[:len(block)-4], CompressionLZ4)
	assert.ErrorIs(t, err, ErrShortBlock)
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name     string
		expected Compression
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"lz4", CompressionLZ4},
		{"zstd", CompressionZSTD},
	}
	for _, tt := range tests {
		c, err := ParseCompression(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, c)
	}

	_, err := ParseCompression("snappy")
	assert.Error(t, err)
	assert.Equal(t, "compression(9)", Compression(9).String())
}
