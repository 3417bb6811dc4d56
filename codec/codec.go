// Package codec provides the encodings used for persisted generation
// records: value codecs (JSON, go-json) and block compression (LZ4, ZSTD).
//
// Codec and compression names are stored alongside persisted bytes, so
// records written with one codec can still be opened after the default
// changes.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names returns the names of the built-in codecs.
func Names() []string {
	return []string{"json", "go-json"}
}

// MustMarshal marshals v with c (Default if nil) and panics on error.
// Intended for tests and fixed, known-good values.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
